package bitvec

import (
	"testing"

	"github.com/arloliu/loudstrie/endian"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Append(t *testing.T) {
	var b Builder
	require.Equal(t, 0, b.Len())
	require.Empty(t, b.Words())

	b.Append(true)
	b.Append(false)
	b.AppendRun(true, 2)
	require.Equal(t, 4, b.Len())
	require.Equal(t, []uint64{0b1101}, b.Words())

	b.AppendRun(false, 60)
	require.Len(t, b.Words(), 1)
	b.Append(true)
	require.Equal(t, 65, b.Len())
	require.Equal(t, []uint64{0b1101, 1}, b.Words())
}

func TestBuilder_Bytes(t *testing.T) {
	b := NewBuilder(16)
	b.AppendRun(true, 9)

	le := b.Bytes(endian.GetLittleEndianEngine())
	require.Equal(t, []byte{0xFF, 0x01, 0, 0, 0, 0, 0, 0}, le)

	be := b.Bytes(endian.GetBigEndianEngine())
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x01, 0xFF}, be)

	prefix := []byte{0xAA}
	out := b.AppendTo(prefix, endian.GetLittleEndianEngine())
	require.Equal(t, append([]byte{0xAA}, le...), out)
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(0)
	b.AppendRun(false, 3)
	b.Append(true)

	bv, err := b.Build(WithRank1Granularity(1))
	require.NoError(t, err)
	require.Equal(t, 4, bv.Len())
	require.Equal(t, 3, bv.Select1(1))
	require.Equal(t, 3, bv.Rank0(4))

	empty, err := (&Builder{}).Build()
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())
}
