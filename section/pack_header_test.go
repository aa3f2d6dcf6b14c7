package section

import (
	"testing"

	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/format"
	"github.com/stretchr/testify/require"
)

func TestPackHeader_RoundTrip(t *testing.T) {
	original := NewPackHeader(format.CompressionZstd)
	original.RawSize = 4096
	original.PackedSize = 512
	original.Checksum = 0xDEADBEEF

	data := original.Bytes()
	require.True(t, IsPackHeader(data))

	parsed := &PackHeader{}
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, original, parsed)
	require.False(t, parsed.IsBigEndian())
}

func TestPackHeader_BigEndian(t *testing.T) {
	original := NewPackHeader(format.CompressionS2)
	original.Options |= EndiannessMask
	original.RawSize = 1

	data := original.Bytes()
	require.Equal(t, byte(1), data[15])

	parsed := &PackHeader{}
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, original, parsed)
}

func TestPackHeader_ParseErrors(t *testing.T) {
	t.Run("Short data", func(t *testing.T) {
		require.ErrorIs(t, (&PackHeader{}).Parse(make([]byte, 4)), errs.ErrInvalidHeaderSize)
	})

	t.Run("Trie image is not packed", func(t *testing.T) {
		trie, err := NewTrieHeader(1, 0, 0)
		require.NoError(t, err)
		data := trie.Bytes()

		require.False(t, IsPackHeader(data))
		require.ErrorIs(t, (&PackHeader{}).Parse(data), errs.ErrNotPacked)
	})

	t.Run("Unknown compression", func(t *testing.T) {
		data := NewPackHeader(format.CompressionLZ4).Bytes()
		data[2] = 99
		require.ErrorIs(t, (&PackHeader{}).Parse(data), errs.ErrInvalidCompression)
	})

	t.Run("Reserved bits", func(t *testing.T) {
		data := NewPackHeader(format.CompressionNone).Bytes()
		data[3] = 1
		require.ErrorIs(t, (&PackHeader{}).Parse(data), errs.ErrInvalidHeaderFlags)
	})
}
