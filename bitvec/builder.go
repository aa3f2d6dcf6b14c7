package bitvec

import (
	"github.com/arloliu/loudstrie/endian"
)

// Builder appends bits one at a time and serializes them as 64-bit words.
//
// The zero value is an empty builder ready for use.
type Builder struct {
	words   []uint64
	numBits int
}

// NewBuilder creates a builder with room for capacityBits bits.
func NewBuilder(capacityBits int) *Builder {
	return &Builder{words: make([]uint64, 0, (capacityBits+wordBitsMask)>>wordShift)}
}

// Append appends one bit.
func (b *Builder) Append(bit bool) {
	if b.numBits&wordBitsMask == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.numBits>>wordShift] |= 1 << (uint(b.numBits) & wordBitsMask)
	}
	b.numBits++
}

// AppendRun appends count copies of bit.
func (b *Builder) AppendRun(bit bool, count int) {
	for range count {
		b.Append(bit)
	}
}

// Len returns the number of appended bits.
func (b *Builder) Len() int {
	return b.numBits
}

// Words returns the backing words. The last word is zero padded.
func (b *Builder) Words() []uint64 {
	return b.words
}

// Bytes returns the words encoded with engine, 8 bytes per word.
func (b *Builder) Bytes(engine endian.EndianEngine) []byte {
	return b.AppendTo(make([]byte, 0, len(b.words)*wordBytes), engine)
}

// AppendTo appends the encoded words to dst and returns the extended slice.
func (b *Builder) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	for _, w := range b.words {
		dst = engine.AppendUint64(dst, w)
	}

	return dst
}

// Build creates a BitVector over the appended bits without copying them.
// The builder must not be appended to afterwards.
func (b *Builder) Build(opts ...Option) (*BitVector, error) {
	return FromWords(b.words, b.numBits, opts...)
}
