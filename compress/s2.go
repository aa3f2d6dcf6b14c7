package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor packs images as a single S2 block.
//
// The block starts with the decoded length, so the output buffer is sized
// from the block itself and never grown.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes data in S2's better mode, which favors ratio over speed.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// DecompressSized decodes the block after checking that its recorded
// length is size.
func (c S2Compressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("s2 block decodes to %d bytes, expected %d", n, size)
	}

	return s2.Decode(make([]byte, size), data)
}

// MaxDecodedSize returns the decoded length recorded in the block.
func (c S2Compressor) MaxDecodedSize(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	return s2.DecodedLen(data)
}
