package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

const (
	// maxLZ4Output bounds the decompression buffer for corrupted input.
	maxLZ4Output = 128 * 1024 * 1024
	// lz4MaxRatio is the largest expansion of an LZ4 block: a match length
	// grows by 255 for every extra input byte.
	lz4MaxRatio = 255
	lz4MaxSlack = 16
)

// LZ4Compressor compresses with the LZ4 block format.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data with a pooled lz4.Compressor.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses LZ4 block data.
//
// The block format does not record the decompressed size, so the buffer
// starts at 4x the input and doubles on ErrInvalidSourceShortBuffer up to
// maxLZ4Output.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return decompressLZ4(data, len(data)*4)
}

// DecompressSized decompresses LZ4 block data whose decompressed size is known,
// as it is for packed images.
func (c LZ4Compressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bound, _ := c.MaxDecodedSize(data)
	if size > bound {
		return nil, fmt.Errorf("lz4 block of %d bytes cannot decode to %d bytes", len(data), size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("lz4 block decoded to %d bytes, expected %d", n, size)
	}

	return buf, nil
}

// MaxDecodedSize returns the largest size an LZ4 block of len(data) bytes
// can decode to.
func (c LZ4Compressor) MaxDecodedSize(data []byte) (int, error) {
	return lz4MaxRatio*len(data) + lz4MaxSlack, nil
}

func decompressLZ4(data []byte, bufSize int) ([]byte, error) {
	if bufSize < 64 {
		bufSize = 64
	}

	for bufSize <= maxLZ4Output {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxLZ4Output {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
