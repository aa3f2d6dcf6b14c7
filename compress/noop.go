package compress

import "fmt"

// NoOpCompressor stores images as they are.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data itself. The result aliases the input.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself. The result aliases the input.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// DecompressSized returns data itself if it is size bytes long.
func (c NoOpCompressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) != size {
		return nil, fmt.Errorf("stored payload is %d bytes, expected %d", len(data), size)
	}

	return data, nil
}

func (c NoOpCompressor) MaxDecodedSize(data []byte) (int, error) {
	return len(data), nil
}
