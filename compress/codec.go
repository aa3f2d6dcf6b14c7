package compress

import (
	"fmt"

	"github.com/arloliu/loudstrie/format"
)

// Compressor compresses a complete payload.
//
// The returned slice is owned by the caller, except for the no-op codec,
// which returns its input.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// It returns an error when the data is corrupted or was produced by another
// algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
	// DecompressSized restores a payload whose decompressed size is known.
	// It allocates at most size bytes and fails if the payload decodes to
	// any other length.
	DecompressSized(data []byte, size int) ([]byte, error)
	// MaxDecodedSize returns an upper bound of the decompressed size of
	// data, computed without decompressing it.
	MaxDecodedSize(data []byte) (int, error)
}

// Codec combines both compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared Codec for the given compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("no codec for compression %s", compressionType)
}
