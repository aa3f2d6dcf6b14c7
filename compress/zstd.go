package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	zstdMaxBlockSize  = 128 << 10 // largest decoded block
	zstdMinBlockBytes = 4         // 3-byte block header plus one RLE byte
)

// Decoders are designed for reuse: after a warmup they decode without allocations.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// ZstdCompressor compresses with Zstandard.
//
// Images are packed once and unpacked at load time, so the encoder favors
// ratio over speed (SpeedBetterCompression). The packed header carries its
// own checksum, so the zstd frame CRC is disabled.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Compress compresses data with a pooled encoder.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses data with a pooled decoder.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}

// DecompressSized decompresses a frame that records a content size of
// exactly size bytes, decoding into a buffer allocated up front.
func (c ZstdCompressor) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var header zstd.Header
	if err := header.Decode(data); err != nil {
		return nil, fmt.Errorf("zstd frame header: %w", err)
	}
	if header.HasFCS && header.FrameContentSize != uint64(size) { //nolint:gosec
		return nil, fmt.Errorf("zstd frame decodes to %d bytes, expected %d", header.FrameContentSize, size)
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if len(decompressed) != size {
		return nil, fmt.Errorf("zstd frame decoded to %d bytes, expected %d", len(decompressed), size)
	}

	return decompressed, nil
}

// MaxDecodedSize returns the content size recorded in the frame header.
// Frames without one are bounded by their block count: every block takes at
// least zstdMinBlockBytes and decodes to at most zstdMaxBlockSize.
func (c ZstdCompressor) MaxDecodedSize(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	var header zstd.Header
	if err := header.Decode(data); err != nil {
		return 0, fmt.Errorf("zstd frame header: %w", err)
	}

	bound := uint64(len(data)/zstdMinBlockBytes+1) * zstdMaxBlockSize
	if !header.HasFCS {
		return int(bound), nil //nolint:gosec
	}
	if header.FrameContentSize > bound {
		return 0, fmt.Errorf("zstd frame claims %d bytes from %d", header.FrameContentSize, len(data))
	}

	return int(header.FrameContentSize), nil //nolint:gosec
}
