// Package pack wraps trie images in a compressed, checksummed envelope for
// storage and distribution.
//
// A packed image is a section.PackHeader followed by the compressed image.
// Decode restores the image and verifies its xxHash64:
//
//	packed, err := pack.Encode(image, pack.WithCompression(format.CompressionZstd))
//	...
//	image, err = pack.Decode(packed)
package pack

import (
	"fmt"

	"github.com/arloliu/loudstrie/compress"
	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/format"
	"github.com/arloliu/loudstrie/internal/hash"
	"github.com/arloliu/loudstrie/internal/options"
	"github.com/arloliu/loudstrie/internal/pool"
	"github.com/arloliu/loudstrie/section"
)

// IsPacked reports whether data starts with a pack header.
func IsPacked(data []byte) bool {
	return section.IsPackHeader(data)
}

// Encode compresses image into a packed image.
//
// When the selected compression does not shrink the image, it is stored
// uncompressed and the header records format.CompressionNone.
func Encode(image []byte, opts ...Option) ([]byte, error) {
	cfg := config{compression: format.CompressionZstd}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidCompression, err)
	}

	payload, err := codec.Compress(image)
	if err != nil {
		return nil, fmt.Errorf("failed to compress image: %w", err)
	}

	header := section.NewPackHeader(cfg.compression)
	if cfg.bigEndian {
		header.Options |= section.EndiannessMask
	}
	if cfg.compression != format.CompressionNone && (len(payload) == 0 || len(payload) >= len(image)) {
		header.Compression = format.CompressionNone
		payload = image
	}
	header.RawSize = uint64(len(image))
	header.PackedSize = uint64(len(payload))
	header.Checksum = hash.Checksum(image)

	buf := pool.GetPackBuffer()
	defer pool.PutPackBuffer(buf)

	buf.Grow(section.HeaderSize + len(payload))
	buf.MustWrite(header.Bytes())
	buf.MustWrite(payload)

	packed := make([]byte, buf.Len())
	copy(packed, buf.Bytes())

	return packed, nil
}

// Decode restores the image from a packed image and verifies its checksum.
//
// Data that does not start with a pack header fails with errs.ErrNotPacked.
// For uncompressed packs the returned image aliases data.
func Decode(data []byte) ([]byte, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[section.HeaderSize:]
	if uint64(len(payload)) != header.PackedSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", errs.ErrImageSizeMismatch, len(payload), header.PackedSize)
	}
	if header.RawSize > section.MaxImageSize {
		return nil, fmt.Errorf("%w: declared size %d exceeds the largest image", errs.ErrImageSizeMismatch, header.RawSize)
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidCompression, err)
	}

	// reject impossible sizes before the output buffer is allocated
	bound, err := codec.MaxDecodedSize(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress image: %w", err)
	}
	if header.RawSize > uint64(bound) { //nolint:gosec
		return nil, fmt.Errorf("%w: declared size %d, %s payload of %d bytes decodes to at most %d",
			errs.ErrImageSizeMismatch, header.RawSize, header.Compression, len(payload), bound)
	}

	image, err := codec.DecompressSized(payload, int(header.RawSize))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress image: %w", err)
	}

	if uint64(len(image)) != header.RawSize {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", errs.ErrImageSizeMismatch, len(image), header.RawSize)
	}
	if sum := hash.Checksum(image); sum != header.Checksum {
		return nil, fmt.Errorf("%w: image %016x, header %016x", errs.ErrHashMismatch, sum, header.Checksum)
	}

	return image, nil
}

// ParseHeader parses and validates the pack header at the start of data.
func ParseHeader(data []byte) (*section.PackHeader, error) {
	if len(data) < section.HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrInvalidHeaderSize, len(data))
	}

	header := &section.PackHeader{}
	if err := header.Parse(data[:section.HeaderSize]); err != nil {
		return nil, err
	}

	return header, nil
}
