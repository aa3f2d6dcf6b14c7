package section

import (
	"github.com/arloliu/loudstrie/endian"
	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/format"
)

// PackHeader is the fixed 32-byte header of a packed (compressed) image.
//
//	Bytes  | Field       | Type   | Description
//	-------|-------------|--------|----------------------------------
//	0-1    | Options     | uint16 | endianness bit + magic 0xED10
//	2      | Compression | uint8  | format.CompressionType
//	3      | Reserved    | uint8  | must be zero
//	4-7    | Reserved    | uint32 | must be zero
//	8-15   | RawSize     | uint64 | size of the unpacked image
//	16-23  | PackedSize  | uint64 | size of the compressed payload
//	24-31  | Checksum    | uint64 | xxHash64 of the unpacked image
type PackHeader struct {
	Options     uint16
	Compression format.CompressionType
	RawSize     uint64
	PackedSize  uint64
	Checksum    uint64
}

// NewPackHeader creates a little-endian pack header for the given compression.
func NewPackHeader(compression format.CompressionType) *PackHeader {
	return &PackHeader{
		Options:     MagicPackV1Opt,
		Compression: compression,
	}
}

// IsBigEndian reports whether the header integers are big-endian.
func (h *PackHeader) IsBigEndian() bool {
	return (h.Options & EndiannessMask) != 0
}

// GetEndianEngine returns the engine matching the header's endianness flag.
func (h *PackHeader) GetEndianEngine() endian.EndianEngine {
	return endian.FromFlag(h.IsBigEndian())
}

// IsPackHeader reports whether data starts with a pack magic number.
func IsPackHeader(data []byte) bool {
	if len(data) < HeaderSize {
		return false
	}
	options := uint16(data[0]) | (uint16(data[1]) << 8)

	return options&MagicNumberMask == MagicPackV1Opt
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *PackHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	if h.Options&MagicNumberMask != MagicPackV1Opt {
		return errs.ErrNotPacked
	}
	if h.Options&(ReservedBitsMask|ChecksumMask) != 0 || data[3] != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	h.Compression = format.CompressionType(data[2])
	if !h.Compression.IsValid() {
		return errs.ErrInvalidCompression
	}

	engine := h.GetEndianEngine()
	if engine.Uint32(data[4:8]) != 0 {
		return errs.ErrInvalidHeaderFlags
	}
	h.RawSize = engine.Uint64(data[8:16])
	h.PackedSize = engine.Uint64(data[16:24])
	h.Checksum = engine.Uint64(data[24:32])

	return nil
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h *PackHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.GetEndianEngine()

	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = byte(h.Compression)
	engine.PutUint64(b[8:16], h.RawSize)
	engine.PutUint64(b[16:24], h.PackedSize)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}
