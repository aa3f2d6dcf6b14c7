package section

import "github.com/arloliu/loudstrie/errs"

// TrieFlag is the packed flag at the start of a trie image header.
type TrieFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is the checksum flag, 1 means Checksum holds the image's xxHash64.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 2-3 are reserved and must be 0.
	// Bits 4-15 are the magic number 0xEC10.
	Options uint16

	// Version is the image layout version.
	Version uint8

	// Reserved must be zero.
	Reserved uint8
}

// NewTrieFlag creates a little-endian version 1 flag without checksum.
func NewTrieFlag() TrieFlag {
	flag := TrieFlag{
		Options: MagicTrieV1Opt,
		Version: TrieVersion,
	}
	flag.WithLittleEndian()

	return flag
}

// HasChecksum reports whether the header carries an image checksum.
func (f TrieFlag) HasChecksum() bool {
	return (f.Options & ChecksumMask) != 0
}

// SetHasChecksum enables or disables the checksum bit.
func (f *TrieFlag) SetHasChecksum(enabled bool) {
	if enabled {
		f.Options |= ChecksumMask
	} else {
		f.Options &^= ChecksumMask
	}
}

// IsBigEndian reports whether integers and bit vector words are big-endian.
func (f TrieFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *TrieFlag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian sets big-endian byte order.
func (f *TrieFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f TrieFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Validate checks magic, version and reserved bits.
func (f TrieFlag) Validate() error {
	if f.GetMagicNumber() != MagicTrieV1Opt {
		return errs.ErrInvalidHeaderFlags
	}

	if (f.Options&ReservedBitsMask) != 0 || f.Reserved != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if f.Version != TrieVersion {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}
