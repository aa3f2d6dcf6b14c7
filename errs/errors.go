// Package errs defines the sentinel errors shared by the loudstrie packages.
//
// Callers should compare with errors.Is, since most errors are returned
// wrapped with additional context.
package errs

import "errors"

// Image parsing errors.
var (
	// ErrInvalidImage is the umbrella error returned when an image cannot be opened.
	ErrInvalidImage = errors.New("invalid trie image")
	// ErrInvalidHeaderSize indicates the data is shorter than the fixed header.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrInvalidHeaderFlags indicates a wrong magic number, version or reserved bits.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	// ErrImageSizeMismatch indicates the payload length disagrees with the header.
	ErrImageSizeMismatch = errors.New("image size mismatch")
	// ErrInconsistentImage indicates header counts that contradict each other or the payload.
	ErrInconsistentImage = errors.New("inconsistent image")
	// ErrChecksumMismatch indicates the payload does not match the stored checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Builder errors.
var (
	// ErrBuilderFinished is returned by Add or Build after Build has completed.
	ErrBuilderFinished = errors.New("builder already finished")
	// ErrKeyTooLong is returned when a key exceeds the configured maximum depth.
	ErrKeyTooLong = errors.New("key too long")
	// ErrInvalidMaxDepth is returned for a non-positive or oversized maximum depth.
	ErrInvalidMaxDepth = errors.New("invalid max depth")
	// ErrTooManyNodes is returned when the trie does not fit the 32-bit header fields.
	ErrTooManyNodes = errors.New("too many trie nodes")
)

// Bit vector errors.
var (
	// ErrInvalidBitCount indicates a bit count that does not fit the backing data.
	ErrInvalidBitCount = errors.New("invalid bit count")
	// ErrInvalidGranularity indicates a negative cache granularity.
	ErrInvalidGranularity = errors.New("invalid cache granularity")
)

// Contract violations. These are carried by panics rather than returned.
var (
	// ErrOutOfRange indicates a rank, select, position or key ID outside its valid range.
	ErrOutOfRange = errors.New("argument out of range")
	// ErrInvalidNode indicates an invalid node handle where a valid one is required.
	ErrInvalidNode = errors.New("invalid node")
)

// Packed image errors.
var (
	// ErrNotPacked indicates the data does not start with a pack header.
	ErrNotPacked = errors.New("data is not a packed image")
	// ErrInvalidCompression indicates an unknown compression type.
	ErrInvalidCompression = errors.New("invalid compression type")
	// ErrHashMismatch indicates an unpacked image whose hash differs from the recorded one.
	ErrHashMismatch = errors.New("hash mismatch")
)

// Key expansion errors.
var (
	// ErrInvalidExpansionTable indicates a malformed key expansion table definition.
	ErrInvalidExpansionTable = errors.New("invalid expansion table")
)
