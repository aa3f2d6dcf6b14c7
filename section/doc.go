// Package section defines the fixed-size headers of the loudstrie binary formats.
//
// # Trie image
//
// A trie image is a single contiguous byte slice:
//
//	+--------------------+  offset 0
//	| TrieHeader (32 B)  |
//	+--------------------+  offset 32
//	| tree-shape words   |  ceil(TreeBits/64) * 8 bytes
//	+--------------------+
//	| terminal words     |  ceil(TerminalBits/64) * 8 bytes
//	+--------------------+
//	| edge labels        |  LabelCount bytes
//	+--------------------+
//
// Header layout:
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|-----------------------------------------
//	0-1    | Options      | uint16 | flags + magic, always little-endian
//	2      | Version      | uint8  | layout version (1)
//	3      | Reserved     | uint8  | must be zero
//	4-7    | KeyCount     | uint32 | number of stored keys
//	8-11   | MaxDepth     | uint32 | length of the longest key
//	12-15  | TreeBits     | uint32 | tree-shape vector length in bits
//	16-19  | LabelCount   | uint32 | label array length in bytes
//	20-23  | TerminalBits | uint32 | terminal vector length in bits
//	24-31  | Checksum     | uint64 | xxHash64 of header+payload, 0 when absent
//
// Options bits:
//
//	Bit 0     checksum present
//	Bit 1     endianness (0 little, 1 big) of every field after Options and of the bit vector words
//	Bits 2-3  reserved
//	Bits 4-15 magic number 0xEC10
//
// Bit i of a vector lives in word i/64 at bit position i%64 (least
// significant first). The last word of each vector is zero padded.
//
// # Packed image
//
// A packed image wraps a compressed trie image behind a PackHeader with
// magic 0xED10. See PackHeader for its layout.
package section
