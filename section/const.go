package section

const (
	// Bit masks of the Options field shared by TrieFlag and PackFlag.
	ChecksumMask     = 0x0001 // Mask for checksum-present bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15)
	MagicTrieV1Opt = 0xEC10 // MagicTrieV1Opt identifies a version 1 LOUDS trie image.
	MagicPackV1Opt = 0xED10 // MagicPackV1Opt identifies a version 1 packed image.

	TrieVersion = 1 // current trie image layout version
)

// offsets and sizes in the trie image
const (
	HeaderSize     = 32        // fixed header size in bytes (trie image and pack)
	WordSize       = 8         // bit vector payloads are stored as 64-bit words
	MaxTreeBits    = 1<<32 - 1 // tree bit count must fit a uint32
	PayloadOffset  = HeaderSize
	ChecksumOffset = 24 // the header's checksum field is its last 8 bytes
	MaxNodes       = (MaxTreeBits - 1) / 2
	wordBitsLog2   = 6
	wordBitsMinus1 = 63
)

// MaxImageSize is the length of the largest image the 32-bit header
// fields can describe.
const MaxImageSize uint64 = HeaderSize +
	(MaxTreeBits+wordBitsMinus1)>>wordBitsLog2*WordSize +
	(MaxNodes+wordBitsMinus1)>>wordBitsLog2*WordSize +
	MaxNodes - 1

// WordsForBits returns the number of 64-bit words holding n bits.
func WordsForBits(n int) int {
	return (n + wordBitsMinus1) >> wordBitsLog2
}

// BytesForBits returns the number of payload bytes holding n bits,
// rounded up to whole words.
func BytesForBits(n int) int {
	return WordsForBits(n) * WordSize
}
