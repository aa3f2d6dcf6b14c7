package section

import (
	"fmt"

	"github.com/arloliu/loudstrie/endian"
	"github.com/arloliu/loudstrie/errs"
)

// TrieHeader is the fixed 32-byte header of a LOUDS trie image.
//
// The tree-shape vector has one 1-bit per node (the root's 1 is the
// super-root prefix "10") and one 0-bit per node plus the super-root's, so
// TreeBits is always 2*nodes+1. The terminal vector has one bit per node and
// the label array one byte per non-root node.
type TrieHeader struct {
	// Flag holds the options, magic number and version.
	Flag TrieFlag // 4 bytes, offset 0-3
	// KeyCount is the number of distinct keys (set bits of the terminal vector).
	KeyCount uint32 // 4 bytes, offset 4-7
	// MaxDepth is the length of the longest key.
	MaxDepth uint32 // 4 bytes, offset 8-11
	// TreeBits is the length of the tree-shape vector in bits.
	TreeBits uint32 // 4 bytes, offset 12-15
	// LabelCount is the length of the edge label array in bytes.
	LabelCount uint32 // 4 bytes, offset 16-19
	// TerminalBits is the length of the terminal vector in bits.
	TerminalBits uint32 // 4 bytes, offset 20-23
	// Checksum is the xxHash64 of the header, with this field zeroed, followed
	// by the payload. 0 when absent.
	Checksum uint64 // 8 bytes, offset 24-31
}

// NewTrieHeader creates a header for a trie with the given node count.
func NewTrieHeader(nodeCount, keyCount, maxDepth int) (*TrieHeader, error) {
	if nodeCount < 1 {
		return nil, fmt.Errorf("%w: node count %d", errs.ErrInconsistentImage, nodeCount)
	}
	if 2*uint64(nodeCount)+1 > MaxTreeBits {
		return nil, fmt.Errorf("%w: %d nodes", errs.ErrTooManyNodes, nodeCount)
	}

	return &TrieHeader{
		Flag:         NewTrieFlag(),
		KeyCount:     uint32(keyCount),        //nolint:gosec
		MaxDepth:     uint32(maxDepth),        //nolint:gosec
		TreeBits:     uint32(2*nodeCount + 1), //nolint:gosec
		LabelCount:   uint32(nodeCount - 1),   //nolint:gosec
		TerminalBits: uint32(nodeCount),       //nolint:gosec
	}, nil
}

// Parse parses the header from exactly HeaderSize bytes.
func (h *TrieHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The options field itself is always little-endian.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Version = data[2]
	h.Flag.Reserved = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.GetEndianEngine()
	h.KeyCount = engine.Uint32(data[4:8])
	h.MaxDepth = engine.Uint32(data[8:12])
	h.TreeBits = engine.Uint32(data[12:16])
	h.LabelCount = engine.Uint32(data[16:20])
	h.TerminalBits = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return nil
}

// Bytes serializes the header into a new HeaderSize byte slice.
func (h *TrieHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Version
	b[3] = h.Flag.Reserved
	engine.PutUint32(b[4:8], h.KeyCount)
	engine.PutUint32(b[8:12], h.MaxDepth)
	engine.PutUint32(b[12:16], h.TreeBits)
	engine.PutUint32(b[16:20], h.LabelCount)
	engine.PutUint32(b[20:24], h.TerminalBits)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// GetEndianEngine returns the engine matching the header's endianness flag.
func (h *TrieHeader) GetEndianEngine() endian.EndianEngine {
	return endian.FromFlag(h.Flag.IsBigEndian())
}

// NodeCount returns the number of trie nodes, root included.
func (h *TrieHeader) NodeCount() int {
	return int(h.TerminalBits)
}

// TreeBytes returns the byte length of the tree-shape payload.
func (h *TrieHeader) TreeBytes() int {
	return BytesForBits(int(h.TreeBits))
}

// TerminalBytes returns the byte length of the terminal payload.
func (h *TrieHeader) TerminalBytes() int {
	return BytesForBits(int(h.TerminalBits))
}

// TerminalOffset returns the byte offset of the terminal payload in the image.
func (h *TrieHeader) TerminalOffset() int {
	return PayloadOffset + h.TreeBytes()
}

// LabelOffset returns the byte offset of the label array in the image.
func (h *TrieHeader) LabelOffset() int {
	return h.TerminalOffset() + h.TerminalBytes()
}

// ImageSize returns the exact image length implied by the header.
func (h *TrieHeader) ImageSize() int {
	return h.LabelOffset() + int(h.LabelCount)
}

// Validate cross-checks the header's counts against each other.
// It does not look at the payload.
func (h *TrieHeader) Validate() error {
	nodes := uint64(h.TerminalBits)
	if nodes == 0 {
		return fmt.Errorf("%w: empty terminal vector", errs.ErrInconsistentImage)
	}
	if uint64(h.TreeBits) != 2*nodes+1 {
		return fmt.Errorf("%w: tree bits %d for %d nodes", errs.ErrInconsistentImage, h.TreeBits, nodes)
	}
	if uint64(h.LabelCount) != nodes-1 {
		return fmt.Errorf("%w: %d labels for %d nodes", errs.ErrInconsistentImage, h.LabelCount, nodes)
	}
	if uint64(h.KeyCount) > nodes {
		return fmt.Errorf("%w: %d keys for %d nodes", errs.ErrInconsistentImage, h.KeyCount, nodes)
	}
	if uint64(h.MaxDepth) > nodes-1 {
		return fmt.Errorf("%w: max depth %d for %d nodes", errs.ErrInconsistentImage, h.MaxDepth, nodes)
	}

	return nil
}
