package louds

import (
	"fmt"
	"iter"

	"github.com/arloliu/loudstrie/bitvec"
	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/hash"
	"github.com/arloliu/loudstrie/internal/options"
	"github.com/arloliu/loudstrie/section"
)

// Trie is a read-only LOUDS trie opened over an image.
//
// The image bytes are referenced, never copied or modified; the caller must
// keep them alive and unchanged while the Trie is in use.
type Trie struct {
	header    section.TrieHeader
	tree      *bitvec.BitVector
	terminal  *bitvec.BitVector
	labels    []byte
	imageSize int
}

// Open validates image and returns a Trie over it.
//
// Every validation failure wraps errs.ErrInvalidImage together with a more
// specific sentinel (errs.ErrInvalidHeaderSize, errs.ErrInvalidHeaderFlags,
// errs.ErrImageSizeMismatch, errs.ErrInconsistentImage or
// errs.ErrChecksumMismatch).
func Open(image []byte, opts ...OpenOption) (*Trie, error) {
	cfg := defaultOpenConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if len(image) < section.HeaderSize {
		return nil, invalidImage(errs.ErrInvalidHeaderSize, "image is %d bytes", len(image))
	}

	t := &Trie{imageSize: len(image)}
	if err := t.header.Parse(image[:section.HeaderSize]); err != nil {
		return nil, invalidImage(err, "header")
	}
	if err := t.header.Validate(); err != nil {
		return nil, invalidImage(err, "header")
	}

	if size := t.header.ImageSize(); len(image) != size {
		return nil, invalidImage(errs.ErrImageSizeMismatch, "header describes %d bytes, got %d", size, len(image))
	}

	if cfg.verifyChecksum && t.header.Flag.HasChecksum() {
		if sum := imageChecksum(image); sum != t.header.Checksum {
			return nil, invalidImage(errs.ErrChecksumMismatch, "image %016x, header %016x", sum, t.header.Checksum)
		}
	}

	engine := t.header.GetEndianEngine()

	var err error
	t.tree, err = bitvec.New(image[section.PayloadOffset:t.header.TerminalOffset()], int(t.header.TreeBits), engine,
		bitvec.WithRank0Granularity(cfg.treeRank0),
		bitvec.WithRank1Granularity(cfg.treeRank1),
		bitvec.WithSelect0Granularity(cfg.treeSelect0),
		bitvec.WithSelect1Granularity(cfg.treeSelect1),
	)
	if err != nil {
		return nil, invalidImage(errs.ErrInconsistentImage, "tree vector: %v", err)
	}

	t.terminal, err = bitvec.New(image[t.header.TerminalOffset():t.header.LabelOffset()], int(t.header.TerminalBits), engine,
		bitvec.WithRank1Granularity(cfg.terminalRank1),
	)
	if err != nil {
		return nil, invalidImage(errs.ErrInconsistentImage, "terminal vector: %v", err)
	}

	t.labels = image[t.header.LabelOffset():]

	if err := t.checkShape(); err != nil {
		return nil, err
	}

	return t, nil
}

// checkShape cross-checks the bit vectors against the header counts, then
// walks the tree vector once. Every child must follow its parent in level
// order, sibling labels must be strictly increasing and the last node must
// sit at depth MaxDepth.
func (t *Trie) checkShape() error {
	nodes := t.header.NodeCount()

	if t.tree.Ones() != nodes {
		return invalidImage(errs.ErrInconsistentImage, "tree has %d ones for %d nodes", t.tree.Ones(), nodes)
	}
	if !t.tree.Get(0) || t.tree.Get(1) || t.tree.Get(t.tree.Len()-1) {
		return invalidImage(errs.ErrInconsistentImage, "malformed tree vector")
	}
	if t.terminal.Ones() != int(t.header.KeyCount) {
		return invalidImage(errs.ErrInconsistentImage, "%d terminal nodes for %d keys", t.terminal.Ones(), t.header.KeyCount)
	}

	// ones-1 is the node a 1-bit introduces, zeros-1 the node whose
	// children are being listed.
	var ones, zeros int
	depth, levelLast := -1, -1
	prevLabel := -1
	for i := range t.tree.Len() {
		if t.tree.Get(i) {
			ones++
			if zeros >= ones {
				return invalidImage(errs.ErrInconsistentImage, "node %d listed as a child of node %d", ones-1, zeros-1)
			}
			if ones < 2 {
				continue
			}
			label := int(t.labels[ones-2])
			if label <= prevLabel {
				return invalidImage(errs.ErrInconsistentImage, "node %d: label %#02x after sibling label %#02x", ones-1, label, prevLabel)
			}
			prevLabel = label

			continue
		}

		zeros++
		prevLabel = -1
		// the first parent past the current level starts the next one
		if parent := zeros - 1; parent < nodes && parent > levelLast {
			depth++
			levelLast = ones - 1
		}
	}

	if depth != int(t.header.MaxDepth) {
		return invalidImage(errs.ErrInconsistentImage, "tree is %d levels deep, header max depth %d", depth, t.header.MaxDepth)
	}

	return nil
}

// imageChecksum hashes the image with the header's checksum field zeroed.
func imageChecksum(image []byte) uint64 {
	var header [section.HeaderSize]byte
	copy(header[:section.ChecksumOffset], image)

	return hash.Checksum(header[:], image[section.PayloadOffset:])
}

func invalidImage(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", errs.ErrInvalidImage, cause, fmt.Sprintf(format, args...))
}

// Close drops the rank and select caches. The Trie must not be used afterwards.
func (t *Trie) Close() {
	t.tree = nil
	t.terminal = nil
	t.labels = nil
}

// KeyCount returns the number of keys.
func (t *Trie) KeyCount() int {
	return int(t.header.KeyCount)
}

// NodeCount returns the number of nodes, root included.
func (t *Trie) NodeCount() int {
	return t.header.NodeCount()
}

// MaxDepth returns the length of the longest key.
func (t *Trie) MaxDepth() int {
	return int(t.header.MaxDepth)
}

// IsValidNode reports whether n refers to a node of the trie.
func (t *Trie) IsValidNode(n Node) bool {
	return n.edge >= 0 && n.edge < t.tree.Len() && t.tree.Get(n.edge)
}

// IsTerminalNode reports whether n is valid and ends a key.
func (t *Trie) IsTerminalNode(n Node) bool {
	return t.IsValidNode(n) && t.terminal.Get(n.index)
}

// MoveToFirstChild returns the first child of n, or an invalid node if n
// is a leaf. It panics if n is invalid.
func (t *Trie) MoveToFirstChild(n Node) Node {
	t.mustBeValid(n)

	edge := t.tree.Select0(n.index+1) + 1

	return Node{edge: edge, index: edge - n.index - 1}
}

// MoveToNextSibling returns the next sibling of n, or an invalid node if n
// is the last child. It panics if n is invalid.
func (t *Trie) MoveToNextSibling(n Node) Node {
	t.mustBeValid(n)

	return Node{edge: n.edge + 1, index: n.index + 1}
}

// MoveToChildByLabel returns the child of n reached over label.
// It panics if n is invalid.
func (t *Trie) MoveToChildByLabel(n Node, label byte) (Node, bool) {
	child := t.MoveToFirstChild(n)
	for t.tree.Get(child.edge) {
		// siblings are sorted by label
		l := t.labels[child.index-1]
		if l == label {
			return child, true
		}
		if l > label {
			break
		}
		child.edge++
		child.index++
	}

	return Node{}, false
}

// EdgeLabelToParent returns the label of the edge from n's parent to n.
// It panics if n is the root or invalid.
func (t *Trie) EdgeLabelToParent(n Node) byte {
	t.mustBeNonRoot(n)

	return t.labels[n.index-1]
}

// Parent returns the parent of n. It panics if n is the root or invalid.
func (t *Trie) Parent(n Node) Node {
	t.mustBeNonRoot(n)

	parent := n.edge - n.index - 1

	return Node{edge: t.tree.Select1(parent + 1), index: parent}
}

// Children returns an iterator over the children of n in label order.
// It panics if n is invalid.
func (t *Trie) Children(n Node) iter.Seq[Node] {
	first := t.MoveToFirstChild(n)

	return func(yield func(Node) bool) {
		for child := first; t.tree.Get(child.edge); child = (Node{edge: child.edge + 1, index: child.index + 1}) {
			if !yield(child) {
				return
			}
		}
	}
}

// KeyIDOfTerminalNode returns the key ID of a terminal node.
// It panics if n is not a terminal node.
func (t *Trie) KeyIDOfTerminalNode(n Node) int {
	if !t.IsTerminalNode(n) {
		panic(fmt.Errorf("%w: node %d is not terminal", errs.ErrInvalidNode, n.index))
	}

	return t.terminal.Rank1(n.index)
}

// TerminalNodeFromKeyID returns the terminal node of a key ID.
// It panics if id is not in [0, KeyCount()).
func (t *Trie) TerminalNodeFromKeyID(id int) Node {
	if id < 0 || id >= t.KeyCount() {
		panic(fmt.Errorf("%w: key id %d not in [0, %d)", errs.ErrOutOfRange, id, t.KeyCount()))
	}

	index := t.terminal.Select1(id + 1)

	return Node{edge: t.tree.Select1(index + 1), index: index}
}

func (t *Trie) mustBeValid(n Node) {
	if !t.IsValidNode(n) {
		panic(fmt.Errorf("%w: edge %d index %d", errs.ErrInvalidNode, n.edge, n.index))
	}
}

func (t *Trie) mustBeNonRoot(n Node) {
	t.mustBeValid(n)
	if n.index == 0 {
		panic(fmt.Errorf("%w: root has no parent", errs.ErrInvalidNode))
	}
}
