package louds

import (
	"fmt"
	"iter"

	"github.com/arloliu/loudstrie/errs"
)

// Traverse follows key from the root and returns the node it ends at.
// It succeeds for any path in the trie, whether or not the node ends a key.
func (t *Trie) Traverse(key string) (Node, bool) {
	n := Node{}
	for i := 0; i < len(key); i++ {
		child, ok := t.MoveToChildByLabel(n, key[i])
		if !ok {
			return Node{}, false
		}
		n = child
	}

	return n, true
}

// ExactSearch returns the ID of key, or NotFound.
func (t *Trie) ExactSearch(key string) int {
	n, ok := t.Traverse(key)
	if !ok || !t.terminal.Get(n.index) {
		return NotFound
	}

	return t.terminal.Rank1(n.index)
}

// HasKey reports whether key is stored in the trie.
func (t *Trie) HasKey(key string) bool {
	return t.ExactSearch(key) != NotFound
}

// PrefixSearch returns an iterator over the stored keys that are prefixes
// of key, shortest first. Each step yields the prefix length and its
// terminal node. The empty prefix is never yielded.
//
// Iteration ends at the first byte of key that has no matching edge.
//
// Example:
//
//	for n, node := range trie.PrefixSearch("abc") {
//	    fmt.Println(key[:n], trie.KeyIDOfTerminalNode(node))
//	}
func (t *Trie) PrefixSearch(key string) iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		n := Node{}
		for i := 0; i < len(key); i++ {
			child, ok := t.MoveToChildByLabel(n, key[i])
			if !ok {
				return
			}
			n = child
			if t.terminal.Get(n.index) && !yield(i+1, n) {
				return
			}
		}
	}
}

// RestoreKeyString writes the key of id into the tail of buf and returns
// that tail. buf must be at least MaxDepth() bytes long.
//
// It returns nil for NotFound and panics for any other id outside
// [0, KeyCount()) or when buf is too short.
//
// Example:
//
//	buf := make([]byte, trie.MaxDepth())
//	key := trie.RestoreKeyString(id, buf)
func (t *Trie) RestoreKeyString(id int, buf []byte) []byte {
	if id == NotFound {
		return nil
	}
	if len(buf) < t.MaxDepth() {
		panic(fmt.Errorf("%w: buffer of %d bytes, max depth %d", errs.ErrOutOfRange, len(buf), t.MaxDepth()))
	}

	n := t.TerminalNodeFromKeyID(id)
	pos := len(buf)
	for n.index != 0 {
		if pos == 0 {
			panic(fmt.Errorf("%w: key %d deeper than %d", errs.ErrInconsistentImage, id, len(buf)))
		}
		pos--
		buf[pos] = t.labels[n.index-1]

		parent := n.edge - n.index - 1
		n = Node{edge: t.tree.Select1(parent + 1), index: parent}
	}

	return buf[pos:]
}

// RestoreKey returns the key of id as a new string, or "" for NotFound.
// It panics for any other id outside [0, KeyCount()).
func (t *Trie) RestoreKey(id int) string {
	if id == NotFound {
		return ""
	}

	buf := make([]byte, t.MaxDepth())

	return string(t.RestoreKeyString(id, buf))
}
