package louds

// NotFound is the key ID returned for keys that are not in the trie.
const NotFound = -1

// Node is a handle to a trie node.
//
// The zero value is the root. A Node is only meaningful for the Trie that
// produced it; handles from navigation that ran off the end of a child list
// are invalid (see Trie.IsValidNode).
type Node struct {
	edge  int // position of the node's 1-bit in the tree-shape vector
	index int // breadth-first node index, 0 for the root
}

// Root returns the root node.
func Root() Node {
	return Node{}
}

// IsRoot reports whether n is the root node.
func (n Node) IsRoot() bool {
	return n.index == 0
}

// Index returns the breadth-first index of the node.
func (n Node) Index() int {
	return n.index
}
