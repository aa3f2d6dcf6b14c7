// Package louds implements a succinct trie in the LOUDS (level-order unary
// degree sequence) encoding.
//
// A Builder compiles a key set into an immutable image. Open validates an
// image and returns a Trie, a read-only view over the image bytes plus the
// rank and select caches needed to navigate it:
//
//	b, _ := louds.NewBuilder()
//	for _, k := range keys {
//	    _ = b.Add(k)
//	}
//	if err := b.Build(); err != nil {
//	    return err
//	}
//
//	trie, err := louds.Open(b.Image())
//	if err != nil {
//	    return err
//	}
//	id := trie.ExactSearch("apple")
//
// # Encoding
//
// Nodes are numbered 0..N-1 in breadth-first order with children in
// ascending label order; node 0 is the root. The tree-shape vector starts
// with "10" for a virtual super-root whose only child is the root, followed
// by each node's degree in unary (one 1 per child, then a 0). A node is
// identified by the position of its 1-bit, so:
//
//	first child of v:  e' = Select0(v+1) + 1, v' = e' - v - 1
//	next sibling:      (e+1, v+1)
//	parent of v:       p = e - v - 1, edge Select1(p+1)
//
// The label of node v (v >= 1) is labels[v-1] and bit v of the terminal
// vector marks the end of a key. The ID of a key is the number of terminal
// nodes before its node in breadth-first order.
//
// # Concurrency
//
// A Trie is immutable after Open and safe for concurrent use. A Builder
// must be used by a single goroutine.
package louds
