package keyexp

import (
	"iter"

	"github.com/arloliu/loudstrie/internal/pool"
	"github.com/arloliu/loudstrie/louds"
)

// searcher walks every branch of the trie whose labels match the input
// under the table. path holds the labels from the root to the current node.
type searcher struct {
	trie      *louds.Trie
	table     *Table
	key       string
	path      []byte
	out       []byte // Key of the current result
	remaining int    // results left, negative for no limit
	yield     func(Result) bool
}

// emit yields a result and reports whether the search should go on.
func (s *searcher) emit(node louds.Node, depth, matched int) bool {
	r := Result{
		Key:        s.out[:depth],
		ActualKey:  s.path[:depth],
		MatchedLen: matched,
		ID:         s.trie.KeyIDOfTerminalNode(node),
	}
	if !s.yield(r) {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}

	return s.remaining != 0
}

// matching returns the children of n whose label the input byte c matches.
func (s *searcher) matching(n louds.Node, c byte) iter.Seq[louds.Node] {
	if s.table.IsIdentity() {
		return func(yield func(louds.Node) bool) {
			if child, ok := s.trie.MoveToChildByLabel(n, c); ok {
				yield(child)
			}
		}
	}

	return func(yield func(louds.Node) bool) {
		for child := range s.trie.Children(n) {
			if s.table.Matches(c, s.trie.EdgeLabelToParent(child)) && !yield(child) {
				return
			}
		}
	}
}

// prefix reports terminals along every matching path of the input.
func (s *searcher) prefix(n louds.Node, depth int) bool {
	if depth == len(s.key) {
		return true
	}

	for child := range s.matching(n, s.key[depth]) {
		s.path[depth] = s.trie.EdgeLabelToParent(child)
		if s.trie.IsTerminalNode(child) && !s.emit(child, depth+1, depth+1) {
			return false
		}
		if !s.prefix(child, depth+1) {
			return false
		}
	}

	return true
}

// descend consumes the whole input along every matching path, then hands
// each node reached to visit.
func (s *searcher) descend(n louds.Node, depth int, visit func(louds.Node, int) bool) bool {
	if depth == len(s.key) {
		return visit(n, depth)
	}

	for child := range s.matching(n, s.key[depth]) {
		s.path[depth] = s.trie.EdgeLabelToParent(child)
		if !s.descend(child, depth+1, visit) {
			return false
		}
	}

	return true
}

// enumerate reports every terminal of the subtree at n in pre-order.
func (s *searcher) enumerate(n louds.Node, depth int) bool {
	if s.trie.IsTerminalNode(n) && !s.emit(n, depth, len(s.key)) {
		return false
	}

	for child := range s.trie.Children(n) {
		label := s.trie.EdgeLabelToParent(child)
		s.path[depth] = label
		s.out[depth] = label
		if !s.enumerate(child, depth+1) {
			return false
		}
	}

	return true
}

// PrefixSearch returns an iterator over the stored keys that are prefixes
// of key, where each input byte may match any label the table allows.
//
// Results come in depth-first order over the matching paths, shorter keys
// before the longer keys that extend them. An empty key yields nothing, a
// nil table behaves as the identity table and limit caps the number of
// results (NoLimit for all; 0 yields nothing).
func PrefixSearch(t *louds.Trie, key string, table *Table, limit int) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		if limit == 0 || len(key) == 0 {
			return
		}

		path, releasePath := pool.GetKeySlice(min(len(key), t.MaxDepth()))
		defer releasePath()
		out, releaseOut := pool.GetKeySlice(len(key))
		defer releaseOut()
		copy(out, key)

		s := searcher{trie: t, table: table, key: key, path: path, out: out, remaining: limit, yield: yield}
		s.prefix(louds.Root(), 0)
	}
}

// PredictiveSearch returns an iterator over the stored keys that start with
// key, where each input byte may match any label the table allows.
//
// Every node reached by consuming all of key is enumerated in pre-order,
// children in label order. An empty key enumerates the whole trie. Result.Key
// is key followed by the rest of the stored key, Result.ActualKey the stored
// key itself.
func PredictiveSearch(t *louds.Trie, key string, table *Table, limit int) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		if limit == 0 || len(key) > t.MaxDepth() {
			return
		}

		s, release := newPredictiveSearcher(t, key, table, limit, yield)
		defer release()
		s.descend(louds.Root(), 0, s.enumerate)
	}
}

// GetIDFromKey returns the ID of the first stored key of the same length as
// key that key matches under the table, or louds.NotFound.
//
// It is the first result of PredictiveSearch whose ActualKey is as long as
// key.
func GetIDFromKey(t *louds.Trie, key string, table *Table) int {
	if len(key) > t.MaxDepth() {
		return louds.NotFound
	}

	id := louds.NotFound
	s, release := newPredictiveSearcher(t, key, table, NoLimit, nil)
	defer release()
	s.descend(louds.Root(), 0, func(n louds.Node, _ int) bool {
		if !t.IsTerminalNode(n) {
			return true
		}
		id = t.KeyIDOfTerminalNode(n)

		return false
	})

	return id
}

func newPredictiveSearcher(t *louds.Trie, key string, table *Table, limit int, yield func(Result) bool) (*searcher, func()) {
	path, releasePath := pool.GetKeySlice(t.MaxDepth())
	out, releaseOut := pool.GetKeySlice(t.MaxDepth())
	copy(out, key)

	s := &searcher{trie: t, table: table, key: key, path: path, out: out, remaining: limit, yield: yield}

	return s, func() {
		releaseOut()
		releasePath()
	}
}
