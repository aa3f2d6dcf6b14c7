package keyexp

import "slices"

// NoLimit makes a search yield every result.
const NoLimit = -1

// Result is one key found by a search.
//
// Key and ActualKey point into buffers owned by the search and are only
// valid until the iteration advances; use Clone to keep a result.
type Result struct {
	// Key is the matched input with any stored continuation appended.
	// Prefix search: the first MatchedLen bytes of the input.
	// Predictive search: the input followed by the stored key's remaining bytes.
	Key []byte
	// ActualKey is the key as stored in the trie, which may differ from the
	// input where the expansion table substituted a byte.
	ActualKey []byte
	// MatchedLen is the number of input bytes consumed.
	MatchedLen int
	// ID is the key ID of ActualKey.
	ID int
}

// Clone returns a copy of r that owns its byte slices.
func (r Result) Clone() Result {
	r.Key = slices.Clone(r.Key)
	r.ActualKey = slices.Clone(r.ActualKey)

	return r
}
