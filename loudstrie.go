// Package loudstrie provides a succinct, read-only trie for large static
// string dictionaries.
//
// Keys are compiled once into a compact binary image in the LOUDS encoding.
// The image is opened zero-copy and answers exact, prefix and predictive
// queries, maps every key to a dense integer ID and restores keys from IDs.
//
// # Core Features
//
//   - About two bits plus one label byte per trie node
//   - Zero-copy Open over any []byte, e.g. a memory-mapped file
//   - Dense key IDs in [0, KeyCount) for use as indexes into side tables
//   - Tunable rank/select caches trading memory for speed
//   - Key expansion search (one input byte matching several labels)
//   - Optional xxHash64 checksum and compressed packing (Zstd, S2, LZ4)
//
// # Basic Usage
//
// Building and querying a trie:
//
//	import "github.com/arloliu/loudstrie"
//
//	image, _ := loudstrie.Build([]string{"apple", "apply", "banana"})
//
//	trie, _ := loudstrie.Open(image)
//	id := trie.ExactSearch("apply")   // 1
//	key := trie.RestoreKey(id)        // "apply"
//
//	for r := range keyexp.PredictiveSearch(trie, "app", nil, keyexp.NoLimit) {
//	    fmt.Printf("%s -> %d\n", r.ActualKey, r.ID)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the louds,
// keyexp and pack packages. For fine-grained control, use them directly.
package loudstrie

import (
	"iter"
	"slices"

	"github.com/arloliu/loudstrie/format"
	"github.com/arloliu/loudstrie/internal/hash"
	"github.com/arloliu/loudstrie/louds"
	"github.com/arloliu/loudstrie/pack"
)

// Build compiles keys into a trie image.
//
// Available options:
//   - louds.WithMaxDepth(n)
//   - louds.WithLittleEndian() / louds.WithBigEndian()
//   - louds.WithChecksum()
//   - louds.WithLogger(logger)
//
// Example:
//
//	image, err := loudstrie.Build(words, louds.WithChecksum())
func Build(keys []string, opts ...louds.BuilderOption) ([]byte, error) {
	return BuildSeq(slices.Values(keys), opts...)
}

// BuildSeq compiles the keys produced by seq into a trie image.
//
// Example:
//
//	image, err := loudstrie.BuildSeq(maps.Keys(dictionary))
func BuildSeq(seq iter.Seq[string], opts ...louds.BuilderOption) ([]byte, error) {
	b, err := louds.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	for key := range seq {
		if err := b.Add(key); err != nil {
			return nil, err
		}
	}

	if err := b.Build(); err != nil {
		return nil, err
	}

	return b.Image(), nil
}

// Open opens a trie image.
//
// The image is used in place and must not be modified while the trie is in
// use. See louds.Open for the available cache options.
func Open(image []byte, opts ...louds.OpenOption) (*louds.Trie, error) {
	return louds.Open(image, opts...)
}

// OpenPacked opens data that is either a packed image or a plain image.
//
// Packed images are decompressed and verified first; the trie then owns
// the decompressed copy.
func OpenPacked(data []byte, opts ...louds.OpenOption) (*louds.Trie, error) {
	if !pack.IsPacked(data) {
		return louds.Open(data, opts...)
	}

	image, err := pack.Decode(data)
	if err != nil {
		return nil, err
	}

	return louds.Open(image, opts...)
}

// Pack compresses an image with the given compression.
//
// Example:
//
//	packed, err := loudstrie.Pack(image, format.CompressionZstd)
func Pack(image []byte, compression format.CompressionType) ([]byte, error) {
	return pack.Encode(image, pack.WithCompression(compression))
}

// Fingerprint returns the xxHash64 of an image or packed image.
func Fingerprint(data []byte) uint64 {
	return hash.Checksum(data)
}

// KeyHash returns the 64-bit xxHash of a key.
//
// Use it to spread a large key set over several tries:
//
//	shard := loudstrie.KeyHash(key) % uint64(len(tries))
//	id := tries[shard].ExactSearch(key)
func KeyHash(key string) uint64 {
	return hash.ID(key)
}
