// Package bitvec implements an immutable bit vector with rank and select.
//
// A BitVector is a read-only view over 64-bit words, usually a slice of a
// trie image. Rank and select are accelerated by optional caches whose
// spacing is set per query kind:
//
//	bv, err := bitvec.New(data, numBits, endian.GetLittleEndianEngine(),
//		bitvec.WithRank1Granularity(8),   // cumulative counts every 8 words
//		bitvec.WithSelect0Granularity(256), // position of every 256th zero
//	)
//
// Every combination of granularities, including none at all, returns the
// same answers; only speed and SizeInBytes differ.
package bitvec
