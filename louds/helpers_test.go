package louds

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

var sampleKeys = []string{
	"a", "aa", "ab", "abc", "abcd", "abd",
	"b", "ba", "banana", "band", "bandana",
	"c", "car", "card", "care", "cart",
	"x", "xylophone", "zebra", "\x00", "\xff\xfe",
}

// randomKeys returns n keys over a small alphabet so that prefixes are shared.
func randomKeys(seed uint64, n int) []string {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	keys := make([]string, n)
	for i := range keys {
		b := make([]byte, rng.IntN(9))
		for j := range b {
			b[j] = byte('a' + rng.IntN(4))
		}
		keys[i] = string(b)
	}

	return keys
}

func buildImage(t testing.TB, keys []string, opts ...BuilderOption) []byte {
	t.Helper()

	b, err := NewBuilder(opts...)
	require.NoError(t, err)
	for _, k := range keys {
		require.NoError(t, b.Add(k))
	}
	require.NoError(t, b.Build())

	return b.Image()
}

func openKeys(t testing.TB, keys []string, opts ...OpenOption) *Trie {
	t.Helper()

	trie, err := Open(buildImage(t, keys), opts...)
	require.NoError(t, err)

	return trie
}

func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}
