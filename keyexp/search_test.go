package keyexp

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/arloliu/loudstrie/louds"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// hit is the retained form of a Result used for comparisons.
type hit struct {
	Key       string
	ActualKey string
	Matched   int
	ID        int
}

func collect(seq func(func(Result) bool)) []hit {
	var hits []hit
	for r := range seq {
		hits = append(hits, hit{Key: string(r.Key), ActualKey: string(r.ActualKey), Matched: r.MatchedLen, ID: r.ID})
	}

	return hits
}

func openTrie(t testing.TB, keys []string, opts ...louds.OpenOption) *louds.Trie {
	t.Helper()

	b, err := louds.NewBuilder()
	require.NoError(t, err)
	for _, k := range keys {
		require.NoError(t, b.Add(k))
	}
	require.NoError(t, b.Build())

	trie, err := louds.Open(b.Image(), opts...)
	require.NoError(t, err)

	return trie
}

func requireHits(t *testing.T, want, got []hit) {
	t.Helper()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

// ==============================================================================
// PrefixSearch
// ==============================================================================

func TestPrefixSearch_Identity(t *testing.T) {
	trie := openTrie(t, []string{"a", "ab", "abc", "b", "abd"})
	id := func(k string) int { return trie.ExactSearch(k) }

	requireHits(t, []hit{
		{"a", "a", 1, id("a")},
		{"ab", "ab", 2, id("ab")},
		{"abc", "abc", 3, id("abc")},
	}, collect(PrefixSearch(trie, "abcd", nil, NoLimit)))

	requireHits(t, []hit{{"a", "a", 1, id("a")}}, collect(PrefixSearch(trie, "axyz", nil, NoLimit)))
	require.Empty(t, collect(PrefixSearch(trie, "zzz", nil, NoLimit)))
}

func TestPrefixSearch_Expansion(t *testing.T) {
	trie := openTrie(t, []string{"ab", "Ab", "@b", "abc", "Abx"})
	table := NewTable(map[byte]string{'a': "A@"})
	id := func(k string) int { return trie.ExactSearch(k) }

	// every matching branch is followed, children in label order
	requireHits(t, []hit{
		{"ab", "@b", 2, id("@b")},
		{"ab", "Ab", 2, id("Ab")},
		{"ab", "ab", 2, id("ab")},
		{"abc", "abc", 3, id("abc")},
	}, collect(PrefixSearch(trie, "abc", &table, NoLimit)))

	requireHits(t, []hit{
		{"ab", "@b", 2, id("@b")},
		{"ab", "Ab", 2, id("Ab")},
	}, collect(PrefixSearch(trie, "abc", &table, 2)))
}

func TestPrefixSearch_EdgeCases(t *testing.T) {
	trie := openTrie(t, []string{"", "a", "ab"})

	require.Empty(t, collect(PrefixSearch(trie, "", nil, NoLimit)), "empty key yields nothing")
	require.Empty(t, collect(PrefixSearch(trie, "ab", nil, 0)), "limit 0 yields nothing")
	require.Len(t, collect(PrefixSearch(trie, "ab", nil, 1)), 1)
	require.Len(t, collect(PrefixSearch(trie, "ab", nil, 5)), 2)

	empty := openTrie(t, nil)
	require.Empty(t, collect(PrefixSearch(empty, "abc", nil, NoLimit)))
}

// ==============================================================================
// PredictiveSearch
// ==============================================================================

func TestPredictiveSearch_Completeness(t *testing.T) {
	trie := openTrie(t, []string{"a", "aa", "ab"})

	all := collect(PredictiveSearch(trie, "a", nil, NoLimit))
	require.Len(t, all, 3)
	require.ElementsMatch(t, []string{"a", "aa", "ab"}, []string{all[0].ActualKey, all[1].ActualKey, all[2].ActualKey})

	one := collect(PredictiveSearch(trie, "a", nil, 1))
	require.Len(t, one, 1)
	require.Contains(t, all, one[0])
}

func TestPredictiveSearch_Order(t *testing.T) {
	trie := openTrie(t, []string{"b", "ab", "abc", "abd", "ac", "a", "abca"})
	id := func(k string) int { return trie.ExactSearch(k) }

	// pre-order over the subtree, children by label
	requireHits(t, []hit{
		{"a", "a", 1, id("a")},
		{"ab", "ab", 1, id("ab")},
		{"abc", "abc", 1, id("abc")},
		{"abca", "abca", 1, id("abca")},
		{"abd", "abd", 1, id("abd")},
		{"ac", "ac", 1, id("ac")},
	}, collect(PredictiveSearch(trie, "a", nil, NoLimit)))
}

func TestPredictiveSearch_Expansion(t *testing.T) {
	trie := openTrie(t, []string{"ab", "Abc", "Ax", "xyz"})
	table := NewTable(map[byte]string{'a': "A"})
	id := func(k string) int { return trie.ExactSearch(k) }

	requireHits(t, []hit{
		{"abc", "Abc", 2, id("Abc")},
		{"ab", "ab", 2, id("ab")},
	}, collect(PredictiveSearch(trie, "ab", &table, NoLimit)))

	requireHits(t, []hit{
		{"abc", "Abc", 1, id("Abc")},
		{"ax", "Ax", 1, id("Ax")},
		{"ab", "ab", 1, id("ab")},
	}, collect(PredictiveSearch(trie, "a", &table, NoLimit)))

	// without the table only the literal branch matches
	requireHits(t, []hit{{"ab", "ab", 2, id("ab")}}, collect(PredictiveSearch(trie, "ab", nil, NoLimit)))
}

func TestPredictiveSearch_EdgeCases(t *testing.T) {
	keys := []string{"", "a", "b", "ba"}
	trie := openTrie(t, keys)

	all := collect(PredictiveSearch(trie, "", nil, NoLimit))
	require.Len(t, all, len(keys), "empty key enumerates the whole trie")
	require.Empty(t, all[0].ActualKey)

	require.Empty(t, collect(PredictiveSearch(trie, "", nil, 0)))
	require.Len(t, collect(PredictiveSearch(trie, "", nil, 2)), 2)
	require.Empty(t, collect(PredictiveSearch(trie, "c", nil, NoLimit)))
	require.Empty(t, collect(PredictiveSearch(trie, "baaaaa", nil, NoLimit)), "longer than any key")
}

func TestSearch_ConsumerStops(t *testing.T) {
	trie := openTrie(t, []string{"a", "ab", "abc", "abcd"})

	count := 0
	for range PredictiveSearch(trie, "a", nil, NoLimit) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)

	count = 0
	for range PrefixSearch(trie, "abcd", nil, NoLimit) {
		count++
		break
	}
	require.Equal(t, 1, count)
}

func TestResult_Clone(t *testing.T) {
	trie := openTrie(t, []string{"ab", "ac", "ad"})

	var views, clones []Result
	for r := range PredictiveSearch(trie, "a", nil, NoLimit) {
		views = append(views, r)
		clones = append(clones, r.Clone())
	}
	require.Len(t, clones, 3)

	got := make([]string, 0, len(clones))
	for _, r := range clones {
		got = append(got, string(r.ActualKey))
	}
	require.Equal(t, []string{"ab", "ac", "ad"}, got)

	// views share the search buffers, so they all show the last key
	require.Equal(t, "ad", string(views[0].ActualKey))
}

// ==============================================================================
// GetIDFromKey
// ==============================================================================

func TestGetIDFromKey(t *testing.T) {
	trie := openTrie(t, []string{"Ab", "abc", "xy"})
	table := NewTable(map[byte]string{'a': "A"})

	require.Equal(t, trie.ExactSearch("Ab"), GetIDFromKey(trie, "ab", &table))
	require.Equal(t, louds.NotFound, GetIDFromKey(trie, "ab", nil))
	require.Equal(t, trie.ExactSearch("abc"), GetIDFromKey(trie, "abc", &table))
	require.Equal(t, trie.ExactSearch("xy"), GetIDFromKey(trie, "xy", nil))
	require.Equal(t, louds.NotFound, GetIDFromKey(trie, "x", nil))
	require.Equal(t, louds.NotFound, GetIDFromKey(trie, "xyzzy", nil))

	withEmpty := openTrie(t, []string{"", "a"})
	require.Equal(t, 0, GetIDFromKey(withEmpty, "", nil))
}

// ==============================================================================
// Cache granularities and concurrency
// ==============================================================================

func randomKeys(seed uint64, n int) []string {
	rng := rand.New(rand.NewPCG(seed, seed))
	keys := make([]string, n)
	for i := range keys {
		b := make([]byte, 1+rng.IntN(6))
		for j := range b {
			b[j] = "abAB@"[rng.IntN(5)]
		}
		keys[i] = string(b)
	}

	return keys
}

func TestSearch_GranularityIndependence(t *testing.T) {
	keys := randomKeys(1, 400)
	queries := randomKeys(2, 40)
	table := NewTable(map[byte]string{'a': "A@", 'b': "B"})

	run := func(trie *louds.Trie) [][]hit {
		var out [][]hit
		for _, q := range queries {
			out = append(out,
				collect(PrefixSearch(trie, q, &table, NoLimit)),
				collect(PredictiveSearch(trie, q, &table, NoLimit)),
				collect(PredictiveSearch(trie, q, &table, 3)),
				[]hit{{ID: GetIDFromKey(trie, q, &table)}},
			)
		}

		return out
	}

	want := run(openTrie(t, keys, louds.WithCacheSizes(0, 0, 0, 0, 0)))
	for _, sizes := range [][5]int{
		{1, 1, 1, 1, 1},
		{0, 8, 256, 256, 8},
		{4, 0, 0, 7, 0},
		{0, 0, 3, 0, 2},
	} {
		trie := openTrie(t, keys, louds.WithCacheSizes(sizes[0], sizes[1], sizes[2], sizes[3], sizes[4]))
		if diff := cmp.Diff(want, run(trie)); diff != "" {
			t.Fatalf("caches %v changed results (-want +got):\n%s", sizes, diff)
		}
	}
}

func TestSearch_ConcurrentSearches(t *testing.T) {
	keys := randomKeys(3, 2000)
	trie := openTrie(t, keys)
	table := NewTable(map[byte]string{'a': "A"})

	queries := slices.Compact(slices.Sorted(slices.Values(randomKeys(4, 50))))
	want := make([][]hit, len(queries))
	for i, q := range queries {
		want[i] = collect(PredictiveSearch(trie, q, &table, NoLimit))
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, q := range queries {
				if diff := cmp.Diff(want[i], collect(PredictiveSearch(trie, q, &table, NoLimit))); diff != "" {
					errCh <- fmt.Errorf("query %q: %s", q, diff)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Error(err)
	}
}
