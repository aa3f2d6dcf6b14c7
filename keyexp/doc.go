// Package keyexp implements prefix and predictive search over a louds.Trie
// where each input byte may match a set of edge labels.
//
// A Table lists the extra labels an input byte matches, e.g. to let "a"
// also find keys stored with "A" or "@". Searches follow every branch whose
// label matches and report both the input-shaped key and the stored key:
//
//	table := keyexp.NewTable(map[byte]string{'a': "A"})
//	for r := range keyexp.PredictiveSearch(trie, "ab", &table, 10) {
//	    fmt.Printf("%s (stored %s) id=%d\n", r.Key, r.ActualKey, r.ID)
//	}
//
// Tables can be loaded from TOML with LoadTableFile:
//
//	[expansion]
//	"a" = "A@"
//	"o" = "0O"
package keyexp
