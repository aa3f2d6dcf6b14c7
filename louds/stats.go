package louds

// Stats describes the memory used by an opened Trie.
type Stats struct {
	KeyCount      int
	NodeCount     int
	MaxDepth      int
	ImageBytes    int // length of the image the trie was opened over
	TreeBits      int
	TerminalBits  int
	LabelBytes    int
	TreeCacheSize int // rank and select caches of the tree-shape vector
	TermCacheSize int // rank cache of the terminal vector
	HasChecksum   bool
	BigEndian     bool
}

// CacheBytes returns the memory held by all rank and select caches.
func (s Stats) CacheBytes() int {
	return s.TreeCacheSize + s.TermCacheSize
}

// Stats returns size information about the trie.
func (t *Trie) Stats() Stats {
	return Stats{
		KeyCount:      t.KeyCount(),
		NodeCount:     t.NodeCount(),
		MaxDepth:      t.MaxDepth(),
		ImageBytes:    t.imageSize,
		TreeBits:      t.tree.Len(),
		TerminalBits:  t.terminal.Len(),
		LabelBytes:    len(t.labels),
		TreeCacheSize: t.tree.SizeInBytes(),
		TermCacheSize: t.terminal.SizeInBytes(),
		HasChecksum:   t.header.Flag.HasChecksum(),
		BigEndian:     t.header.Flag.IsBigEndian(),
	}
}
