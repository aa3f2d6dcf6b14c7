package pool

import "sync"

// keySlicePool holds scratch buffers for key reconstruction during searches.
var keySlicePool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetKeySlice retrieves a byte slice of exactly size bytes from the pool.
//
// The content of the returned slice is unspecified. The caller must call the
// returned cleanup function, usually with defer, once the slice is no longer
// referenced.
//
// Example:
//
//	buf, cleanup := pool.GetKeySlice(trie.MaxDepth())
//	defer cleanup()
func GetKeySlice(size int) ([]byte, func()) {
	ptr, _ := keySlicePool.Get().(*[]byte)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]byte, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { keySlicePool.Put(ptr) }
}
