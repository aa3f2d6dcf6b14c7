package pool

import (
	"sync"
)

const (
	ImageBufferDefaultSize  = 1024 * 64        // 64KiB
	ImageBufferMaxThreshold = 1024 * 1024 * 4  // 4MiB
	PackBufferDefaultSize   = 1024 * 256       // 256KiB
	PackBufferMaxThreshold  = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is a growable byte slice that can be recycled through a ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new empty ByteBuffer with the given capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Write appends data to the buffer. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteZeros appends n zero bytes, used for alignment padding.
func (bb *ByteBuffer) WriteZeros(n int) {
	bb.Grow(n)
	start := len(bb.B)
	bb.B = bb.B[:start+n]
	clear(bb.B[start:])
}

// Grow makes sure the buffer can take requiredBytes more bytes without reallocating.
//
// Small buffers grow by ImageBufferDefaultSize, larger ones by a quarter of
// their capacity, and never by less than requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := ImageBufferDefaultSize
	if cap(bb.B) > 4*ImageBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool recycles ByteBuffers through a sync.Pool.
//
// Buffers whose capacity grew beyond maxThreshold are dropped on Put so a
// single huge image does not pin memory for the life of the process.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with the given default capacity.
// A maxThreshold of 0 keeps every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	imageDefaultPool = NewByteBufferPool(ImageBufferDefaultSize, ImageBufferMaxThreshold)
	packDefaultPool  = NewByteBufferPool(PackBufferDefaultSize, PackBufferMaxThreshold)
)

// GetImageBuffer retrieves a buffer used to serialize trie images.
func GetImageBuffer() *ByteBuffer {
	return imageDefaultPool.Get()
}

// PutImageBuffer returns a buffer obtained from GetImageBuffer.
func PutImageBuffer(bb *ByteBuffer) {
	imageDefaultPool.Put(bb)
}

// GetPackBuffer retrieves a buffer used to assemble packed images.
func GetPackBuffer() *ByteBuffer {
	return packDefaultPool.Get()
}

// PutPackBuffer returns a buffer obtained from GetPackBuffer.
func PutPackBuffer(bb *ByteBuffer) {
	packDefaultPool.Put(bb)
}
