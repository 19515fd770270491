package pool

import (
	"io"
	"sync"
)

const (
	// FileBufferDefaultSize is the starting capacity of buffers from the file pool.
	FileBufferDefaultSize = 1024 * 16 // 16KiB
	// FileBufferMaxThreshold is the largest buffer the file pool keeps.
	FileBufferMaxThreshold = 1024 * 1024 // 1MiB
)

// Buffer is an append-only byte buffer that implements io.Writer.
type Buffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewBuffer creates a Buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffered bytes. The slice is only valid until the buffer is reset
// or returned to a pool.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Reset empties the buffer and keeps its capacity.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Write appends data to the buffer. It never fails.
func (b *Buffer) Write(data []byte) (int, error) {
	b.B = append(b.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer. It never fails.
func (b *Buffer) WriteString(s string) (int, error) {
	b.B = append(b.B, s...)
	return len(s), nil
}

// WriteTo writes the buffered bytes to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.B)
	return int64(n), err
}

// BufferPool recycles Buffers. Buffers that grew past maxThreshold are dropped on Put
// instead of being retained.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a pool of buffers with the given starting capacity. A
// maxThreshold of zero keeps every buffer.
func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *BufferPool) Get() *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	return b
}

// Put returns b to the pool. b must not be used afterwards.
func (p *BufferPool) Put(b *Buffer) {
	if b == nil {
		return
	}
	if p.maxThreshold > 0 && cap(b.B) > p.maxThreshold {
		return
	}

	b.Reset()
	p.pool.Put(b)
}

var filePool = NewBufferPool(FileBufferDefaultSize, FileBufferMaxThreshold)

// GetFileBuffer returns a buffer from the shared pool used to stage files before
// compression.
func GetFileBuffer() *Buffer {
	return filePool.Get()
}

// PutFileBuffer returns a buffer obtained from GetFileBuffer.
func PutFileBuffer(b *Buffer) {
	filePool.Put(b)
}
