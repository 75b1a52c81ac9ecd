package pipeline

import "sync/atomic"

// Buffer is an owned, reference-counted byte range. Ownership passes from
// producer to consumer on OnNext; the consumer must Release it, either by
// forwarding it (transferring ownership again) or by calling Release itself.
type Buffer struct {
	data []byte
	refs *int32
}

// NewBuffer wraps data in a Buffer with a single reference. data is not
// copied; callers must not mutate it after this call.
func NewBuffer(data []byte) *Buffer {
	refs := int32(1)
	return &Buffer{data: data, refs: &refs}
}

// EmptyBuffer returns a zero-length buffer, distinct from end-of-stream.
func EmptyBuffer() *Buffer {
	return NewBuffer(nil)
}

// ReadableBytes returns the buffer's contents. The returned slice must not
// be retained past the buffer's release.
func (b *Buffer) ReadableBytes() []byte {
	return b.data
}

// Len returns the number of readable bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Retain increments the reference count and returns the same Buffer, for
// callers that need to hand it to more than one consumer.
func (b *Buffer) Retain() *Buffer {
	atomic.AddInt32(b.refs, 1)
	return b
}

// Release decrements the reference count. The underlying data is eligible
// for reuse once the count reaches zero; Go's GC reclaims it naturally, so
// Release here exists to let pooling layers (not currently present) hook in
// without changing every call site later.
func (b *Buffer) Release() {
	atomic.AddInt32(b.refs, -1)
}

// Slice returns a new Buffer sharing b's backing array over [off, off+n),
// retaining a reference to the same refcount so the parent is not released
// early.
func (b *Buffer) Slice(off, n int) *Buffer {
	atomic.AddInt32(b.refs, 1)
	return &Buffer{data: b.data[off : off+n], refs: b.refs}
}
