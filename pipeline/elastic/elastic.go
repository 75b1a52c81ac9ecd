package elastic

import (
	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/pipeline"
)

// Limit is the Elastic Buffer's hard FIFO capacity.
const Limit = 1024

// SafetyThreshold is the queue length below which IsReady reports true.
const SafetyThreshold = Limit - 512

// byteStage is the shape a downstream consumer must satisfy: both a Stage
// (for readiness) and a ByteConsumer (for delivery).
type byteStage interface {
	pipeline.Stage
	pipeline.ByteConsumer
}

// Buffer is the Elastic Buffer transform: a bounded FIFO of Buffers that
// absorbs transient backpressure imbalances between a producer and a
// slower consumer.
type Buffer struct {
	downstream byteStage

	queue []*pipeline.Buffer
	eos   bool
	done  bool
}

// NewBuffer returns an Elastic Buffer forwarding to downstream.
func NewBuffer(downstream byteStage) *Buffer {
	return &Buffer{downstream: downstream}
}

// DataInterface reports the variant this stage consumes.
func (b *Buffer) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }

// IsReady is true when the queue length is below the safety threshold and
// the buffer is not done.
func (b *Buffer) IsReady() bool {
	return !b.done && len(b.queue) < SafetyThreshold
}

// OnStart forwards start to the downstream consumer.
func (b *Buffer) OnStart() error { return b.downstream.OnStart() }

// OnNext enqueues buf for later draining by Pump. Once the queue holds
// Limit buffers, buf is released and an InternalError is returned.
func (b *Buffer) OnNext(buf *pipeline.Buffer) error {
	if len(b.queue) >= Limit {
		buf.Release()
		return errs.NewInternalError("elastic buffer", "buffer overflowed", nil)
	}
	b.queue = append(b.queue, buf)
	return nil
}

// OnComplete marks end-of-stream; it is a separate flag from any buffer in
// the queue, including an empty one, so the two are never confused.
func (b *Buffer) OnComplete() error {
	b.eos = true
	return nil
}

// OnError forwards the error to the downstream consumer.
func (b *Buffer) OnError(err error) error {
	return b.downstream.OnError(err)
}

// Pump drains queued buffers while the downstream consumer is ready, then
// forwards end-of-stream once the queue is empty.
func (b *Buffer) Pump() error {
	for len(b.queue) > 0 && b.downstream.IsReady() {
		buf := b.queue[0]
		b.queue = b.queue[1:]
		if err := b.downstream.OnNext(buf); err != nil {
			return err
		}
	}
	if b.eos && len(b.queue) == 0 && !b.done {
		b.done = true
		return b.downstream.OnComplete()
	}
	return nil
}

// IsDone reports whether end-of-stream has been forwarded.
func (b *Buffer) IsDone() bool { return b.done }

// Close releases any buffers still queued.
func (b *Buffer) Close() error {
	for _, buf := range b.queue {
		buf.Release()
	}
	b.queue = nil
	return nil
}
