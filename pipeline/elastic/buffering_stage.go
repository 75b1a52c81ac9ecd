package elastic

import "github.com/trac-dap/flowcore/pipeline"

// Stage is the Buffering Stage: it accumulates an entire byte stream in
// memory and hands the whole buffer list to a consumer expecting the
// BUFFER_LIST interface, used when a downstream decoder requires random
// access.
type Stage struct {
	downstream pipeline.BufferListConsumer

	buffers []*pipeline.Buffer
	eos     bool
	done    bool
}

// NewStage returns a Buffering Stage forwarding to downstream.
func NewStage(downstream pipeline.BufferListConsumer) *Stage {
	return &Stage{downstream: downstream}
}

// DataInterface reports the variant this stage consumes.
func (s *Stage) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }

// IsReady is always true until the stage is done: accumulation never
// applies backpressure.
func (s *Stage) IsReady() bool { return !s.done }

// OnStart is a no-op; the Buffering Stage has nothing to forward until the
// entire stream has arrived.
func (s *Stage) OnStart() error { return nil }

// OnNext appends buf to the accumulated list.
func (s *Stage) OnNext(buf *pipeline.Buffer) error {
	s.buffers = append(s.buffers, buf)
	return nil
}

// OnComplete marks end-of-stream; Pump hands the list downstream on the
// next cycle.
func (s *Stage) OnComplete() error {
	s.eos = true
	return nil
}

// OnError forwards the error to the downstream consumer.
func (s *Stage) OnError(err error) error {
	return s.downstream.OnError(err)
}

// Pump hands the accumulated buffer list to the downstream consumer once
// end-of-stream has arrived.
func (s *Stage) Pump() error {
	if s.eos && !s.done {
		s.done = true
		return s.downstream.OnBufferList(s.buffers)
	}
	return nil
}

// IsDone reports whether the buffer list has been handed off.
func (s *Stage) IsDone() bool { return s.done }

// Close releases any buffers accumulated but never handed off.
func (s *Stage) Close() error {
	if !s.done {
		for _, buf := range s.buffers {
			buf.Release()
		}
	}
	s.buffers = nil
	return nil
}
