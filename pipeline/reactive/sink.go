package reactive

import (
	"sync"

	"github.com/trac-dap/flowcore/pipeline"
)

// ExternalSubscription is handed to an ExternalSubscriber on OnSubscribe,
// letting it request more chunks or cancel the pipeline run.
type ExternalSubscription interface {
	Request(n int)
	Cancel()
}

// ExternalSubscriber receives chunks delivered by a Sink. OnComplete/
// OnError are each called at most once, and never both.
type ExternalSubscriber interface {
	OnSubscribe(sub ExternalSubscription)
	OnNext(buf *pipeline.Buffer) error
	OnComplete()
	OnError(err error)
}

// Canceler is the subset of the Pipeline Coordinator a Sink needs to
// honor an external cancellation request.
type Canceler interface {
	RequestCancel()
}

// Sink implements the subscription contract toward an external
// subscriber: it tracks requested vs delivered and is ready to accept
// another chunk from its upstream iff requested > delivered.
type Sink struct {
	canceler Canceler

	mu         sync.Mutex
	subscriber ExternalSubscriber
	requested  int
	delivered  int
	terminated bool
	completed  bool
}

// NewSink returns a Sink that routes cancellation requests to canceler.
func NewSink(canceler Canceler) *Sink {
	return &Sink{canceler: canceler}
}

// Subscribe attaches the external subscriber and hands it a subscription
// it can use to request chunks or cancel.
func (s *Sink) Subscribe(sub ExternalSubscriber) {
	s.mu.Lock()
	s.subscriber = sub
	s.mu.Unlock()
	sub.OnSubscribe(&sinkSubscription{sink: s})
}

// Connect binds the stage's sole producer.
func (s *Sink) Connect(producer pipeline.Stage) {}

// DataInterface reports the variant this stage consumes.
func (s *Sink) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }

// IsReady reports whether outstanding external demand exceeds delivered
// chunks.
func (s *Sink) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested > s.delivered
}

// Pump is a no-op: the Sink is driven by OnNext/OnComplete/OnError calls
// from its upstream producer, not by its own pump cycle.
func (s *Sink) Pump() error { return nil }

// IsDone reports whether a terminal notification has reached the
// external subscriber.
func (s *Sink) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated || s.completed
}

// Close is a no-op; the Sink owns no unreleased resources.
func (s *Sink) Close() error { return nil }

// Terminate ends the sink with err (nil for a clean end-of-stream),
// guaranteeing the external subscriber observes exactly one of
// OnComplete/OnError.
func (s *Sink) Terminate(err error) {
	s.mu.Lock()
	if s.terminated || s.completed {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.terminated = true
	} else {
		s.completed = true
	}
	sub := s.subscriber
	s.mu.Unlock()
	if sub == nil {
		return
	}
	if err != nil {
		sub.OnError(err)
	} else {
		sub.OnComplete()
	}
}

// OnStart is a no-op; the external subscriber only learns of activity
// once chunks start arriving.
func (s *Sink) OnStart() error { return nil }

// OnNext delivers buf to the external subscriber and counts it against
// the outstanding window.
func (s *Sink) OnNext(buf *pipeline.Buffer) error {
	s.mu.Lock()
	s.delivered++
	sub := s.subscriber
	s.mu.Unlock()
	if sub == nil {
		buf.Release()
		return nil
	}
	return sub.OnNext(buf)
}

// OnComplete terminates the sink cleanly.
func (s *Sink) OnComplete() error {
	s.Terminate(nil)
	return nil
}

// OnError terminates the sink with err.
func (s *Sink) OnError(err error) error {
	s.Terminate(err)
	return nil
}

type sinkSubscription struct {
	sink *Sink
}

func (ss *sinkSubscription) Request(n int) {
	ss.sink.mu.Lock()
	ss.sink.requested += n
	ss.sink.mu.Unlock()
}

func (ss *sinkSubscription) Cancel() {
	ss.sink.mu.Lock()
	c := ss.sink.canceler
	ss.sink.mu.Unlock()
	if c != nil {
		c.RequestCancel()
	}
}
