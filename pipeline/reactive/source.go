package reactive

import (
	"sync"

	"github.com/trac-dap/flowcore/pipeline"
)

// Subscription is the handle a Publisher hands back from Subscribe,
// letting the Source request more chunks or cancel the subscription.
type Subscription interface {
	Request(n int)
	Cancel()
}

// Publisher is the external reactive transport a Source subscribes to. It
// delivers chunks, completion, and errors through the Subscriber passed to
// Subscribe.
type Publisher interface {
	Subscribe(sub Subscriber) (Subscription, error)
}

// Subscriber receives chunks pushed by a Publisher. Implementations may be
// called from a goroutine other than the pipeline's event loop.
type Subscriber interface {
	OnNext(buf *pipeline.Buffer) error
	OnComplete()
	OnError(err error)
}

// PumpRequester is the subset of the Pipeline Coordinator a Source needs:
// a way to ask for another pump cycle after data arrives off-loop.
type PumpRequester interface {
	PumpData()
}

// Source subscribes to an external Publisher and forwards delivered
// chunks to the pipeline's first consumer. Callbacks from the publisher's
// goroutine only enqueue; all forwarding happens from Pump, which the
// Coordinator only ever calls from its single event loop.
type Source struct {
	requester  PumpRequester
	downstream pipeline.ByteConsumer

	mu          sync.Mutex
	sub         Subscription
	queue       []*pipeline.Buffer
	eos         bool
	err         error
	requested   int
	delivered   int
	cancelled   bool
	startedDown bool
	done        bool
}

// NewSource subscribes to publisher immediately and requests the initial
// window of chunks.
func NewSource(publisher Publisher, requester PumpRequester) (*Source, error) {
	s := &Source{requester: requester}
	sub, err := publisher.Subscribe(s)
	if err != nil {
		return nil, err
	}
	s.sub = sub
	s.requested = Window
	sub.Request(Window)
	return s, nil
}

// Connect binds the stage's sole consumer.
func (s *Source) Connect(consumer pipeline.Stage) {
	s.downstream, _ = consumer.(pipeline.ByteConsumer)
}

// DataInterface reports the variant this stage produces.
func (s *Source) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }

// IsReady reports whether the source has buffered data or a terminal
// marker ready to forward.
func (s *Source) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) > 0 || s.eos || s.err != nil
}

// Cancel stops production; further deliveries from the publisher are
// dropped silently.
func (s *Source) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.cancelled = true
	if s.sub != nil {
		s.sub.Cancel()
	}
}

// Pump forwards queued chunks to the downstream consumer, then tops the
// outstanding window back up if it has dropped below RefillThreshold.
func (s *Source) Pump() error {
	if !s.startedDown {
		s.startedDown = true
		if err := s.downstream.OnStart(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	eos := s.eos
	err := s.err
	s.mu.Unlock()

	for _, buf := range queue {
		if s.done {
			buf.Release()
			continue
		}
		if perr := s.downstream.OnNext(buf); perr != nil {
			s.done = true
			return perr
		}
		s.mu.Lock()
		s.delivered++
		s.mu.Unlock()
	}

	s.refill()

	if err != nil && !s.done {
		s.done = true
		return s.downstream.OnError(err)
	}
	if eos && !s.done {
		s.done = true
		return s.downstream.OnComplete()
	}
	return nil
}

func (s *Source) refill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled || s.sub == nil {
		return
	}
	outstanding := s.requested - s.delivered
	if outstanding >= RefillThreshold {
		return
	}
	topUp := Window - outstanding
	s.requested += topUp
	s.sub.Request(topUp)
}

// IsDone reports the terminal marker.
func (s *Source) IsDone() bool { return s.done }

// Close releases any buffers still queued.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, buf := range s.queue {
		buf.Release()
	}
	s.queue = nil
	return nil
}

// OnNext enqueues a chunk delivered by the publisher and schedules a pump
// cycle. Safe to call from any goroutine.
func (s *Source) OnNext(buf *pipeline.Buffer) error {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		buf.Release()
		return nil
	}
	s.queue = append(s.queue, buf)
	s.mu.Unlock()
	s.requester.PumpData()
	return nil
}

// OnComplete marks end-of-stream and schedules a final pump cycle.
func (s *Source) OnComplete() {
	s.mu.Lock()
	s.eos = true
	s.mu.Unlock()
	s.requester.PumpData()
}

// OnError records the publisher's error and schedules a pump cycle; it is
// routed through the pipeline's error reporting from Pump rather than
// handled here, since only the event loop may touch downstream stages.
func (s *Source) OnError(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.requester.PumpData()
}
