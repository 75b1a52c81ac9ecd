package pulsebridge

import (
	"context"
	"sync"

	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/pipeline/reactive"
	"github.com/trac-dap/flowcore/pipeline/reactive/pulsebridge/pulseclient"
)

// PublisherOptions configures a Pulse-backed reactive.Publisher.
type PublisherOptions struct {
	// Client is the Pulse client backing the stream. Required.
	Client pulseclient.Client
	// StreamName names the Pulse stream to read chunks from. Required.
	StreamName string
	// SinkName identifies the Pulse consumer group. Defaults to
	// "flowcore_reactive_source".
	SinkName string
}

// Publisher reads raw byte chunks off a Pulse stream's consumer group and
// plays the role of external publisher to a reactive.Source.
type Publisher struct {
	client   pulseclient.Client
	stream   string
	sinkName string
}

// NewPublisher returns a Publisher over opts.
func NewPublisher(opts PublisherOptions) *Publisher {
	name := opts.SinkName
	if name == "" {
		name = "flowcore_reactive_source"
	}
	return &Publisher{client: opts.Client, stream: opts.StreamName, sinkName: name}
}

// Subscribe opens a Pulse consumer group on the stream and starts
// forwarding entries to sub until the subscription is cancelled.
func (p *Publisher) Subscribe(sub reactive.Subscriber) (reactive.Subscription, error) {
	str, err := p.client.Stream(p.stream)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	psink, err := str.NewSink(ctx, p.sinkName)
	if err != nil {
		cancel()
		return nil, err
	}

	ps := &publisherSubscription{cancel: cancel, sink: psink}
	ps.cond = sync.NewCond(&ps.mu)
	go ps.run(ctx, sub)
	return ps, nil
}

type publisherSubscription struct {
	cancel context.CancelFunc
	sink   pulseclient.Sink

	mu      sync.Mutex
	credits int
	cond    *sync.Cond
	closed  bool
}

func (ps *publisherSubscription) run(ctx context.Context, sub reactive.Subscriber) {
	ch := ps.sink.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				sub.OnComplete()
				return
			}
			ps.waitForCredit(ctx)
			if ctx.Err() != nil {
				return
			}
			if err := sub.OnNext(pipeline.NewBuffer(evt.Payload)); err != nil {
				sub.OnError(err)
				return
			}
			if err := ps.sink.Ack(ctx, evt); err != nil {
				sub.OnError(err)
				return
			}
		}
	}
}

func (ps *publisherSubscription) waitForCredit(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for ps.credits <= 0 && ctx.Err() == nil && !ps.closed {
		ps.cond.Wait()
	}
	if ps.credits > 0 {
		ps.credits--
	}
}

// Request grants n additional chunks of demand.
func (ps *publisherSubscription) Request(n int) {
	ps.mu.Lock()
	ps.credits += n
	if ps.cond != nil {
		ps.cond.Broadcast()
	}
	ps.mu.Unlock()
}

// Cancel stops the consumer goroutine and closes the underlying sink.
func (ps *publisherSubscription) Cancel() {
	ps.mu.Lock()
	ps.closed = true
	if ps.cond != nil {
		ps.cond.Broadcast()
	}
	ps.mu.Unlock()
	ps.cancel()
	ps.sink.Close(context.Background())
}
