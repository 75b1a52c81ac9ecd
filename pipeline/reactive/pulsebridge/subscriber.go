package pulsebridge

import (
	"context"

	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/pipeline/reactive"
	"github.com/trac-dap/flowcore/pipeline/reactive/pulsebridge/pulseclient"
)

// SubscriberOptions configures a Pulse-backed reactive.ExternalSubscriber.
type SubscriberOptions struct {
	// Client is the Pulse client backing the stream. Required.
	Client pulseclient.Client
	// StreamName names the Pulse stream chunks are published to. Required.
	StreamName string
	// EntryName labels each published entry. Defaults to "chunk".
	EntryName string
	// Window is the demand requested on subscribe; each delivered chunk
	// then requests one more. Defaults to reactive.Window.
	Window int
}

// Subscriber republishes chunks delivered by a reactive.Sink onto a Pulse
// stream, playing the role of external subscriber.
type Subscriber struct {
	client    pulseclient.Client
	stream    string
	entryName string
	window    int

	sub reactive.ExternalSubscription
	ctx context.Context
}

// NewSubscriber returns a Subscriber over opts.
func NewSubscriber(opts SubscriberOptions) *Subscriber {
	name := opts.EntryName
	if name == "" {
		name = "chunk"
	}
	window := opts.Window
	if window <= 0 {
		window = reactive.Window
	}
	return &Subscriber{client: opts.Client, stream: opts.StreamName, entryName: name, window: window, ctx: context.Background()}
}

// OnSubscribe requests the initial window of demand.
func (s *Subscriber) OnSubscribe(sub reactive.ExternalSubscription) {
	s.sub = sub
	sub.Request(s.window)
}

// OnNext publishes buf to the Pulse stream and requests one more chunk of
// demand to replace it, keeping the outstanding window roughly constant.
func (s *Subscriber) OnNext(buf *pipeline.Buffer) error {
	defer buf.Release()
	str, err := s.client.Stream(s.stream)
	if err != nil {
		return err
	}
	if _, err := str.Add(s.ctx, s.entryName, buf.ReadableBytes()); err != nil {
		return err
	}
	if s.sub != nil {
		s.sub.Request(1)
	}
	return nil
}

// OnComplete is a no-op; the Pulse stream itself has no explicit EOS
// marker beyond the absence of further entries.
func (s *Subscriber) OnComplete() {}

// OnError cancels the subscription so the upstream pipeline observes the
// cancellation.
func (s *Subscriber) OnError(err error) {
	if s.sub != nil {
		s.sub.Cancel()
	}
}
