package reactive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trac-dap/flowcore/pipeline"
)

type fakeCanceler struct{ calls int }

func (c *fakeCanceler) RequestCancel() { c.calls++ }

type fakeExternalSubscriber struct {
	sub       ExternalSubscription
	received  [][]byte
	completed bool
	errored   error
}

func (s *fakeExternalSubscriber) OnSubscribe(sub ExternalSubscription) { s.sub = sub }
func (s *fakeExternalSubscriber) OnNext(buf *pipeline.Buffer) error {
	s.received = append(s.received, buf.ReadableBytes())
	return nil
}
func (s *fakeExternalSubscriber) OnComplete()       { s.completed = true }
func (s *fakeExternalSubscriber) OnError(err error) { s.errored = err }

func TestSinkIsReadyTracksRequestedVsDelivered(t *testing.T) {
	t.Parallel()

	sink := NewSink(&fakeCanceler{})
	sub := &fakeExternalSubscriber{}
	sink.Subscribe(sub)

	assert.False(t, sink.IsReady(), "no demand requested yet")

	sub.sub.Request(2)
	assert.True(t, sink.IsReady())

	require.NoError(t, sink.OnNext(pipeline.NewBuffer([]byte("a"))))
	require.NoError(t, sink.OnNext(pipeline.NewBuffer([]byte("b"))))
	assert.False(t, sink.IsReady(), "delivered has caught up to requested")
}

func TestSinkOnNextDeliversToSubscriber(t *testing.T) {
	t.Parallel()

	sink := NewSink(&fakeCanceler{})
	sub := &fakeExternalSubscriber{}
	sink.Subscribe(sub)
	sub.sub.Request(1)

	require.NoError(t, sink.OnNext(pipeline.NewBuffer([]byte("hello"))))
	assert.Equal(t, [][]byte{[]byte("hello")}, sub.received)
}

func TestSinkTerminateDeliversExactlyOneOfCompleteOrError(t *testing.T) {
	t.Parallel()

	t.Run("complete", func(t *testing.T) {
		sink := NewSink(&fakeCanceler{})
		sub := &fakeExternalSubscriber{}
		sink.Subscribe(sub)

		require.NoError(t, sink.OnComplete())
		assert.True(t, sub.completed)
		assert.Nil(t, sub.errored)
		assert.True(t, sink.IsDone())

		// A second terminal call must not re-deliver.
		require.NoError(t, sink.OnError(errors.New("late")))
		assert.Nil(t, sub.errored)
	})

	t.Run("error", func(t *testing.T) {
		sink := NewSink(&fakeCanceler{})
		sub := &fakeExternalSubscriber{}
		sink.Subscribe(sub)

		boom := errors.New("boom")
		require.NoError(t, sink.OnError(boom))
		assert.Equal(t, boom, sub.errored)
		assert.False(t, sub.completed)
		assert.True(t, sink.IsDone())

		require.NoError(t, sink.OnComplete())
		assert.False(t, sub.completed, "a terminated sink must not also deliver OnComplete")
	})
}

func TestSinkSubscriptionCancelRoutesToCanceler(t *testing.T) {
	t.Parallel()

	canceler := &fakeCanceler{}
	sink := NewSink(canceler)
	sub := &fakeExternalSubscriber{}
	sink.Subscribe(sub)

	sub.sub.Cancel()
	assert.Equal(t, 1, canceler.calls)
}

func TestSinkOnNextReleasesBufferWhenNoSubscriberAttached(t *testing.T) {
	t.Parallel()

	sink := NewSink(&fakeCanceler{})
	buf := pipeline.NewBuffer([]byte("orphan"))
	require.NoError(t, sink.OnNext(buf))
}
