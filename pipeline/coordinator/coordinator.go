package coordinator

import (
	"context"
	"sync"

	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/telemetry"
)

// Coordinator drives a Pipeline's pump cycle on a single goroutine acting
// as the event loop. Stage callbacks, reschedules, and completion all
// happen inside that loop.
type Coordinator struct {
	pipe   *pipeline.Pipeline
	logger telemetry.Logger

	mu      sync.Mutex
	pending bool
	tickCh  chan struct{}
}

// New returns a Coordinator for pipe. logger defaults to a no-op logger.
func New(pipe *pipeline.Pipeline, logger telemetry.Logger) *Coordinator {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &Coordinator{pipe: pipe, logger: logger, tickCh: make(chan struct{}, 1)}
}

// Run transitions the pipeline to RUNNING and drives pump cycles until it
// reaches a terminal state or ctx is cancelled. It blocks until the
// pipeline's completion future resolves.
func (c *Coordinator) Run(ctx context.Context) error {
	c.pipe.SetState(pipeline.StateRunning)
	c.PumpData()
	for {
		select {
		case <-ctx.Done():
			c.RequestCancel()
		case <-c.tickCh:
			c.runTick()
		case <-c.pipe.Completion.Done():
			return c.pipe.Completion.Err()
		}
	}
}

// PumpData requests another pump cycle. Reschedule is idempotent per tick:
// a single pending flag prevents duplicate enqueues.
func (c *Coordinator) PumpData() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return
	}
	c.pending = true
	select {
	case c.tickCh <- struct{}{}:
	default:
	}
}

// RequestCancel completes the pipeline with a public "Request to cancel"
// error and shuts down every stage.
func (c *Coordinator) RequestCancel() {
	if c.pipe.State().IsTerminal() {
		return
	}
	c.pipe.SetState(pipeline.StateCancelled)
	c.shutdown(errs.NewPublicError("Request to cancel", nil))
}

func (c *Coordinator) runTick() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()

	if c.pipe.State().IsTerminal() {
		return
	}
	if err := c.pumpCycle(); err != nil {
		c.routeError(err)
		return
	}
	if c.pipe.Sink.IsDone() {
		c.reportCompletion()
	}
}

// pumpCycle walks stages from sink toward source.
func (c *Coordinator) pumpCycle() error {
	stages := c.pipe.Stages
	consumerReady := true
	for i := len(stages) - 1; i >= 0; i-- {
		stage := stages[i]
		if stage.IsDone() {
			continue
		}
		if consumerReady {
			if err := stage.Pump(); err != nil {
				return err
			}
		}
		consumerReady = stage.IsReady()
	}
	return nil
}

// routeError classifies a pump-cycle error: known taxonomy kinds go through
// reportRegularError, everything else is wrapped as an InternalError and
// routed through reportUnhandledError.
func (c *Coordinator) routeError(err error) {
	if _, ok := errs.KindOf(err); ok {
		c.reportRegularError(err)
		return
	}
	c.reportUnhandledError(err)
}

func (c *Coordinator) reportRegularError(err error) {
	if c.pipe.State().IsTerminal() {
		return
	}
	c.pipe.SetState(pipeline.StateFailed)
	c.shutdown(err)
}

func (c *Coordinator) reportUnhandledError(err error) {
	c.reportRegularError(errs.Wrap("pipeline", err))
}

// reportCompletion finalizes the completion future on a clean end of
// stream, forcing any stage the coordinator expected to have self-closed
// shut with a structured internal error instead.
func (c *Coordinator) reportCompletion() {
	if c.pipe.State().IsTerminal() {
		return
	}
	c.pipe.SetState(pipeline.StateComplete)
	if !c.pipe.Source.IsDone() {
		c.pipe.Source.Cancel()
	}
	if !c.pipe.Sink.IsDone() {
		c.pipe.Sink.Terminate(errs.NewInternalError("pipeline", "sink still running at completion", nil))
	}
	c.closeStages()
	c.pipe.Completion.Complete(nil)
}

func (c *Coordinator) shutdown(err error) {
	if !c.pipe.Source.IsDone() {
		c.pipe.Source.Cancel()
	}
	if !c.pipe.Sink.IsDone() {
		c.pipe.Sink.Terminate(err)
	}
	c.closeStages()
	c.pipe.Completion.Complete(err)
}

func (c *Coordinator) closeStages() {
	for _, s := range c.pipe.Stages {
		if err := s.Close(); err != nil {
			c.logger.Warn(context.Background(), "stage close error", "error", err)
		}
	}
}
