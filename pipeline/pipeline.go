package pipeline

import (
	"sync"
)

// State is the pipeline's lifecycle state.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateComplete  State = "COMPLETE"
	StateFailed    State = "FAILED"
	StateCancelled State = "CANCELLED"
)

// IsTerminal reports whether state is COMPLETE, FAILED, or CANCELLED.
func (s State) IsTerminal() bool {
	return s == StateComplete || s == StateFailed || s == StateCancelled
}

// Completion is a single-assignment future completed exactly once by the
// coordinator.
type Completion struct {
	mu    sync.Mutex
	ready chan struct{}
	err   error
	once  sync.Once
}

// NewCompletion returns an unresolved Completion.
func NewCompletion() *Completion {
	return &Completion{ready: make(chan struct{})}
}

// Complete resolves the future with err (nil for success). Only the first
// call has any effect.
func (c *Completion) Complete(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.ready)
	})
}

// Done returns a channel closed once Complete has run.
func (c *Completion) Done() <-chan struct{} {
	return c.ready
}

// Err returns the completion error once Done is closed. It does not block;
// before Done is closed it returns nil, so callers select on Done first.
func (c *Completion) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Pipeline is an ordered sequence of stages with a single source and a
// single sink. It carries no scheduling logic of its own;
// pipeline/coordinator drives its pump cycles.
type Pipeline struct {
	Stages     []Stage
	Source     SourceStage
	Sink       SinkStage
	Completion *Completion

	mu    sync.Mutex
	state State
}

// New assembles a Pipeline from source, an ordered list of transforms, and
// sink. Stages holds all of them in order: [source, transforms..., sink].
func New(source SourceStage, transforms []Stage, sink SinkStage) *Pipeline {
	stages := make([]Stage, 0, len(transforms)+2)
	stages = append(stages, source)
	stages = append(stages, transforms...)
	stages = append(stages, sink)
	return &Pipeline{
		Stages:     stages,
		Source:     source,
		Sink:       sink,
		Completion: NewCompletion(),
		state:      StateIdle,
	}
}

// State returns the pipeline's current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetState transitions the pipeline to state. Once terminal, further
// transitions are ignored.
func (p *Pipeline) SetState(state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.IsTerminal() {
		return
	}
	p.state = state
}
