package columnar

import (
	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
)

// Encoder streams ARROW_CONTEXT batches out as length-prefixed binary
// frames. It has no dictionary-batch restriction: the frame format
// carries the dictionary flag natively.
type Encoder struct {
	downstream pipeline.ByteConsumer
	done       bool
}

// NewEncoder returns a columnar Encoder writing to downstream.
func NewEncoder(downstream pipeline.ByteConsumer) *Encoder {
	return &Encoder{downstream: downstream}
}

func (e *Encoder) DataInterface() pipeline.DataInterface { return pipeline.ArrowContext }
func (e *Encoder) IsReady() bool                         { return !e.done }

func (e *Encoder) OnStart(graph.SchemaDefinition) error {
	return e.downstream.OnStart()
}

func (e *Encoder) OnNext(batch *pipeline.BatchContext) error {
	buf := writeFrame(nil, batch)
	return e.downstream.OnNext(pipeline.NewBuffer(buf))
}

func (e *Encoder) OnComplete() error {
	e.done = true
	return e.downstream.OnComplete()
}

func (e *Encoder) OnError(err error) error {
	e.done = true
	return e.downstream.OnError(err)
}

func (e *Encoder) Pump() error  { return nil }
func (e *Encoder) IsDone() bool { return e.done }
func (e *Encoder) Close() error { return nil }
