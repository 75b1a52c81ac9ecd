package pipeline

import "github.com/trac-dap/flowcore/graph"

// DataInterface tags the shape of data a stage consumes.
type DataInterface string

const (
	// ByteStream is a sequence of opaque reference-counted Buffers.
	ByteStream DataInterface = "BYTE_STREAM"
	// Batch is a sequence of BatchContext values carrying raw column data
	// not yet bound to a schema-aware consumer.
	Batch DataInterface = "BATCH"
	// ArrowContext is a sequence of schema-aware BatchContext values.
	ArrowContext DataInterface = "ARROW_CONTEXT"
	// BufferList is a whole-stream, random-access list of Buffers handed
	// over at once.
	BufferList DataInterface = "BUFFER_LIST"
)

// Stage is a pipeline element driven by the Pipeline Coordinator's pump
// cycle. Every Pump/callback invocation happens on the
// pipeline's single event loop; no other goroutine may touch a stage.
type Stage interface {
	// DataInterface reports the variant this stage consumes, if any.
	DataInterface() DataInterface
	// IsReady reports whether the stage can accept another unit from its
	// upstream right now.
	IsReady() bool
	// Pump performs bounded work, possibly emitting to its consumer.
	Pump() error
	// IsDone reports the stage's terminal marker.
	IsDone() bool
	// Close releases owned resources. Idempotent.
	Close() error
}

// SourceStage is a Stage with no upstream; it originates data.
type SourceStage interface {
	Stage
	// Connect binds the stage's sole consumer.
	Connect(consumer Stage)
	// Cancel stops production; a done source drops further data silently.
	Cancel()
}

// SinkStage is a Stage with no downstream; it terminates the pipeline.
type SinkStage interface {
	Stage
	// Connect binds the stage's sole producer.
	Connect(producer Stage)
	// Terminate ends the sink with a structured error (nil for a clean
	// end-of-stream).
	Terminate(err error)
}

// ByteConsumer receives a ByteStream. A producer whose DataInterface is
// ByteStream calls these methods on its connected consumer.
type ByteConsumer interface {
	OnStart() error
	OnNext(buf *Buffer) error
	OnComplete() error
	OnError(err error) error
}

// BatchConsumer receives Batch or ArrowContext values.
type BatchConsumer interface {
	OnStart(schema graph.SchemaDefinition) error
	OnNext(batch *BatchContext) error
	OnComplete() error
	OnError(err error) error
}

// BufferListConsumer receives an entire byte stream as a random-access list
// once the upstream BufferingStage has accumulated it.
type BufferListConsumer interface {
	OnBufferList(buffers []*Buffer) error
	OnError(err error) error
}
