package columnar

import (
	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
)

// Decoder streams length-prefixed binary frames into ARROW_CONTEXT
// batches against a fixed TableSchema.
type Decoder struct {
	schema     graph.TableSchema
	downstream pipeline.BatchConsumer
	source     string

	leftover      []byte
	bytesConsumed int64
	done          bool
}

// NewDecoder returns a columnar Decoder against schema.
func NewDecoder(source string, schema graph.TableSchema, downstream pipeline.BatchConsumer) *Decoder {
	return &Decoder{schema: schema, downstream: downstream, source: source}
}

func (d *Decoder) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }
func (d *Decoder) IsReady() bool                         { return !d.done }

func (d *Decoder) OnStart() error {
	return d.downstream.OnStart(graph.NewTableSchema(d.schema))
}

func (d *Decoder) OnNext(buf *pipeline.Buffer) error {
	defer buf.Release()
	data := buf.ReadableBytes()
	d.bytesConsumed += int64(len(data))
	d.leftover = append(d.leftover, data...)

	for {
		batch, n, ok, err := readFrame(d.leftover, d.schema)
		if err != nil {
			return errs.NewDataCorruptionError(d.source, 0, 0, err.Error(), err)
		}
		if !ok {
			return nil
		}
		d.leftover = d.leftover[n:]
		batch.MarkLoaded()
		if err := d.downstream.OnNext(batch); err != nil {
			return err
		}
	}
}

func (d *Decoder) OnComplete() error {
	if d.bytesConsumed == 0 {
		return errs.NewDataCorruptionError(d.source, 0, 0, "data is empty", nil)
	}
	if len(d.leftover) != 0 {
		return errs.NewDataCorruptionError(d.source, 0, 0, "trailing incomplete frame", nil)
	}
	d.done = true
	return d.downstream.OnComplete()
}

func (d *Decoder) OnError(err error) error {
	d.done = true
	return d.downstream.OnError(err)
}

func (d *Decoder) Pump() error  { return nil }
func (d *Decoder) IsDone() bool { return d.done }
func (d *Decoder) Close() error { return nil }
