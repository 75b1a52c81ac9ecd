package csv

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/pipeline/codec"
)

// Encoder streams ARROW_CONTEXT batches out as CSV text.
type Encoder struct {
	downstream pipeline.ByteConsumer
	source     string

	done bool
}

// NewEncoder returns a CSV Encoder writing to downstream.
func NewEncoder(source string, downstream pipeline.ByteConsumer) *Encoder {
	return &Encoder{downstream: downstream, source: source}
}

// DataInterface reports the variant this stage consumes.
func (e *Encoder) DataInterface() pipeline.DataInterface { return pipeline.ArrowContext }

// IsReady reports whether the encoder can accept another batch.
func (e *Encoder) IsReady() bool { return !e.done }

// OnStart forwards start to the downstream byte consumer; CSV has no
// framing preamble.
func (e *Encoder) OnStart(graph.SchemaDefinition) error {
	return e.downstream.OnStart()
}

// OnNext rejects dictionary batches, then emits one CSV line per row.
func (e *Encoder) OnNext(batch *pipeline.BatchContext) error {
	if err := codec.RejectDictionaryBatch(e.source, batch); err != nil {
		return err
	}
	var buf bytes.Buffer
	for row := 0; row < batch.RowCount; row++ {
		for i, col := range batch.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeField(&buf, col, row)
		}
		buf.WriteByte('\n')
	}
	return e.downstream.OnNext(pipeline.NewBuffer(buf.Bytes()))
}

func writeField(buf *bytes.Buffer, col pipeline.ColumnVector, row int) {
	if col.Nulls[row] {
		return
	}
	v := col.Values[row]
	if col.Field.FieldType == graph.FieldTypeString {
		s, _ := v.(string)
		if s == "" {
			buf.WriteString(`""`)
			return
		}
		buf.WriteString(s)
		return
	}
	buf.WriteString(formatValue(v))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// OnComplete forwards completion downstream.
func (e *Encoder) OnComplete() error {
	e.done = true
	return e.downstream.OnComplete()
}

// OnError propagates err downstream.
func (e *Encoder) OnError(err error) error {
	e.done = true
	return e.downstream.OnError(err)
}

// Pump is a no-op: the encoder emits synchronously from OnNext.
func (e *Encoder) Pump() error { return nil }

// IsDone reports the terminal marker.
func (e *Encoder) IsDone() bool { return e.done }

// Close is a no-op.
func (e *Encoder) Close() error { return nil }
