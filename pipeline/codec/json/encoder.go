package json

import (
	"bytes"
	"strconv"

	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/pipeline/codec"
)

// Encoder streams ARROW_CONTEXT batches out as a top-level JSON array of
// row objects.
type Encoder struct {
	downstream pipeline.ByteConsumer
	source     string

	wroteOpen bool
	wroteRow  bool
	done      bool
}

// NewEncoder returns a JSON Encoder writing to downstream.
func NewEncoder(source string, downstream pipeline.ByteConsumer) *Encoder {
	return &Encoder{downstream: downstream, source: source}
}

// DataInterface reports the variant this stage consumes.
func (e *Encoder) DataInterface() pipeline.DataInterface { return pipeline.ArrowContext }

// IsReady reports whether the encoder can accept another batch.
func (e *Encoder) IsReady() bool { return !e.done }

// OnStart forwards start to the downstream byte consumer; the opening
// bracket is written lazily with the first batch so an empty stream still
// produces valid JSON ("[]") from OnComplete alone.
func (e *Encoder) OnStart(graph.SchemaDefinition) error {
	return e.downstream.OnStart()
}

// OnNext rejects dictionary batches, then emits one JSON object per row.
func (e *Encoder) OnNext(batch *pipeline.BatchContext) error {
	if err := codec.RejectDictionaryBatch(e.source, batch); err != nil {
		return err
	}
	var buf bytes.Buffer
	e.writeOpen(&buf)
	for row := 0; row < batch.RowCount; row++ {
		e.writeRowSeparator(&buf)
		buf.WriteByte('{')
		for i, col := range batch.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeKey(&buf, col.Field.FieldName)
			writeValue(&buf, col, row)
		}
		buf.WriteByte('}')
		e.wroteRow = true
	}
	if buf.Len() == 0 {
		return nil
	}
	return e.downstream.OnNext(pipeline.NewBuffer(buf.Bytes()))
}

func (e *Encoder) writeOpen(buf *bytes.Buffer) {
	if e.wroteOpen {
		return
	}
	buf.WriteByte('[')
	e.wroteOpen = true
}

func (e *Encoder) writeRowSeparator(buf *bytes.Buffer) {
	if e.wroteRow {
		buf.WriteByte(',')
	}
}

func writeKey(buf *bytes.Buffer, name string) {
	buf.WriteByte('"')
	buf.WriteString(name)
	buf.WriteString(`":`)
}

func writeValue(buf *bytes.Buffer, col pipeline.ColumnVector, row int) {
	if col.Nulls[row] {
		buf.WriteString("null")
		return
	}
	switch v := col.Values[row].(type) {
	case string:
		writeJSONString(buf, v)
	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))
	case float64:
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	default:
		writeJSONString(buf, "")
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// OnComplete closes the array framing and forwards completion downstream.
func (e *Encoder) OnComplete() error {
	var buf bytes.Buffer
	e.writeOpen(&buf)
	buf.WriteByte(']')
	e.done = true
	if err := e.downstream.OnNext(pipeline.NewBuffer(buf.Bytes())); err != nil {
		return err
	}
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
