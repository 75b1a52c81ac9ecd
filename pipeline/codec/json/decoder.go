package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/pipeline/codec"
)

// Decoder streams a top-level JSON array of row objects into ARROW_CONTEXT
// batches against a fixed TableSchema.
//
// It scans for complete top-level `{...}` spans in the accumulated buffer
// rather than driving a token-by-token encoding/json.Decoder, since the
// latter has no way to pause mid-object across chunk boundaries without a
// blocking reader; a per-object encoding/json.Decoder with UseNumber still
// does the per-object value conversion.
type Decoder struct {
	schema        graph.TableSchema
	downstream    pipeline.BatchConsumer
	caseSensitive bool
	batchSize     int
	source        string

	leftover      []byte
	started       bool
	bytesConsumed int64
	columns       []pipeline.ColumnVector
	rows          int
	objectIndex   int
	done          bool
}

// NewDecoder returns a JSON Decoder against schema, emitting batches of up
// to batchSize rows to downstream.
func NewDecoder(source string, schema graph.TableSchema, downstream pipeline.BatchConsumer, caseSensitive bool, batchSize int) *Decoder {
	if batchSize <= 0 {
		batchSize = 1024
	}
	d := &Decoder{schema: schema, downstream: downstream, caseSensitive: caseSensitive, batchSize: batchSize, source: source}
	d.resetColumns()
	return d
}

func (d *Decoder) resetColumns() {
	d.columns = make([]pipeline.ColumnVector, len(d.schema.Fields))
	for i, f := range d.schema.Fields {
		d.columns[i] = pipeline.ColumnVector{Field: f}
	}
	d.rows = 0
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

	if !d.started {
		if !d.consumeArrayStart() {
			return nil
		}
	}
	for {
		obj, rest, ok := extractObject(d.leftover)
		if !ok {
			return nil
		}
		d.leftover = rest
		d.objectIndex++
		if err := d.processObject(obj); err != nil {
			return err
		}
		if d.rows >= d.batchSize {
			if err := d.emitBatch(); err != nil {
				return err
			}
		}
	}
}

func (d *Decoder) consumeArrayStart() bool {
	i := skipWhitespace(d.leftover, 0)
	if i >= len(d.leftover) {
		d.leftover = d.leftover[i:]
		return false
	}
	if d.leftover[i] != '[' {
		return true // tolerate a bare object stream; treat buffer as-is
	}
	d.leftover = d.leftover[i+1:]
	d.started = true
	return true
}

func (d *Decoder) OnComplete() error {
	if d.bytesConsumed == 0 {
		return errs.NewDataCorruptionError(d.source, 0, 0, "data is empty", nil)
	}
	if d.rows > 0 {
		if err := d.emitBatch(); err != nil {
			return err
		}
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

func (d *Decoder) processObject(obj []byte) error {
	dec := json.NewDecoder(bytes.NewReader(obj))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return errs.NewDataCorruptionError(d.source, d.objectIndex, 0, "malformed row object: "+err.Error(), err)
	}
	for i, f := range d.schema.Fields {
		raw, found := lookupField(m, f.FieldName, d.caseSensitive)
		if !found || raw == nil {
			if f.NotNull {
				return errs.NewDataCorruptionError(d.source, d.objectIndex, i+1, "required field "+f.FieldName+" is missing", nil)
			}
			d.columns[i].Values = append(d.columns[i].Values, nil)
			d.columns[i].Nulls = append(d.columns[i].Nulls, true)
			continue
		}
		val, err := convertField(f, raw, d.source, d.objectIndex)
		if err != nil {
			if _, ok := errs.KindOf(err); ok {
				return err
			}
			return errs.NewDataCorruptionError(d.source, d.objectIndex, i+1, err.Error(), err)
		}
		d.columns[i].Values = append(d.columns[i].Values, val)
		d.columns[i].Nulls = append(d.columns[i].Nulls, false)
	}
	d.rows++
	return nil
}

// convertField converts the decoded JSON value raw (numbers arrive as
// json.Number since the decoder runs with UseNumber, preserving the exact
// literal text for the uint64 range check) into the Go value f's FieldType
// expects.
func convertField(f graph.FieldSchema, raw any, source string, line int) (any, error) {
	switch f.FieldType {
	case graph.FieldTypeInteger:
		n, ok := raw.(json.Number)
		if !ok {
			return nil, fmt.Errorf("field %s: expected a number", f.FieldName)
		}
		v, err := n.Int64()
		return v, err
	case graph.FieldTypeUint64:
		n, ok := raw.(json.Number)
		if !ok {
			return nil, fmt.Errorf("field %s: expected a number", f.FieldName)
		}
		v, err := strconv.ParseUint(n.String(), 10, 64)
		overflowed := errors.Is(err, strconv.ErrRange)
		if err != nil && !overflowed {
			return nil, fmt.Errorf("field %s: %w", f.FieldName, err)
		}
		if rangeErr := codec.CheckUint64Range(source, line, n.String(), v, overflowed); rangeErr != nil {
			return nil, rangeErr
		}
		return v, nil
	case graph.FieldTypeFloat, graph.FieldTypeDecimal:
		n, ok := raw.(json.Number)
		if !ok {
			return nil, fmt.Errorf("field %s: expected a number", f.FieldName)
		}
		v, err := n.Float64()
		return v, err
	case graph.FieldTypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("field %s: expected a boolean", f.FieldName)
		}
		return b, nil
	default:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("field %s: expected a string", f.FieldName)
		}
		return s, nil
	}
}

func lookupField(m map[string]any, name string, caseSensitive bool) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	if caseSensitive {
		return nil, false
	}
	for k, v := range m {
		if equalFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (d *Decoder) emitBatch() error {
	batch := pipeline.NewBatchContext(graph.NewTableSchema(d.schema), d.columns)
	batch.MarkLoaded()
	d.resetColumns()
	return d.downstream.OnNext(batch)
}

func skipWhitespace(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r', ',':
			i++
		default:
			return i
		}
	}
	return i
}

// extractObject scans buf for the first complete top-level `{...}` span,
// honoring string/escape state so braces inside string values don't
// confuse the depth counter. Returns ok=false if no complete object is
// present yet.
func extractObject(buf []byte) (obj []byte, rest []byte, ok bool) {
	start := skipWhitespace(buf, 0)
	if start >= len(buf) {
		return nil, buf[start:], false
	}
	if buf[start] == ']' {
		return nil, buf[start+1:], false
	}
	if buf[start] != '{' {
		return nil, buf, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(buf); i++ {
		c := buf[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return buf[start : i+1], buf[i+1:], true
			}
		}
	}
	return nil, buf, false
}
