package csv

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
	"github.com/trac-dap/flowcore/pipeline/codec"
)

// Decoder streams CSV rows into ARROW_CONTEXT batches against a fixed
// TableSchema.
//
// Field splitting does not honor embedded delimiters inside quoted values;
// it treats a comma as a field boundary unconditionally, which is
// sufficient for the unquoted numeric/date columns this decoder targets
// and for the null/empty-string sentinel rule below.
type Decoder struct {
	schema        graph.TableSchema
	downstream    pipeline.BatchConsumer
	caseSensitive bool
	batchSize     int
	source        string

	leftover      []byte
	line          int
	bytesConsumed int64
	columns       []pipeline.ColumnVector
	rows          int
	done          bool
}

// NewDecoder returns a CSV Decoder against schema, emitting batches of up
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

// DataInterface reports the variant this stage consumes.
func (d *Decoder) DataInterface() pipeline.DataInterface { return pipeline.ByteStream }

// IsReady reports whether the decoder can accept another chunk.
func (d *Decoder) IsReady() bool { return !d.done }

// OnStart sends the schema downstream.
func (d *Decoder) OnStart() error {
	return d.downstream.OnStart(graph.NewTableSchema(d.schema))
}

// OnNext feeds chunk into the line-oriented lexer, advancing one row per
// newline and emitting a batch once batchSize rows accumulate.
func (d *Decoder) OnNext(buf *pipeline.Buffer) error {
	defer buf.Release()
	data := buf.ReadableBytes()
	d.bytesConsumed += int64(len(data))
	d.leftover = append(d.leftover, data...)

	for {
		idx := bytes.IndexByte(d.leftover, '\n')
		if idx < 0 {
			break
		}
		line := trimCR(d.leftover[:idx])
		d.leftover = d.leftover[idx+1:]
		d.line++
		if err := d.processLine(line); err != nil {
			return err
		}
		if d.rows >= d.batchSize {
			if err := d.emitBatch(); err != nil {
				return err
			}
		}
	}
	return nil
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}

// OnComplete flushes any trailing partial line and batch, reporting "data
// is empty" if no bytes were ever consumed.
func (d *Decoder) OnComplete() error {
	if d.bytesConsumed == 0 {
		return errs.NewDataCorruptionError(d.source, 0, 0, "data is empty", nil)
	}
	if len(d.leftover) > 0 {
		d.line++
		if err := d.processLine(d.leftover); err != nil {
			return err
		}
		d.leftover = nil
	}
	if d.rows > 0 {
		if err := d.emitBatch(); err != nil {
			return err
		}
	}
	d.done = true
	return d.downstream.OnComplete()
}

// OnError propagates err downstream.
func (d *Decoder) OnError(err error) error {
	d.done = true
	return d.downstream.OnError(err)
}

// Pump is a no-op: the decoder emits synchronously from OnNext/OnComplete.
func (d *Decoder) Pump() error { return nil }

// IsDone reports the terminal marker.
func (d *Decoder) IsDone() bool { return d.done }

// Close is a no-op; the decoder owns no unreleased resources past OnNext.
func (d *Decoder) Close() error { return nil }

func (d *Decoder) processLine(line []byte) error {
	fields := bytes.Split(line, []byte(","))
	if len(fields) != len(d.schema.Fields) {
		return errs.NewDataCorruptionError(d.source, d.line, 0, "row field count does not match schema", nil)
	}
	for i, f := range d.schema.Fields {
		raw := fields[i]
		val, isNull, err := decodeField(f, raw, d.source, d.line)
		if err != nil {
			if _, ok := errs.KindOf(err); ok {
				return err
			}
			return errs.NewDataCorruptionError(d.source, d.line, i+1, err.Error(), err)
		}
		if isNull && f.NotNull {
			return errs.NewDataCorruptionError(d.source, d.line, i+1, "required field "+f.FieldName+" is missing", nil)
		}
		d.columns[i].Values = append(d.columns[i].Values, val)
		d.columns[i].Nulls = append(d.columns[i].Nulls, isNull)
	}
	d.rows++
	return nil
}

// decodeField applies the empty-cell/null rule: a bare empty token (width 0)
// is null for every field type. For string fields any token with width >= 1
// is a value, unquoted first — a single literal character decodes to
// itself, and the `""` quoted empty-string sentinel unquotes to the
// non-null empty string.
func decodeField(f graph.FieldSchema, raw []byte, source string, line int) (any, bool, error) {
	width := len(raw)
	if width == 0 {
		return nil, true, nil
	}
	if f.FieldType == graph.FieldTypeString {
		// width > 1 here can only be the `""` quoted empty-string sentinel
		// unquoting to "" (a bare empty token was already handled above),
		// so an empty unquoted result is always the non-null empty string.
		return unquote(raw), false, nil
	}
	if width <= 1 && isBlank(raw) {
		return nil, true, nil
	}
	return parseTyped(f, string(raw), source, line)
}

func isBlank(raw []byte) bool {
	for _, b := range raw {
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

func unquote(raw []byte) string {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return string(raw[1 : len(raw)-1])
	}
	return string(raw)
}

func parseTyped(f graph.FieldSchema, text string, source string, line int) (any, bool, error) {
	switch f.FieldType {
	case graph.FieldTypeBoolean:
		v, err := strconv.ParseBool(text)
		return v, false, err
	case graph.FieldTypeInteger:
		v, err := strconv.ParseInt(text, 10, 64)
		return v, false, err
	case graph.FieldTypeUint64:
		v, err := strconv.ParseUint(text, 10, 64)
		overflowed := errors.Is(err, strconv.ErrRange)
		if err != nil && !overflowed {
			return nil, false, err
		}
		if rangeErr := codec.CheckUint64Range(source, line, text, v, overflowed); rangeErr != nil {
			return nil, false, rangeErr
		}
		return v, false, nil
	case graph.FieldTypeFloat, graph.FieldTypeDecimal:
		v, err := strconv.ParseFloat(text, 64)
		return v, false, err
	default:
		return text, false, nil
	}
}

func (d *Decoder) emitBatch() error {
	batch := pipeline.NewBatchContext(graph.NewTableSchema(d.schema), d.columns)
	batch.MarkLoaded()
	d.resetColumns()
	return d.downstream.OnNext(batch)
}
