package pipeline

import "github.com/trac-dap/flowcore/graph"

// ColumnVector is one field's materialized values within a BatchContext.
// Nulls[i] true means Values[i] is not meaningful. Transfer-pair mechanics
// are modeled as Slice, which shares Values/Nulls with the
// source rather than copying.
type ColumnVector struct {
	Field  graph.FieldSchema
	Values []any
	Nulls  []bool
}

// Slice returns a ColumnVector over rows [off, off+n) of v, sharing the
// underlying arrays (zero-copy).
func (v ColumnVector) Slice(off, n int) ColumnVector {
	return ColumnVector{Field: v.Field, Values: v.Values[off : off+n], Nulls: v.Nulls[off : off+n]}
}

// Clone returns a ColumnVector with independently-owned Values/Nulls arrays,
// for a destination context that must outlive the source's next batch.
func (v ColumnVector) Clone() ColumnVector {
	values := append([]any(nil), v.Values...)
	nulls := append([]bool(nil), v.Nulls...)
	return ColumnVector{Field: v.Field, Values: values, Nulls: nulls}
}

// BatchContext is a reusable tuple of (schema, column vectors, row count,
// dictionary flag) passed between a producer/consumer pair across
// successive batches.
type BatchContext struct {
	Schema     graph.SchemaDefinition
	Columns    []ColumnVector
	RowCount   int
	Dictionary bool

	loaded bool
}

// NewBatchContext returns a BatchContext over columns, computing RowCount
// from the first column (0 if there are none).
func NewBatchContext(schema graph.SchemaDefinition, columns []ColumnVector) *BatchContext {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0].Values)
	}
	return &BatchContext{Schema: schema, Columns: columns, RowCount: rows}
}

// MarkLoaded flips the context to "loaded": the producer has populated it
// and the consumer may read it.
func (b *BatchContext) MarkLoaded() { b.loaded = true }

// MarkUnloaded flips the context back to "unloaded": the consumer has
// finished with it and the producer may reuse the backing vectors.
func (b *BatchContext) MarkUnloaded() { b.loaded = false }

// IsLoaded reports the current flip state.
func (b *BatchContext) IsLoaded() bool { return b.loaded }

// Column returns the vector for name, matched case-insensitively, and
// whether it was found.
func (b *BatchContext) Column(name string) (ColumnVector, bool) {
	for _, c := range b.Columns {
		if equalFold(c.Field.FieldName, name) {
			return c, true
		}
	}
	return ColumnVector{}, false
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
