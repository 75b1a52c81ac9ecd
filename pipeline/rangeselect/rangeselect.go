package rangeselect

import (
	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
)

// Selector yields only the rows of the batches it sees whose absolute row
// index falls within [Offset, Offset+Limit) (Limit == 0 means unbounded).
// Fully-in-range batches transfer zero-copy; intersecting batches are
// split via splitAndTransfer; batches entirely outside the range are
// dropped.
type Selector struct {
	downstream pipeline.BatchConsumer
	offset     int64
	limit      int64

	rowIndex int64
	done     bool
}

// NewSelector returns a Selector over [offset, offset+limit), forwarding
// selected rows to downstream. limit == 0 means unbounded.
func NewSelector(downstream pipeline.BatchConsumer, offset, limit int64) *Selector {
	return &Selector{downstream: downstream, offset: offset, limit: limit}
}

func (s *Selector) DataInterface() pipeline.DataInterface { return pipeline.ArrowContext }
func (s *Selector) IsReady() bool                         { return !s.done }
func (s *Selector) Pump() error                           { return nil }
func (s *Selector) IsDone() bool                          { return s.done }
func (s *Selector) Close() error                          { return nil }

// OnStart forwards the schema downstream unchanged; the selector does not
// alter column shape, only row membership.
func (s *Selector) OnStart(schema graph.SchemaDefinition) error {
	return s.downstream.OnStart(schema)
}

// OnNext classifies batch against the absolute row range and forwards,
// splits, or drops it accordingly.
func (s *Selector) OnNext(batch *pipeline.BatchContext) error {
	start := s.rowIndex
	end := start + int64(batch.RowCount)
	s.rowIndex = end

	unbounded := s.limit == 0
	rangeEnd := s.offset + s.limit

	outside := end <= s.offset || (!unbounded && start >= rangeEnd)
	if outside {
		return nil
	}
	fullyIn := start >= s.offset && (unbounded || end <= rangeEnd)
	if fullyIn {
		return s.downstream.OnNext(batch)
	}
	return s.splitAndTransfer(batch, start, unbounded, rangeEnd)
}

func (s *Selector) splitAndTransfer(batch *pipeline.BatchContext, start int64, unbounded bool, rangeEnd int64) error {
	lo := s.offset
	if lo < start {
		lo = start
	}
	hi := start + int64(batch.RowCount)
	if !unbounded && rangeEnd < hi {
		hi = rangeEnd
	}
	localOff := int(lo - start)
	localLen := int(hi - lo)
	if localLen <= 0 {
		return nil
	}

	cols := make([]pipeline.ColumnVector, len(batch.Columns))
	for i, c := range batch.Columns {
		cols[i] = c.Slice(localOff, localLen).Clone()
	}
	out := pipeline.NewBatchContext(batch.Schema, cols)
	out.Dictionary = batch.Dictionary
	out.MarkLoaded()
	return s.downstream.OnNext(out)
}

// OnComplete forwards completion downstream.
func (s *Selector) OnComplete() error {
	s.done = true
	return s.downstream.OnComplete()
}

// OnError propagates err downstream.
func (s *Selector) OnError(err error) error {
	s.done = true
	return s.downstream.OnError(err)
}
