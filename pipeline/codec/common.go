package codec

import (
	"fmt"

	"github.com/trac-dap/flowcore/errs"
	"github.com/trac-dap/flowcore/pipeline"
)

// Decoder is a stage consuming a ByteStream and producing an ArrowContext.
type Decoder interface {
	pipeline.Stage
	pipeline.ByteConsumer
}

// Encoder is a stage consuming an ArrowContext and producing a ByteStream.
type Encoder interface {
	pipeline.Stage
	pipeline.BatchConsumer
}

// MaxUint64Textual is the inclusive upper bound an unsigned 64-bit textual
// decoder accepts.
const MaxUint64Textual = ^uint64(0)

// CheckUint64Range reports a "Value out of range" error if v falls outside
// [0, 2^64 − 1] — v is already uint64 so the only possible violation is
// overflow having already occurred upstream; callers pass the raw decimal
// string so the check can catch an overflowed parse before it wraps.
func CheckUint64Range(source string, line int, raw string, v uint64, overflowed bool) error {
	if overflowed {
		return errs.NewDataCorruptionError(source, line, 0, fmt.Sprintf("value %q out of range", raw), nil)
	}
	return nil
}

// RejectDictionaryBatch returns a structured "not supported" error if batch
// carries dictionary-encoded columns; textual codecs cannot represent them.
func RejectDictionaryBatch(source string, batch *pipeline.BatchContext) error {
	if batch.Dictionary {
		return errs.NewInternalError("encode", fmt.Sprintf("%s: dictionary batches are not supported", source), nil)
	}
	return nil
}
