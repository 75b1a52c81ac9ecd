package columnar

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/trac-dap/flowcore/graph"
	"github.com/trac-dap/flowcore/pipeline"
)

// frameMagic tags the start of every batch frame, guarding against a
// mismatched codec reading the stream.
const frameMagic = uint32(0xFC0C0001)

// writeFrame appends batch onto buf as one self-contained frame: magic,
// dictionary flag, row count, then per-column a null bitmap followed by
// the packed values.
func writeFrame(buf []byte, batch *pipeline.BatchContext) []byte {
	buf = appendUint32(buf, frameMagic)
	buf = appendBool(buf, batch.Dictionary)
	buf = appendUint32(buf, uint32(batch.RowCount))
	for _, col := range batch.Columns {
		buf = appendNullBitmap(buf, col.Nulls)
		buf = appendValues(buf, col)
	}
	return buf
}

// readFrame decodes one frame from buf against schema, returning the
// number of bytes consumed and ok=false if buf does not yet hold a
// complete frame.
func readFrame(buf []byte, schema graph.TableSchema) (batch *pipeline.BatchContext, n int, ok bool, err error) {
	if len(buf) < 9 {
		return nil, 0, false, nil
	}
	if binary.LittleEndian.Uint32(buf) != frameMagic {
		return nil, 0, false, fmt.Errorf("columnar: bad frame magic")
	}
	pos := 4
	dictionary := buf[pos] != 0
	pos++
	rowCount := int(binary.LittleEndian.Uint32(buf[pos:]))
	pos += 4

	columns := make([]pipeline.ColumnVector, len(schema.Fields))
	for i, f := range schema.Fields {
		nulls, consumed, ok, rerr := readNullBitmap(buf[pos:], rowCount)
		if rerr != nil {
			return nil, 0, false, rerr
		}
		if !ok {
			return nil, 0, false, nil
		}
		pos += consumed
		values, consumed, ok, rerr := readValues(buf[pos:], f, rowCount, nulls)
		if rerr != nil {
			return nil, 0, false, rerr
		}
		if !ok {
			return nil, 0, false, nil
		}
		pos += consumed
		columns[i] = pipeline.ColumnVector{Field: f, Values: values, Nulls: nulls}
	}

	bc := pipeline.NewBatchContext(graph.NewTableSchema(schema), columns)
	bc.Dictionary = dictionary
	return bc, pos, true, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendNullBitmap(buf []byte, nulls []bool) []byte {
	nbytes := (len(nulls) + 7) / 8
	start := len(buf)
	buf = append(buf, make([]byte, nbytes)...)
	for i, n := range nulls {
		if n {
			buf[start+i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

func readNullBitmap(buf []byte, rowCount int) (nulls []bool, n int, ok bool, err error) {
	nbytes := (rowCount + 7) / 8
	if len(buf) < nbytes {
		return nil, 0, false, nil
	}
	nulls = make([]bool, rowCount)
	for i := range nulls {
		nulls[i] = buf[i/8]&(1<<uint(i%8)) != 0
	}
	return nulls, nbytes, true, nil
}

func appendValues(buf []byte, col pipeline.ColumnVector) []byte {
	switch col.Field.FieldType {
	case graph.FieldTypeInteger:
		for i, v := range col.Values {
			if col.Nulls[i] {
				buf = appendUint64(buf, 0)
				continue
			}
			n, _ := v.(int64)
			buf = appendUint64(buf, uint64(n))
		}
	case graph.FieldTypeUint64:
		for i, v := range col.Values {
			if col.Nulls[i] {
				buf = appendUint64(buf, 0)
				continue
			}
			n, _ := v.(uint64)
			buf = appendUint64(buf, n)
		}
	case graph.FieldTypeFloat, graph.FieldTypeDecimal:
		for i, v := range col.Values {
			if col.Nulls[i] {
				buf = appendUint64(buf, 0)
				continue
			}
			f, _ := v.(float64)
			buf = appendUint64(buf, math.Float64bits(f))
		}
	case graph.FieldTypeBoolean:
		for i, v := range col.Values {
			if col.Nulls[i] {
				buf = appendBool(buf, false)
				continue
			}
			b, _ := v.(bool)
			buf = appendBool(buf, b)
		}
	default:
		for i, v := range col.Values {
			if col.Nulls[i] {
				buf = appendUint32(buf, 0)
				continue
			}
			s, _ := v.(string)
			buf = appendUint32(buf, uint32(len(s)))
			buf = append(buf, s...)
		}
	}
	return buf
}

func readValues(buf []byte, f graph.FieldSchema, rowCount int, nulls []bool) (values []any, n int, ok bool, err error) {
	values = make([]any, rowCount)
	pos := 0
	switch f.FieldType {
	case graph.FieldTypeInteger:
		for i := 0; i < rowCount; i++ {
			if len(buf[pos:]) < 8 {
				return nil, 0, false, nil
			}
			v := binary.LittleEndian.Uint64(buf[pos:])
			pos += 8
			if !nulls[i] {
				values[i] = int64(v)
			}
		}
	case graph.FieldTypeUint64:
		for i := 0; i < rowCount; i++ {
			if len(buf[pos:]) < 8 {
				return nil, 0, false, nil
			}
			v := binary.LittleEndian.Uint64(buf[pos:])
			pos += 8
			if !nulls[i] {
				values[i] = v
			}
		}
	case graph.FieldTypeFloat, graph.FieldTypeDecimal:
		for i := 0; i < rowCount; i++ {
			if len(buf[pos:]) < 8 {
				return nil, 0, false, nil
			}
			v := binary.LittleEndian.Uint64(buf[pos:])
			pos += 8
			if !nulls[i] {
				values[i] = math.Float64frombits(v)
			}
		}
	case graph.FieldTypeBoolean:
		for i := 0; i < rowCount; i++ {
			if len(buf[pos:]) < 1 {
				return nil, 0, false, nil
			}
			v := buf[pos] != 0
			pos++
			if !nulls[i] {
				values[i] = v
			}
		}
	default:
		for i := 0; i < rowCount; i++ {
			if len(buf[pos:]) < 4 {
				return nil, 0, false, nil
			}
			slen := int(binary.LittleEndian.Uint32(buf[pos:]))
			pos += 4
			if len(buf[pos:]) < slen {
				return nil, 0, false, nil
			}
			s := string(buf[pos : pos+slen])
			pos += slen
			if !nulls[i] {
				values[i] = s
			}
		}
	}
	return values, pos, true, nil
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
