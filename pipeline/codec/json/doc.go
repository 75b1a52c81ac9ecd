// Package json implements the tabular text Codec Stage for JSON: a
// streaming Decoder (BYTE_STREAM → ARROW_CONTEXT) reading a top-level array
// of row objects, and an Encoder (ARROW_CONTEXT → BYTE_STREAM) producing
// the same shape.
package json
