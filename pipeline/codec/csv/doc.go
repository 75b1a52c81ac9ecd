// Package csv implements the tabular text Codec Stage for CSV: a streaming
// Decoder (BYTE_STREAM → ARROW_CONTEXT) and Encoder (ARROW_CONTEXT →
// BYTE_STREAM) pair.
package csv
