// Package codec holds the Decoder/Encoder stage contract and helpers shared
// by the tabular text codecs (csv, json) and the columnar binary codec:
// dictionary-batch rejection for textual codecs and the unsigned 64-bit
// range check.
package codec
