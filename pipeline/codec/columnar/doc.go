// Package columnar implements the columnar binary Codec Stage: a
// length-prefixed, schema-aware binary frame format (one frame per
// BatchContext) that is a drop-in ARROW_CONTEXT producer/consumer
// alongside the csv and json codecs. Unlike those, it has no
// dictionary-batch restriction.
package columnar
