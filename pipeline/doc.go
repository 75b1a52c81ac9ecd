// Package pipeline implements the Streaming Data Pipeline: a backpressured,
// event-loop-driven assembly of typed producers and consumers (byte
// streams, columnar record batches, decoded/encoded tabular data) across
// format codecs and storage backends.
package pipeline
