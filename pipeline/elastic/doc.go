// Package elastic implements the Elastic Buffer and Buffering Stage
// transforms: the Elastic Buffer bridges transient producer/consumer
// backpressure imbalances with a bounded FIFO, and the Buffering Stage
// accumulates an entire byte stream in memory for a downstream consumer
// that needs random access.
package elastic
