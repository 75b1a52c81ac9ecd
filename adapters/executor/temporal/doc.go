// Package temporal hands an exported GraphSection off to an external
// Temporal workflow: it starts a workflow execution and returns its run
// handle, but never evaluates a model itself.
package temporal
