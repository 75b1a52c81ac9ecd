// Package builder implements the Graph Builder: it expands a
// graph.FlowDefinition into a graph.GraphSection[graph.NodeMetadata] using
// Kahn's topological algorithm, reporting semantic defects (unreachable
// nodes, socket conflicts, missing declarations) through a pluggable
// graph.ErrorHandler rather than returning an error from the build itself.
package builder
