// Package export implements the Flow Exporter: it reconstructs a
// FlowDefinition from an expanded GraphSection, the inverse of
// graph/builder's expansion. Exporting a freshly built
// section (before binding/auto-wiring/inference attach runtime-only
// metadata) round-trips to a FlowDefinition equivalent to the source.
package export
