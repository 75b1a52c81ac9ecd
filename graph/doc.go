// Package graph defines the value types shared by the flow graph core: node
// and socket identifiers, the immutable Node/GraphSection containers, the
// FlowNode/FlowEdge declaration types, and the NodeMetadata payload carried
// by every node produced by the builder, binder, auto-wirer, and type
// inferencer passes.
//
// Every type here is a plain, serializable value. The package has no
// scheduling, persistence, or I/O of its own; it is consumed by graph/builder,
// graph/binder, graph/autowire, graph/infer, and graph/export.
package graph
