package graph

import "maps"

// Node is an immutable graph vertex carrying a typed payload. Dependencies
// map each of the node's input socket names to the SocketId that feeds it;
// Outputs lists the node's output socket names in declaration order.
//
// Node values are never mutated in place: every pass (builder, binder,
// auto-wirer, inferencer) that changes a node's dependencies, outputs, or
// payload produces a new Node and a new GraphSection containing it, giving
// structural sharing across passes without defensive copying of unrelated
// nodes.
type Node[T any] struct {
	ID           NodeId
	Dependencies map[string]SocketId
	Outputs      []string
	Payload      T
}

// NewNode returns a Node with the given id, a copy of deps, outs, and payload.
func NewNode[T any](id NodeId, deps map[string]SocketId, outs []string, payload T) Node[T] {
	return Node[T]{
		ID:           id,
		Dependencies: cloneDeps(deps),
		Outputs:      append([]string(nil), outs...),
		Payload:      payload,
	}
}

// WithPayload returns a copy of n with its payload replaced.
func (n Node[T]) WithPayload(payload T) Node[T] {
	n.Payload = payload
	n.Dependencies = cloneDeps(n.Dependencies)
	n.Outputs = append([]string(nil), n.Outputs...)
	return n
}

// WithDependency returns a copy of n with socket bound to src.
func (n Node[T]) WithDependency(socket string, src SocketId) Node[T] {
	deps := cloneDeps(n.Dependencies)
	deps[socket] = src
	n.Dependencies = deps
	n.Outputs = append([]string(nil), n.Outputs...)
	return n
}

func cloneDeps(deps map[string]SocketId) map[string]SocketId {
	out := make(map[string]SocketId, len(deps))
	maps.Copy(out, deps)
	return out
}
