package graph

// GraphSection is a fully-expanded, typed graph produced by the builder and
// refined by successive passes. Inputs lists the nodes with no dependencies;
// Outputs lists the nodes with an empty Outputs list. Both are ordered and
// deterministic given a deterministic traversal of the source FlowDefinition.
type GraphSection[T any] struct {
	Nodes   map[NodeId]Node[T]
	Inputs  []NodeId
	Outputs []NodeId
}

// NewGraphSection returns an empty GraphSection.
func NewGraphSection[T any]() *GraphSection[T] {
	return &GraphSection[T]{Nodes: make(map[NodeId]Node[T])}
}

// WithNode returns a new GraphSection with node set/replaced and Inputs/Outputs
// recomputed from the full node set, preserving deterministic order by
// appending newly-qualifying ids and dropping ids that no longer qualify.
func (g *GraphSection[T]) WithNode(n Node[T]) *GraphSection[T] {
	next := &GraphSection[T]{Nodes: make(map[NodeId]Node[T], len(g.Nodes)+1)}
	for id, node := range g.Nodes {
		next.Nodes[id] = node
	}
	next.Nodes[n.ID] = n
	next.Inputs = recomputeInputs(g.Inputs, n)
	next.Outputs = recomputeOutputs(g.Outputs, n)
	return next
}

func recomputeInputs[T any](prev []NodeId, changed Node[T]) []NodeId {
	wasInput := false
	for _, id := range prev {
		if id == changed.ID {
			wasInput = true
			break
		}
	}
	isInput := len(changed.Dependencies) == 0
	switch {
	case isInput && wasInput:
		return prev
	case isInput && !wasInput:
		return append(append([]NodeId(nil), prev...), changed.ID)
	case !isInput && wasInput:
		out := make([]NodeId, 0, len(prev))
		for _, id := range prev {
			if id != changed.ID {
				out = append(out, id)
			}
		}
		return out
	default:
		return prev
	}
}

func recomputeOutputs[T any](prev []NodeId, changed Node[T]) []NodeId {
	wasOutput := false
	for _, id := range prev {
		if id == changed.ID {
			wasOutput = true
			break
		}
	}
	isOutput := len(changed.Outputs) == 0
	switch {
	case isOutput && wasOutput:
		return prev
	case isOutput && !wasOutput:
		return append(append([]NodeId(nil), prev...), changed.ID)
	case !isOutput && wasOutput:
		out := make([]NodeId, 0, len(prev))
		for _, id := range prev {
			if id != changed.ID {
				out = append(out, id)
			}
		}
		return out
	default:
		return prev
	}
}
