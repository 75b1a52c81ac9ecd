package builder

import (
	"fmt"

	"github.com/trac-dap/flowcore/graph"
)

// Build expands def into a GraphSection within namespace ns, reporting
// semantic defects through onError and continuing where possible. The
// returned section always reflects every node that could be reached; nodes
// that remain unreachable because of a missing edge or a cycle are omitted.
func Build(def graph.FlowDefinition, ns graph.Namespace, onError graph.ErrorHandler) *graph.GraphSection[graph.NodeMetadata] {
	if onError == nil {
		onError = func(graph.NodeId, string) {}
	}

	ids := make(map[string]graph.NodeId, len(def.Nodes))
	order := make([]string, 0, len(def.Nodes))
	for _, nfn := range def.Nodes {
		ids[nfn.Name] = graph.NewNodeId(nfn.Name, ns)
		order = append(order, nfn.Name)
	}

	targetEdges := make(map[graph.NodeId][]graph.FlowEdge)
	sourceEdges := make(map[graph.NodeId][]graph.FlowEdge)
	for _, e := range def.Edges {
		targetEdges[e.Target.Node] = append(targetEdges[e.Target.Node], e)
		sourceEdges[e.Source.Node] = append(sourceEdges[e.Source.Node], e)
	}

	nodesByName := make(map[string]graph.FlowNode, len(def.Nodes))
	for _, nfn := range def.Nodes {
		nodesByName[nfn.Name] = nfn.Node
	}

	// Step 2/3: dependencies per node (deduplicated per target socket,
	// reporting "supplied by multiple edges" once per offending socket), and
	// pending in-degree counts for Kahn's traversal.
	deps := make(map[graph.NodeId]map[string]graph.SocketId, len(def.Nodes))
	pending := make(map[graph.NodeId]int, len(def.Nodes))
	seenSocket := make(map[graph.NodeId]map[string]bool, len(def.Nodes))
	for _, name := range order {
		id := ids[name]
		deps[id] = make(map[string]graph.SocketId)
		seenSocket[id] = make(map[string]bool)
		for _, e := range targetEdges[id] {
			socket := e.Target.Socket
			if seenSocket[id][socket] {
				onError(id, fmt.Sprintf("Target socket %s is supplied by multiple edges", graph.NewSocketId(id, socket)))
				continue
			}
			seenSocket[id][socket] = true
			deps[id][socket] = e.Source
		}
		pending[id] = len(targetEdges[id])
	}

	// Step 3: seed the reachable set, in declaration order, for test stability.
	reachable := make([]graph.NodeId, 0, len(def.Nodes))
	queued := make(map[graph.NodeId]bool, len(def.Nodes))
	remaining := make(map[graph.NodeId]bool, len(def.Nodes))
	for _, name := range order {
		id := ids[name]
		remaining[id] = true
		switch nodesByName[name].Kind {
		case graph.FlowNodeInput, graph.FlowNodeParameter, graph.FlowNodeResource:
			reachable = append(reachable, id)
			queued[id] = true
		case graph.FlowNodeOutput, graph.FlowNodeModel:
			// reachable only once its dependencies resolve
		default:
			onError(id, fmt.Sprintf("Flow node %s has an unknown or missing node type", id))
		}
	}

	section := graph.NewGraphSection[graph.NodeMetadata]()

	// Step 4: Kahn expansion.
	for len(reachable) > 0 {
		id := reachable[0]
		reachable = reachable[1:]
		delete(remaining, id)

		name := id.Name
		fn := nodesByName[name]
		reportMissingDeclaredSockets(id, fn, deps[id], onError)

		outs := declaredOutputs(fn)
		node := graph.NewNode(id, deps[id], outs, graph.NewNodeMetadata(fn))
		section = section.WithNode(node)

		for _, e := range sourceEdges[id] {
			target := e.Target.Node
			pending[target]--
			if pending[target] == 0 && !queued[target] && remaining[target] {
				queued[target] = true
				reachable = append(reachable, target)
			}
		}
	}

	// Step 5: anything left in `remaining` never became reachable.
	for _, name := range order {
		id := ids[name]
		if remaining[id] {
			onError(id, fmt.Sprintf("Flow node %s is not reachable (this may indicate a cyclic dependency)", id))
		}
	}

	return section
}

func declaredOutputs(fn graph.FlowNode) []string {
	switch fn.Kind {
	case graph.FlowNodeInput, graph.FlowNodeParameter, graph.FlowNodeResource:
		return []string{graph.SingleOutput}
	case graph.FlowNodeModel:
		return append([]string(nil), fn.ModelOutputs...)
	default:
		return nil
	}
}

func declaredInputSockets(fn graph.FlowNode) []string {
	switch fn.Kind {
	case graph.FlowNodeOutput:
		return []string{graph.SingleInput}
	case graph.FlowNodeModel:
		sockets := make([]string, 0, len(fn.ModelParameters)+len(fn.ModelInputs)+len(fn.ModelResources))
		sockets = append(sockets, fn.ModelParameters...)
		sockets = append(sockets, fn.ModelInputs...)
		sockets = append(sockets, fn.ModelResources...)
		return sockets
	default:
		return nil
	}
}

func reportMissingDeclaredSockets(id graph.NodeId, fn graph.FlowNode, deps map[string]graph.SocketId, onError graph.ErrorHandler) {
	for _, socket := range declaredInputSockets(fn) {
		if _, ok := deps[socket]; !ok {
			onError(id, fmt.Sprintf("%s is not supplied by any edge", graph.NewSocketId(id, socket)))
		}
	}
}
