package export

import (
	"sort"

	"github.com/trac-dap/flowcore/graph"
)

// Export reconstructs a FlowDefinition from section: every node, every edge
// derived from a dependency, and the top-level parameter/input/output/
// resource name lists recovered from the nodes of the matching kind.
// Nodes are sorted by (Namespace, Name) and each node's edges by target
// socket name, for a stable, comparable result; FlowDefinition itself
// carries no ordering guarantee beyond that.
func Export(section *graph.GraphSection[graph.NodeMetadata]) graph.FlowDefinition {
	ids := make([]graph.NodeId, 0, len(section.Nodes))
	for id := range section.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Namespace != ids[j].Namespace {
			return ids[i].Namespace < ids[j].Namespace
		}
		return ids[i].Name < ids[j].Name
	})

	def := graph.FlowDefinition{}
	for _, id := range ids {
		node := section.Nodes[id]
		def.Nodes = append(def.Nodes, graph.NamedFlowNode{Name: id.Name, Node: node.Payload.FlowNode})

		sockets := make([]string, 0, len(node.Dependencies))
		for socket := range node.Dependencies {
			sockets = append(sockets, socket)
		}
		sort.Strings(sockets)
		for _, socket := range sockets {
			def.Edges = append(def.Edges, graph.FlowEdge{
				Source: node.Dependencies[socket],
				Target: graph.NewSocketId(id, socket),
			})
		}

		switch node.Payload.FlowNode.Kind {
		case graph.FlowNodeParameter:
			def.Parameters = append(def.Parameters, id.Name)
		case graph.FlowNodeInput:
			def.Inputs = append(def.Inputs, id.Name)
		case graph.FlowNodeOutput:
			def.Outputs = append(def.Outputs, id.Name)
		case graph.FlowNodeResource:
			def.Resources = append(def.Resources, id.Name)
		}
	}
	return def
}
