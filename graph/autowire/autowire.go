package autowire

import (
	"fmt"

	"github.com/trac-dap/flowcore/graph"
)

// Run auto-wires every MODEL node's undeclared-edge parameters, synthesizing
// PARAMETER nodes as needed. An "explicit" flow (def.IsExplicit()) requires
// every auto-wired parameter name to already appear in def.Parameters;
// otherwise the auto-wire is skipped and an error reported.
func Run(section *graph.GraphSection[graph.NodeMetadata], def graph.FlowDefinition, job graph.JobDefinition, ns graph.Namespace, onError graph.ErrorHandler) *graph.GraphSection[graph.NodeMetadata] {
	if onError == nil {
		onError = func(graph.NodeId, string) {}
	}
	explicit := def.IsExplicit()
	declared := make(map[string]bool, len(def.Parameters))
	for _, p := range def.Parameters {
		declared[p] = true
	}

	for id, node := range section.Nodes {
		if node.Payload.FlowNode.Kind != graph.FlowNodeModel {
			continue
		}
		for _, paramName := range node.Payload.FlowNode.ModelParameters {
			if _, ok := node.Dependencies[paramName]; ok {
				continue
			}
			if explicit && !declared[paramName] {
				onError(id, fmt.Sprintf("Parameter %s is not declared in the flow", paramName))
				continue
			}
			paramID := graph.NewNodeId(paramName, ns)
			if _, exists := section.Nodes[paramID]; !exists {
				var rv *graph.RuntimeValue
				if v, ok := job.Parameters[paramName]; ok {
					rv = &v
				}
				meta := graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeParameter}).WithRuntimeValue(rv)
				paramNode := graph.NewNode(paramID, nil, []string{graph.SingleOutput}, meta)
				section = section.WithNode(paramNode)
			}
			node = section.Nodes[id]
			node = node.WithDependency(paramName, graph.NewSocketId(paramID, graph.SingleOutput))
			section = section.WithNode(node)
		}
	}
	return section
}
