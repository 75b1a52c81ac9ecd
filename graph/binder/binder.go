package binder

import "github.com/trac-dap/flowcore/graph"

// Bind returns a new GraphSection with runtime values/objects attached from
// job, metadata, and resources wherever a lookup succeeds.
func Bind(section *graph.GraphSection[graph.NodeMetadata], job graph.JobDefinition, metadata graph.MetadataBundle, resources graph.ResourceBundle) *graph.GraphSection[graph.NodeMetadata] {
	for id, node := range section.Nodes {
		meta := node.Payload
		changed := false
		switch meta.FlowNode.Kind {
		case graph.FlowNodeParameter:
			if v, ok := job.Parameters[id.Name]; ok {
				meta, changed = meta.WithRuntimeValue(&v), true
			}
		case graph.FlowNodeInput, graph.FlowNodeOutput:
			selector, ok := selectorFor(meta.FlowNode.Kind, job, id.Name)
			if !ok {
				selector = meta.FlowNode.Selector
			}
			if selector != "" {
				if obj, found := metadata.Lookup(selector); found {
					meta, changed = meta.WithRuntimeObject(&obj), true
				}
			}
		case graph.FlowNodeModel:
			if meta.FlowNode.Selector != "" {
				if obj, found := metadata.Lookup(meta.FlowNode.Selector); found {
					meta, changed = meta.WithRuntimeObject(&obj), true
				}
			}
		case graph.FlowNodeResource:
			selector, ok := job.Resources[id.Name]
			if !ok {
				selector = meta.FlowNode.Selector
			}
			if selector != "" {
				if res, found := resources.Lookup(selector); found {
					meta, changed = meta.WithRuntimeObject(&graph.ObjectDefinition{
						Kind:     graph.ObjectKindResource,
						Selector: selector,
						Resource: &res,
					}), true
				}
			}
		}
		if changed {
			section = section.WithNode(node.WithPayload(meta))
		}
	}
	return section
}

func selectorFor(kind graph.FlowNodeKind, job graph.JobDefinition, name string) (string, bool) {
	if kind == graph.FlowNodeInput {
		s, ok := job.Inputs[name]
		return s, ok
	}
	s, ok := job.Outputs[name]
	return s, ok
}
