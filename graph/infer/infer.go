package infer

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/trac-dap/flowcore/graph"
)

// consumer records that node depends on some other node's output through the
// named socket on node.
type consumer struct {
	node   graph.NodeId
	socket string
}

// Run fills in ModelParameter/ModelInputSchema/ModelOutputSchema/ModelResource
// on PARAMETER/INPUT/OUTPUT/RESOURCE nodes by aggregating the declarations
// every connected MODEL node carries on its bound RuntimeObject.Model.
func Run(section *graph.GraphSection[graph.NodeMetadata], onError graph.ErrorHandler) *graph.GraphSection[graph.NodeMetadata] {
	if onError == nil {
		onError = func(graph.NodeId, string) {}
	}

	consumers := make(map[graph.NodeId][]consumer, len(section.Nodes))
	for id, node := range section.Nodes {
		for socket, src := range node.Dependencies {
			consumers[src.Node] = append(consumers[src.Node], consumer{node: id, socket: socket})
		}
	}

	for id, node := range section.Nodes {
		meta := node.Payload
		var changed bool
		switch meta.FlowNode.Kind {
		case graph.FlowNodeParameter:
			meta, changed = inferParameter(id, meta, consumers[id], section, onError)
		case graph.FlowNodeInput:
			meta, changed = inferInputSchema(id, meta, consumers[id], section, onError)
		case graph.FlowNodeOutput:
			meta, changed = inferOutputSchema(id, meta, node, section, onError)
		case graph.FlowNodeResource:
			meta, changed = inferResource(id, meta, consumers[id], section, onError)
		}
		if changed {
			section = section.WithNode(node.WithPayload(meta))
		}
	}
	return section
}

func modelAt(section *graph.GraphSection[graph.NodeMetadata], c consumer) *graph.ModelDefinition {
	target, ok := section.Nodes[c.node]
	if !ok || target.Payload.FlowNode.Kind != graph.FlowNodeModel {
		return nil
	}
	obj := target.Payload.RuntimeObject
	if obj == nil {
		return nil
	}
	return obj.Model
}

func inferParameter(id graph.NodeId, meta graph.NodeMetadata, cs []consumer, section *graph.GraphSection[graph.NodeMetadata], onError graph.ErrorHandler) (graph.NodeMetadata, bool) {
	var uses []graph.ModelParameter
	for _, c := range cs {
		model := modelAt(section, c)
		if model == nil {
			continue
		}
		if p, ok := model.Parameters[c.socket]; ok {
			uses = append(uses, p)
		}
	}
	switch len(uses) {
	case 0:
		return meta, false
	case 1:
		p := uses[0]
		return meta.WithModelParameter(&p), true
	default:
		first := uses[0]
		sameDefault := true
		for _, p := range uses[1:] {
			if p.ParamType != first.ParamType {
				onError(id, fmt.Sprintf("Parameter %s: conflicting parameter type %q vs %q", id, first.ParamType, p.ParamType))
				return meta, false
			}
			if !equalDefault(first.DefaultValue, p.DefaultValue) {
				sameDefault = false
			}
		}
		result := graph.ModelParameter{ParamType: first.ParamType}
		if sameDefault {
			result.DefaultValue = first.DefaultValue
		}
		return meta.WithModelParameter(&result), true
	}
}

func equalDefault(a, b *graph.RuntimeValue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type == b.Type && reflect.DeepEqual(a.Raw, b.Raw)
}

func inferInputSchema(id graph.NodeId, meta graph.NodeMetadata, cs []consumer, section *graph.GraphSection[graph.NodeMetadata], onError graph.ErrorHandler) (graph.NodeMetadata, bool) {
	var combined *graph.SchemaDefinition
	for _, c := range cs {
		model := modelAt(section, c)
		if model == nil {
			continue
		}
		s, ok := model.Inputs[c.socket]
		if !ok {
			continue
		}
		if combined == nil {
			next := s
			combined = &next
			continue
		}
		merged, err := graph.Combine(*combined, s)
		if err != nil {
			onError(id, fmt.Sprintf("Input schema for %s: %v", id, err))
			return meta, false
		}
		combined = &merged
	}
	if combined == nil {
		return meta, false
	}
	return meta.WithModelInputSchema(combined), true
}

func inferOutputSchema(id graph.NodeId, meta graph.NodeMetadata, node graph.Node[graph.NodeMetadata], section *graph.GraphSection[graph.NodeMetadata], onError graph.ErrorHandler) (graph.NodeMetadata, bool) {
	if len(node.Dependencies) != 1 {
		return meta, false
	}
	src, ok := node.Dependencies[graph.SingleInput]
	if !ok {
		return meta, false
	}
	source, ok := section.Nodes[src.Node]
	if !ok {
		return meta, false
	}
	if source.Payload.FlowNode.Kind == graph.FlowNodeModel {
		obj := source.Payload.RuntimeObject
		if obj == nil || obj.Model == nil {
			return meta, false
		}
		s, ok := obj.Model.Outputs[src.Socket]
		if !ok {
			return meta, false
		}
		return meta.WithModelOutputSchema(&s), true
	}
	if source.Payload.ModelInputSchema != nil {
		mirrored := *source.Payload.ModelInputSchema
		return meta.WithModelOutputSchema(&mirrored), true
	}
	return meta, false
}

func inferResource(id graph.NodeId, meta graph.NodeMetadata, cs []consumer, section *graph.GraphSection[graph.NodeMetadata], onError graph.ErrorHandler) (graph.NodeMetadata, bool) {
	var combined *graph.ModelResource
	for _, c := range cs {
		model := modelAt(section, c)
		if model == nil {
			continue
		}
		r, ok := model.Resources[c.socket]
		if !ok {
			continue
		}
		if combined == nil {
			next := r
			combined = &next
			continue
		}
		merged, err := combineResources(*combined, r)
		if err != nil {
			onError(id, fmt.Sprintf("Resource %s: %v", id, err))
			return meta, false
		}
		combined = &merged
	}
	if combined == nil {
		return meta, false
	}
	return meta.WithModelResource(combined), true
}

// combineResources merges two resource declarations: the
// resource type must agree exactly; protocol/subProtocol propagate from
// whichever side has them and conflict if both sides disagree; a divergent
// system map degrades to empty rather than failing the combine.
func combineResources(a, b graph.ModelResource) (graph.ModelResource, error) {
	if a.ResourceType != b.ResourceType {
		return graph.ModelResource{}, fmt.Errorf("conflicting resource type %q vs %q", a.ResourceType, b.ResourceType)
	}
	out := graph.ModelResource{ResourceType: a.ResourceType}

	protocol, err := propagate(a.Protocol, b.Protocol, "protocol")
	if err != nil {
		return graph.ModelResource{}, err
	}
	out.Protocol = protocol

	subProtocol, err := propagate(a.SubProtocol, b.SubProtocol, "subProtocol")
	if err != nil {
		return graph.ModelResource{}, err
	}
	out.SubProtocol = subProtocol

	if maps.Equal(a.System, b.System) {
		out.System = a.System
	}
	return out, nil
}

func propagate(a, b, field string) (string, error) {
	switch {
	case a == "":
		return b, nil
	case b == "":
		return a, nil
	case a != b:
		return "", fmt.Errorf("conflicting %s %q vs %q", field, a, b)
	default:
		return a, nil
	}
}
