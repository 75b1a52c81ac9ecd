package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trac-dap/flowcore/graph"
)

type fakeMetadata map[string]graph.ObjectDefinition

func (f fakeMetadata) Lookup(selector string) (graph.ObjectDefinition, bool) {
	obj, ok := f[selector]
	return obj, ok
}

type fakeResources map[string]graph.ModelResource

func (f fakeResources) Lookup(name string) (graph.ModelResource, bool) {
	r, ok := f[name]
	return r, ok
}

func sectionWith(id graph.NodeId, fn graph.FlowNode) *graph.GraphSection[graph.NodeMetadata] {
	s := graph.NewGraphSection[graph.NodeMetadata]()
	return s.WithNode(graph.NewNode(id, nil, nil, graph.NewNodeMetadata(fn)))
}

func TestBindBindsParameterFromJobValue(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("scale", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeParameter})
	job := graph.JobDefinition{Parameters: map[string]graph.RuntimeValue{
		"scale": {Type: graph.FieldTypeFloat, Raw: 2.0},
	}}

	bound := Bind(section, job, fakeMetadata{}, fakeResources{})

	node := bound.Nodes[id]
	require.NotNil(t, node.Payload.RuntimeValue)
	assert.Equal(t, 2.0, node.Payload.RuntimeValue.Raw)
}

func TestBindLeavesParameterUnboundWhenJobOmitsIt(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("scale", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeParameter})

	bound := Bind(section, graph.JobDefinition{}, fakeMetadata{}, fakeResources{})

	assert.Nil(t, bound.Nodes[id].Payload.RuntimeValue)
}

func TestBindResolvesInputSelectorFromJobOverride(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("src", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeInput, Selector: "default-tag"})
	job := graph.JobDefinition{Inputs: map[string]string{"src": "override-tag"}}
	metadata := fakeMetadata{"override-tag": {Kind: graph.ObjectKindData, Selector: "override-tag"}}

	bound := Bind(section, job, metadata, fakeResources{})

	obj := bound.Nodes[id].Payload.RuntimeObject
	require.NotNil(t, obj)
	assert.Equal(t, "override-tag", obj.Selector)
}

func TestBindFallsBackToDeclaredSelectorWhenJobOmitsInput(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("src", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeInput, Selector: "default-tag"})
	metadata := fakeMetadata{"default-tag": {Kind: graph.ObjectKindData, Selector: "default-tag"}}

	bound := Bind(section, graph.JobDefinition{}, metadata, fakeResources{})

	obj := bound.Nodes[id].Payload.RuntimeObject
	require.NotNil(t, obj)
	assert.Equal(t, "default-tag", obj.Selector)
}

func TestBindResolvesOutputSelectorFromJobOverride(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("sink", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeOutput})
	job := graph.JobDefinition{Outputs: map[string]string{"sink": "results"}}
	metadata := fakeMetadata{"results": {Kind: graph.ObjectKindData, Selector: "results"}}

	bound := Bind(section, job, metadata, fakeResources{})

	obj := bound.Nodes[id].Payload.RuntimeObject
	require.NotNil(t, obj)
	assert.Equal(t, "results", obj.Selector)
}

func TestBindLeavesObjectUnboundWhenLookupMisses(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("src", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeInput, Selector: "missing-tag"})

	bound := Bind(section, graph.JobDefinition{}, fakeMetadata{}, fakeResources{})

	assert.Nil(t, bound.Nodes[id].Payload.RuntimeObject)
}

func TestBindResolvesModelSelectorIgnoringJobMaps(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("transform", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeModel, Selector: "model-tag"})
	job := graph.JobDefinition{
		Inputs:    map[string]string{"transform": "other-tag"},
		Outputs:   map[string]string{"transform": "other-tag"},
		Resources: map[string]string{"transform": "other-tag"},
	}
	metadata := fakeMetadata{
		"model-tag": {Kind: graph.ObjectKindModel, Selector: "model-tag"},
		"other-tag": {Kind: graph.ObjectKindData, Selector: "other-tag"},
	}

	bound := Bind(section, job, metadata, fakeResources{})

	obj := bound.Nodes[id].Payload.RuntimeObject
	require.NotNil(t, obj)
	assert.Equal(t, graph.ObjectKindModel, obj.Kind)
	assert.Equal(t, "model-tag", obj.Selector)
}

func TestBindResolvesResourceFromJobOverrideAndWrapsAsObjectDefinition(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("gpu", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeResource, Selector: "default-pool"})
	job := graph.JobDefinition{Resources: map[string]string{"gpu": "a100-pool"}}
	resources := fakeResources{"a100-pool": {ResourceType: "gpu", Protocol: "grpc"}}

	bound := Bind(section, job, fakeMetadata{}, resources)

	obj := bound.Nodes[id].Payload.RuntimeObject
	require.NotNil(t, obj)
	assert.Equal(t, graph.ObjectKindResource, obj.Kind)
	assert.Equal(t, "a100-pool", obj.Selector)
	require.NotNil(t, obj.Resource)
	assert.Equal(t, "gpu", obj.Resource.ResourceType)
}

func TestBindDoesNotMutateOriginalSection(t *testing.T) {
	t.Parallel()

	id := graph.NewNodeId("scale", graph.RootNamespace)
	section := sectionWith(id, graph.FlowNode{Kind: graph.FlowNodeParameter})
	job := graph.JobDefinition{Parameters: map[string]graph.RuntimeValue{"scale": {Raw: 1}}}

	Bind(section, job, fakeMetadata{}, fakeResources{})

	assert.Nil(t, section.Nodes[id].Payload.RuntimeValue, "Bind must not mutate the section passed in")
}
