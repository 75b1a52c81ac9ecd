package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trac-dap/flowcore/graph"
)

func withModelRuntimeObject(node graph.Node[graph.NodeMetadata], model graph.ModelDefinition) graph.Node[graph.NodeMetadata] {
	return node.WithPayload(node.Payload.WithRuntimeObject(&graph.ObjectDefinition{Kind: graph.ObjectKindModel, Model: &model}))
}

func TestRunInfersParameterFromSingleConnectedModel(t *testing.T) {
	t.Parallel()

	paramID := graph.NewNodeId("scale", graph.RootNamespace)
	modelID := graph.NewNodeId("transform", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(paramID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeParameter})))
	modelNode := graph.NewNode(modelID,
		map[string]graph.SocketId{"scale": graph.NewSocketId(paramID, graph.SingleOutput)},
		[]string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel, ModelParameters: []string{"scale"}}))
	modelNode = withModelRuntimeObject(modelNode, graph.ModelDefinition{
		Parameters: map[string]graph.ModelParameter{"scale": {ParamType: graph.FieldTypeFloat}},
	})
	s = s.WithNode(modelNode)

	var errs graph.CollectingErrorHandler
	out := Run(s, errs.Handle)

	assert.Empty(t, errs.Errors)
	require.NotNil(t, out.Nodes[paramID].Payload.ModelParameter)
	assert.Equal(t, graph.FieldTypeFloat, out.Nodes[paramID].Payload.ModelParameter.ParamType)
}

func TestRunReportsConflictingParameterType(t *testing.T) {
	t.Parallel()

	paramID := graph.NewNodeId("scale", graph.RootNamespace)
	m1ID := graph.NewNodeId("m1", graph.RootNamespace)
	m2ID := graph.NewNodeId("m2", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(paramID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeParameter})))

	m1 := graph.NewNode(m1ID, map[string]graph.SocketId{"scale": graph.NewSocketId(paramID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	m1 = withModelRuntimeObject(m1, graph.ModelDefinition{Parameters: map[string]graph.ModelParameter{"scale": {ParamType: graph.FieldTypeFloat}}})
	s = s.WithNode(m1)

	m2 := graph.NewNode(m2ID, map[string]graph.SocketId{"scale": graph.NewSocketId(paramID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	m2 = withModelRuntimeObject(m2, graph.ModelDefinition{Parameters: map[string]graph.ModelParameter{"scale": {ParamType: graph.FieldTypeInteger}}})
	s = s.WithNode(m2)

	var errs graph.CollectingErrorHandler
	out := Run(s, errs.Handle)

	require.Len(t, errs.Errors, 1)
	assert.Contains(t, errs.Errors[0].Detail, "conflicting parameter type")
	assert.Nil(t, out.Nodes[paramID].Payload.ModelParameter)
}

func TestRunKeepsDefaultOnlyWhenBothModelsAgree(t *testing.T) {
	t.Parallel()

	paramID := graph.NewNodeId("scale", graph.RootNamespace)
	m1ID := graph.NewNodeId("m1", graph.RootNamespace)
	m2ID := graph.NewNodeId("m2", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(paramID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeParameter})))

	def := &graph.RuntimeValue{Type: graph.FieldTypeFloat, Raw: 1.0}
	m1 := graph.NewNode(m1ID, map[string]graph.SocketId{"scale": graph.NewSocketId(paramID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	m1 = withModelRuntimeObject(m1, graph.ModelDefinition{Parameters: map[string]graph.ModelParameter{"scale": {ParamType: graph.FieldTypeFloat, DefaultValue: def}}})
	s = s.WithNode(m1)

	m2 := graph.NewNode(m2ID, map[string]graph.SocketId{"scale": graph.NewSocketId(paramID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	m2 = withModelRuntimeObject(m2, graph.ModelDefinition{Parameters: map[string]graph.ModelParameter{"scale": {ParamType: graph.FieldTypeFloat, DefaultValue: &graph.RuntimeValue{Type: graph.FieldTypeFloat, Raw: 2.0}}}})
	s = s.WithNode(m2)

	out := Run(s, nil)

	param := out.Nodes[paramID].Payload.ModelParameter
	require.NotNil(t, param)
	assert.Nil(t, param.DefaultValue, "divergent defaults must not be kept")
}

func TestRunCombinesInputSchemaAcrossConnectedModels(t *testing.T) {
	t.Parallel()

	inID := graph.NewNodeId("in", graph.RootNamespace)
	modelID := graph.NewNodeId("m", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(inID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))

	schema := graph.NewTableSchema(graph.TableSchema{Fields: []graph.FieldSchema{{FieldName: "id", FieldType: graph.FieldTypeInteger}}})
	modelNode := graph.NewNode(modelID, map[string]graph.SocketId{"in": graph.NewSocketId(inID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	modelNode = withModelRuntimeObject(modelNode, graph.ModelDefinition{Inputs: map[string]graph.SchemaDefinition{"in": schema}})
	s = s.WithNode(modelNode)

	out := Run(s, nil)

	got := out.Nodes[inID].Payload.ModelInputSchema
	require.NotNil(t, got)
	assert.Equal(t, graph.SchemaKindTable, got.Kind)
	assert.Equal(t, []string{"id"}, got.Table.FieldNames())
}

func TestRunReportsInputSchemaCombineConflict(t *testing.T) {
	t.Parallel()

	inID := graph.NewNodeId("in", graph.RootNamespace)
	m1ID := graph.NewNodeId("m1", graph.RootNamespace)
	m2ID := graph.NewNodeId("m2", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(inID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))

	intSchema := graph.NewTableSchema(graph.TableSchema{Fields: []graph.FieldSchema{{FieldName: "id", FieldType: graph.FieldTypeInteger}}})
	strSchema := graph.NewTableSchema(graph.TableSchema{Fields: []graph.FieldSchema{{FieldName: "id", FieldType: graph.FieldTypeString}}})

	m1 := graph.NewNode(m1ID, map[string]graph.SocketId{"in": graph.NewSocketId(inID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	m1 = withModelRuntimeObject(m1, graph.ModelDefinition{Inputs: map[string]graph.SchemaDefinition{"in": intSchema}})
	s = s.WithNode(m1)

	m2 := graph.NewNode(m2ID, map[string]graph.SocketId{"in": graph.NewSocketId(inID, graph.SingleOutput)}, []string{"out"},
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	m2 = withModelRuntimeObject(m2, graph.ModelDefinition{Inputs: map[string]graph.SchemaDefinition{"in": strSchema}})
	s = s.WithNode(m2)

	var errs graph.CollectingErrorHandler
	Run(s, errs.Handle)

	require.Len(t, errs.Errors, 1)
	assert.Contains(t, errs.Errors[0].Detail, "Input schema for")
}

func TestRunInfersOutputSchemaFromConnectedModel(t *testing.T) {
	t.Parallel()

	modelID := graph.NewNodeId("m", graph.RootNamespace)
	outID := graph.NewNodeId("out", graph.RootNamespace)

	schema := graph.NewTableSchema(graph.TableSchema{Fields: []graph.FieldSchema{{FieldName: "result", FieldType: graph.FieldTypeFloat}}})

	s := graph.NewGraphSection[graph.NodeMetadata]()
	modelNode := graph.NewNode(modelID, nil, []string{"out"}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel}))
	modelNode = withModelRuntimeObject(modelNode, graph.ModelDefinition{Outputs: map[string]graph.SchemaDefinition{"out": schema}})
	s = s.WithNode(modelNode)
	s = s.WithNode(graph.NewNode(outID, map[string]graph.SocketId{graph.SingleInput: graph.NewSocketId(modelID, "out")}, nil,
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeOutput})))

	out := Run(s, nil)

	got := out.Nodes[outID].Payload.ModelOutputSchema
	require.NotNil(t, got)
	assert.Equal(t, []string{"result"}, got.Table.FieldNames())
}

func TestRunMirrorsInputSchemaThroughPassThroughOutput(t *testing.T) {
	t.Parallel()

	inID := graph.NewNodeId("in", graph.RootNamespace)
	outID := graph.NewNodeId("out", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	inNode := graph.NewNode(inID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput}))
	schema := graph.NewTableSchema(graph.TableSchema{Fields: []graph.FieldSchema{{FieldName: "x", FieldType: graph.FieldTypeString}}})
	inNode = inNode.WithPayload(inNode.Payload.WithModelInputSchema(&schema))
	s = s.WithNode(inNode)
	s = s.WithNode(graph.NewNode(outID, map[string]graph.SocketId{graph.SingleInput: graph.NewSocketId(inID, graph.SingleOutput)}, nil,
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeOutput})))

	out := Run(s, nil)

	got := out.Nodes[outID].Payload.ModelOutputSchema
	require.NotNil(t, got)
	assert.Equal(t, []string{"x"}, got.Table.FieldNames())
}

func TestCombineResourcesRejectsConflictingType(t *testing.T) {
	t.Parallel()

	_, err := combineResources(
		graph.ModelResource{ResourceType: "gpu"},
		graph.ModelResource{ResourceType: "cpu"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting resource type")
}

func TestCombineResourcesPropagatesProtocolAndDegradesDivergentSystem(t *testing.T) {
	t.Parallel()

	merged, err := combineResources(
		graph.ModelResource{ResourceType: "gpu", Protocol: "grpc", System: map[string]string{"pool": "a"}},
		graph.ModelResource{ResourceType: "gpu", System: map[string]string{"pool": "b"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "grpc", merged.Protocol)
	assert.Nil(t, merged.System, "divergent system maps degrade to empty rather than erroring")
}

func TestPropagateRejectsConflictingValues(t *testing.T) {
	t.Parallel()

	_, err := propagate("a", "b", "protocol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting protocol")
}
