package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trac-dap/flowcore/graph"
)

func TestExportSortsNodesByNamespaceThenName(t *testing.T) {
	t.Parallel()

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(graph.NewNodeId("zeta", graph.RootNamespace), nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))
	s = s.WithNode(graph.NewNode(graph.NewNodeId("alpha", graph.RootNamespace), nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))

	def := Export(s)

	require.Len(t, def.Nodes, 2)
	assert.Equal(t, "alpha", def.Nodes[0].Name)
	assert.Equal(t, "zeta", def.Nodes[1].Name)
}

func TestExportReconstructsEdgesFromDependencies(t *testing.T) {
	t.Parallel()

	srcID := graph.NewNodeId("src", graph.RootNamespace)
	dstID := graph.NewNodeId("dst", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(srcID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))
	s = s.WithNode(graph.NewNode(dstID, map[string]graph.SocketId{graph.SingleInput: graph.NewSocketId(srcID, graph.SingleOutput)}, nil,
		graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeOutput})))

	def := Export(s)

	require.Len(t, def.Edges, 1)
	assert.Equal(t, graph.NewSocketId(srcID, graph.SingleOutput), def.Edges[0].Source)
	assert.Equal(t, graph.NewSocketId(dstID, graph.SingleInput), def.Edges[0].Target)
}

func TestExportOrdersEdgesBySocketWithinANode(t *testing.T) {
	t.Parallel()

	aID := graph.NewNodeId("a", graph.RootNamespace)
	bID := graph.NewNodeId("b", graph.RootNamespace)
	modelID := graph.NewNodeId("m", graph.RootNamespace)

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(aID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))
	s = s.WithNode(graph.NewNode(bID, nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))
	s = s.WithNode(graph.NewNode(modelID,
		map[string]graph.SocketId{
			"zsocket": graph.NewSocketId(bID, graph.SingleOutput),
			"asocket": graph.NewSocketId(aID, graph.SingleOutput),
		},
		[]string{"out"}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel})))

	def := Export(s)

	require.Len(t, def.Edges, 2)
	assert.Equal(t, graph.NewSocketId(modelID, "asocket"), def.Edges[0].Target)
	assert.Equal(t, graph.NewSocketId(modelID, "zsocket"), def.Edges[1].Target)
}

func TestExportRecoversTopLevelNameListsByKind(t *testing.T) {
	t.Parallel()

	s := graph.NewGraphSection[graph.NodeMetadata]()
	s = s.WithNode(graph.NewNode(graph.NewNodeId("p", graph.RootNamespace), nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeParameter})))
	s = s.WithNode(graph.NewNode(graph.NewNodeId("i", graph.RootNamespace), nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeInput})))
	s = s.WithNode(graph.NewNode(graph.NewNodeId("o", graph.RootNamespace), nil, nil, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeOutput})))
	s = s.WithNode(graph.NewNode(graph.NewNodeId("r", graph.RootNamespace), nil, []string{graph.SingleOutput}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeResource})))
	s = s.WithNode(graph.NewNode(graph.NewNodeId("m", graph.RootNamespace), nil, []string{"out"}, graph.NewNodeMetadata(graph.FlowNode{Kind: graph.FlowNodeModel})))

	def := Export(s)

	assert.Equal(t, []string{"p"}, def.Parameters)
	assert.Equal(t, []string{"i"}, def.Inputs)
	assert.Equal(t, []string{"o"}, def.Outputs)
	assert.Equal(t, []string{"r"}, def.Resources)
}

func TestExportEmptySectionProducesEmptyDefinition(t *testing.T) {
	t.Parallel()

	def := Export(graph.NewGraphSection[graph.NodeMetadata]())

	assert.Empty(t, def.Nodes)
	assert.Empty(t, def.Edges)
	assert.Empty(t, def.Parameters)
}
