package flowfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/trac-dap/flowcore/graph"
)

// document is the on-disk YAML shape of a flow definition.
type document struct {
	Nodes      []node   `yaml:"nodes"`
	Edges      []edge   `yaml:"edges"`
	Parameters []string `yaml:"parameters,omitempty"`
	Inputs     []string `yaml:"inputs,omitempty"`
	Outputs    []string `yaml:"outputs,omitempty"`
	Resources  []string `yaml:"resources,omitempty"`
}

type node struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Selector  string   `yaml:"selector,omitempty"`
	Params    []string `yaml:"parameters,omitempty"`
	Inputs    []string `yaml:"inputs,omitempty"`
	Outputs   []string `yaml:"outputs,omitempty"`
	Resources []string `yaml:"resources,omitempty"`
}

type socket struct {
	Node      string `yaml:"node"`
	Namespace string `yaml:"namespace,omitempty"`
	Socket    string `yaml:"socket"`
}

type edge struct {
	Source socket `yaml:"source"`
	Target socket `yaml:"target"`
}

// Encode renders def as YAML.
func Encode(def graph.FlowDefinition) ([]byte, error) {
	doc := document{
		Parameters: def.Parameters,
		Inputs:     def.Inputs,
		Outputs:    def.Outputs,
		Resources:  def.Resources,
	}
	for _, nfn := range def.Nodes {
		doc.Nodes = append(doc.Nodes, node{
			Name:      nfn.Name,
			Kind:      string(nfn.Node.Kind),
			Selector:  nfn.Node.Selector,
			Params:    nfn.Node.ModelParameters,
			Inputs:    nfn.Node.ModelInputs,
			Outputs:   nfn.Node.ModelOutputs,
			Resources: nfn.Node.ModelResources,
		})
	}
	for _, e := range def.Edges {
		doc.Edges = append(doc.Edges, edge{
			Source: socketToYAML(e.Source),
			Target: socketToYAML(e.Target),
		})
	}
	return yaml.Marshal(doc)
}

// Decode parses a YAML flow definition.
func Decode(data []byte) (graph.FlowDefinition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return graph.FlowDefinition{}, fmt.Errorf("parse flow file: %w", err)
	}

	def := graph.FlowDefinition{
		Parameters: doc.Parameters,
		Inputs:     doc.Inputs,
		Outputs:    doc.Outputs,
		Resources:  doc.Resources,
	}
	for _, n := range doc.Nodes {
		def.Nodes = append(def.Nodes, graph.NamedFlowNode{
			Name: n.Name,
			Node: graph.FlowNode{
				Kind:            graph.FlowNodeKind(n.Kind),
				Selector:        n.Selector,
				ModelParameters: n.Params,
				ModelInputs:     n.Inputs,
				ModelOutputs:    n.Outputs,
				ModelResources:  n.Resources,
			},
		})
	}
	for _, e := range doc.Edges {
		def.Edges = append(def.Edges, graph.FlowEdge{
			Source: socketFromYAML(e.Source),
			Target: socketFromYAML(e.Target),
		})
	}
	return def, nil
}

func socketToYAML(s graph.SocketId) socket {
	return socket{Node: s.Node.Name, Namespace: string(s.Node.Namespace), Socket: s.Socket}
}

func socketFromYAML(s socket) graph.SocketId {
	return graph.NewSocketId(graph.NewNodeId(s.Node, graph.Namespace(s.Namespace)), s.Socket)
}
