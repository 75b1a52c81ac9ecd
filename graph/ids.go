package graph

import "fmt"

// Namespace identifies a node's position in the namespace tree. Namespaces
// form a tree rooted at RootNamespace; a job or sub-flow expansion nests
// child namespaces under their parent.
type Namespace string

// RootNamespace is the namespace tree root.
const RootNamespace Namespace = ""

// Child returns the namespace for name nested directly under ns.
func (ns Namespace) Child(name string) Namespace {
	if ns == RootNamespace {
		return Namespace(name)
	}
	return Namespace(string(ns) + "/" + name)
}

// String returns the namespace's textual form, "ROOT" for the tree root.
func (ns Namespace) String() string {
	if ns == RootNamespace {
		return "ROOT"
	}
	return string(ns)
}

// NodeId uniquely identifies a node within a GraphSection.
type NodeId struct {
	Name      string
	Namespace Namespace
}

// NewNodeId returns the NodeId for name within ns.
func NewNodeId(name string, ns Namespace) NodeId {
	return NodeId{Name: name, Namespace: ns}
}

// String renders the node id as "namespace/name", or bare "name" at the root.
func (id NodeId) String() string {
	if id.Namespace == RootNamespace {
		return id.Name
	}
	return fmt.Sprintf("%s/%s", id.Namespace, id.Name)
}

// Reserved socket names for nodes that expose exactly one input or output.
const (
	SingleInput  = "$single_input"
	SingleOutput = "$single_output"
)

// SocketId names a socket on a node: either one of its declared outputs, or
// (when used as a dependency key) one of its declared inputs/parameters/resources.
type SocketId struct {
	Node   NodeId
	Socket string
}

// NewSocketId returns the SocketId for socket on node.
func NewSocketId(node NodeId, socket string) SocketId {
	return SocketId{Node: node, Socket: socket}
}

// String renders the socket id, omitting the socket name when it is the
// reserved single-input/output socket (matching the error-message naming
// rule: bare node name for SINGLE_INPUT, "node.socket"
// otherwise).
func (s SocketId) String() string {
	if s.Socket == SingleInput || s.Socket == SingleOutput {
		return s.Node.String()
	}
	return fmt.Sprintf("%s.%s", s.Node.String(), s.Socket)
}
