package graph

// FlowNodeKind tags which of the five node variants a FlowNode declares.
type FlowNodeKind string

// Recognized flow node kinds.
const (
	FlowNodeInput     FlowNodeKind = "INPUT"
	FlowNodeOutput    FlowNodeKind = "OUTPUT"
	FlowNodeParameter FlowNodeKind = "PARAMETER"
	FlowNodeResource  FlowNodeKind = "RESOURCE"
	FlowNodeModel     FlowNodeKind = "MODEL"
)

// FlowNode is a tagged-variant declaration of one node in a FlowDefinition.
// For MODEL nodes, ModelParameters/ModelInputs/ModelOutputs/ModelResources
// list the names declared by the referenced model; other kinds leave them
// empty. Selector identifies the model/input/output/resource this node binds
// to at job-binding time.
type FlowNode struct {
	Kind     FlowNodeKind
	Selector string

	ModelParameters []string
	ModelInputs     []string
	ModelOutputs    []string
	ModelResources  []string
}

// NamedFlowNode pairs a bare node name with its declaration, preserving
// declaration order.
type NamedFlowNode struct {
	Name string
	Node FlowNode
}

// FlowEdge connects one node's output socket to another node's input socket.
type FlowEdge struct {
	Source SocketId
	Target SocketId
}

// FlowDefinition is the declarative, serializable form of a flow: nodes plus
// edges plus the optional declared parameter/input/output/resource sets used
// to detect "explicit" flows.
type FlowDefinition struct {
	Nodes      []NamedFlowNode
	Edges      []FlowEdge
	Parameters []string
	Inputs     []string
	Outputs    []string
	Resources  []string
}

// IsExplicit reports whether the flow declares an explicit parameter set.
func (f FlowDefinition) IsExplicit() bool {
	return len(f.Parameters) > 0
}

// ModelParameter is the payload attached to a PARAMETER node once its type
// has been bound or inferred.
type ModelParameter struct {
	ParamType    FieldType
	DefaultValue *RuntimeValue
}

// ModelResource describes the resource contract a RESOURCE node's connected
// model targets require.
type ModelResource struct {
	ResourceType string
	Protocol     string
	SubProtocol  string
	System       map[string]string
}

// ObjectKind tags the variant of an ObjectDefinition.
type ObjectKind string

// Recognized object kinds.
const (
	ObjectKindData     ObjectKind = "DATA"
	ObjectKindModel    ObjectKind = "MODEL"
	ObjectKindResource ObjectKind = "RESOURCE"
	ObjectKindFile     ObjectKind = "FILE"
)

// ObjectDefinition is a resolved reference to a metadata or resource object,
// looked up by selector from a MetadataBundle or ResourceBundle.
type ObjectDefinition struct {
	Kind     ObjectKind
	Selector string
	Schema   *SchemaDefinition
	Resource *ModelResource
	Model    *ModelDefinition
}

// ModelDefinition is the declaration a MODEL node's attached object carries:
// the parameter types, input/output schemas, and resource contracts the
// model itself declares, keyed by the same names the owning FlowNode lists
// in ModelParameters/ModelInputs/ModelOutputs/ModelResources. The Type
// Inferencer reads these at every connected target to fill in a
// PARAMETER/INPUT/OUTPUT/RESOURCE node's metadata.
type ModelDefinition struct {
	Parameters map[string]ModelParameter
	Inputs     map[string]SchemaDefinition
	Outputs    map[string]SchemaDefinition
	Resources  map[string]ModelResource
}

// RuntimeValue is a typed runtime value bound to a PARAMETER node from a job
// request.
type RuntimeValue struct {
	Type FieldType
	Raw  any
}

// NodeMetadata is the payload graph passes attach to every node. It is
// copy-on-write: every With* method returns a new NodeMetadata, leaving the
// receiver untouched.
type NodeMetadata struct {
	FlowNode FlowNode

	ModelParameter    *ModelParameter
	ModelInputSchema  *SchemaDefinition
	ModelOutputSchema *SchemaDefinition
	ModelResource     *ModelResource

	RuntimeObject *ObjectDefinition
	RuntimeValue  *RuntimeValue
}

// NewNodeMetadata returns the base metadata for a freshly-declared flow node.
func NewNodeMetadata(fn FlowNode) NodeMetadata {
	return NodeMetadata{FlowNode: fn}
}

// WithModelParameter returns a copy of m with ModelParameter set.
func (m NodeMetadata) WithModelParameter(p *ModelParameter) NodeMetadata {
	m.ModelParameter = p
	return m
}

// WithModelInputSchema returns a copy of m with ModelInputSchema set.
func (m NodeMetadata) WithModelInputSchema(s *SchemaDefinition) NodeMetadata {
	m.ModelInputSchema = s
	return m
}

// WithModelOutputSchema returns a copy of m with ModelOutputSchema set.
func (m NodeMetadata) WithModelOutputSchema(s *SchemaDefinition) NodeMetadata {
	m.ModelOutputSchema = s
	return m
}

// WithModelResource returns a copy of m with ModelResource set.
func (m NodeMetadata) WithModelResource(r *ModelResource) NodeMetadata {
	m.ModelResource = r
	return m
}

// WithRuntimeObject returns a copy of m with RuntimeObject set.
func (m NodeMetadata) WithRuntimeObject(o *ObjectDefinition) NodeMetadata {
	m.RuntimeObject = o
	return m
}

// WithRuntimeValue returns a copy of m with RuntimeValue set.
func (m NodeMetadata) WithRuntimeValue(v *RuntimeValue) NodeMetadata {
	m.RuntimeValue = v
	return m
}
