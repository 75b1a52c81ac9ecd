package graph

// JobDefinition is a request to execute a flow with specific parameter
// values, input/output selectors, and resource bindings.
type JobDefinition struct {
	Flow       string
	Parameters map[string]RuntimeValue
	Inputs     map[string]string
	Outputs    map[string]string
	Resources  map[string]string
}

// MetadataBundle is a read-only lookup from tag selector to object
// definition, supplied by the caller. Implementations are
// external collaborators (e.g. adapters/metadatastore); the graph core only
// depends on this interface.
type MetadataBundle interface {
	Lookup(selector string) (ObjectDefinition, bool)
}

// ResourceBundle is a read-only lookup from resource name to resource
// definition, supplied by the caller.
type ResourceBundle interface {
	Lookup(name string) (ModelResource, bool)
}

// ErrorHandler receives structured, non-fatal errors emitted by the graph
// core's passes. It never receives a Go error value: callers get the
// offending node id and a human-readable detail: the graph core does not
// throw for semantic defects, it reports them.
type ErrorHandler func(id NodeId, detail string)

// CollectingErrorHandler accumulates every reported error in order, for
// tests and collaborators that want to inspect them after a pass completes.
type CollectingErrorHandler struct {
	Errors []ReportedError
}

// ReportedError pairs a node id with the detail message reported against it.
type ReportedError struct {
	NodeId NodeId
	Detail string
}

// Handle implements ErrorHandler.
func (c *CollectingErrorHandler) Handle(id NodeId, detail string) {
	c.Errors = append(c.Errors, ReportedError{NodeId: id, Detail: detail})
}
