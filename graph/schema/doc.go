// Package schema exports graph.SchemaDefinition values as JSON Schema
// documents and validates encoded payloads against them, using
// santhosh-tekuri/jsonschema/v6 the same way registry/service.go validates
// tool call payloads against a tool's declared input schema.
package schema
