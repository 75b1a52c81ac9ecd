package schema

import (
	"encoding/json"
	"fmt"

	js "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/trac-dap/flowcore/graph"
)

// ToJSONSchema renders def as a JSON Schema document, suitable for
// publishing alongside a flow's declared input/output schemas or for
// validating encoded batch payloads against them.
func ToJSONSchema(def graph.SchemaDefinition) map[string]any {
	switch def.Kind {
	case graph.SchemaKindTable:
		return fieldsToJSONSchema(def.Table.Fields, def.Table.NamedEnums, def.Table.NamedTypes, def.Table.Optional)
	case graph.SchemaKindStruct:
		return fieldsToJSONSchema(def.Struct.Fields, def.Struct.NamedEnums, def.Struct.NamedTypes, false)
	default:
		return map[string]any{}
	}
}

func fieldsToJSONSchema(fields []graph.FieldSchema, enums map[string][]string, types map[string]graph.SchemaDefinition, optional bool) map[string]any {
	props := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		props[f.FieldName] = fieldJSONSchema(f, enums, types)
		if f.NotNull {
			required = append(required, f.FieldName)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	if !optional {
		out["additionalProperties"] = false
	}
	return out
}

func fieldJSONSchema(f graph.FieldSchema, enums map[string][]string, types map[string]graph.SchemaDefinition) map[string]any {
	if nested, ok := lookupCaseInsensitive(types, f.FieldName); ok {
		return ToJSONSchema(nested)
	}
	out := map[string]any{"type": primitiveJSONType(f.FieldType)}
	if f.FieldType == graph.FieldTypeDate {
		out["format"] = "date"
	}
	if f.FieldType == graph.FieldTypeDatetime {
		out["format"] = "date-time"
	}
	if f.FieldType == graph.FieldTypeUint64 {
		out["minimum"] = 0
	}
	if vals, ok := lookupCaseInsensitive(enums, f.FieldName); ok {
		generic := make([]any, len(vals))
		for i, v := range vals {
			generic[i] = v
		}
		out["enum"] = generic
	}
	return out
}

func lookupCaseInsensitive[T any](m map[string]T, name string) (T, bool) {
	var zero T
	for k, v := range m {
		if equalFold(k, name) {
			return v, true
		}
	}
	return zero, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func primitiveJSONType(t graph.FieldType) string {
	switch t {
	case graph.FieldTypeBoolean:
		return "boolean"
	case graph.FieldTypeInteger, graph.FieldTypeUint64:
		return "integer"
	case graph.FieldTypeFloat, graph.FieldTypeDecimal:
		return "number"
	default:
		return "string"
	}
}

// Validate compiles def's JSON Schema rendering and validates payloadJSON
// against it, following the compile-then-validate pattern
// validatePayloadJSONAgainstSchema uses for tool call payloads.
func Validate(def graph.SchemaDefinition, payloadJSON []byte) error {
	schemaBytes, err := json.Marshal(ToJSONSchema(def))
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	var schemaDoc any
	if err := json.Unmarshal(schemaBytes, &schemaDoc); err != nil {
		return fmt.Errorf("unmarshal schema: %w", err)
	}
	var payloadDoc any
	if err := json.Unmarshal(payloadJSON, &payloadDoc); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	c := js.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return compiled.Validate(payloadDoc)
}
