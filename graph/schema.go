package graph

import (
	"fmt"
)

// FieldType enumerates the primitive value types a FieldSchema may declare.
type FieldType string

// Recognized field types.
const (
	FieldTypeBoolean  FieldType = "BOOLEAN"
	FieldTypeInteger  FieldType = "INTEGER"
	FieldTypeUint64   FieldType = "UINT64"
	FieldTypeFloat    FieldType = "FLOAT"
	FieldTypeDecimal  FieldType = "DECIMAL"
	FieldTypeString   FieldType = "STRING"
	FieldTypeDate     FieldType = "DATE"
	FieldTypeDatetime FieldType = "DATETIME"
)

// FieldSchema describes one field of a TableSchema or StructSchema.
type FieldSchema struct {
	// FieldName preserves the first-seen casing; lookups elsewhere are
	// case-insensitive.
	FieldName   string
	FieldOrder  int
	FieldType   FieldType
	NotNull     bool
	Categorical bool
	BusinessKey bool
	FieldLabel  string
}

// SchemaKind tags which variant a SchemaDefinition holds.
type SchemaKind string

const (
	SchemaKindTable  SchemaKind = "TABLE_SCHEMA"
	SchemaKindStruct SchemaKind = "STRUCT_SCHEMA"
)

// SchemaDefinition is the sum of TABLE_SCHEMA and STRUCT_SCHEMA.
type SchemaDefinition struct {
	Kind   SchemaKind
	Table  *TableSchema
	Struct *StructSchema
}

// TableSchema is an ordered field list with optional named enums and types.
type TableSchema struct {
	Optional   bool
	Dynamic    bool
	Fields     []FieldSchema
	NamedEnums map[string][]string
	NamedTypes map[string]SchemaDefinition
}

// StructSchema is a nested, unordered-at-the-top-level field bag used for
// resource/object sub-schemas; it combines the same way a TableSchema's
// fields do, recursively over NamedTypes.
type StructSchema struct {
	Fields     []FieldSchema
	NamedEnums map[string][]string
	NamedTypes map[string]SchemaDefinition
}

// NewTableSchema returns a TABLE_SCHEMA SchemaDefinition.
func NewTableSchema(t TableSchema) SchemaDefinition {
	return SchemaDefinition{Kind: SchemaKindTable, Table: &t}
}

// NewStructSchema returns a STRUCT_SCHEMA SchemaDefinition.
func NewStructSchema(s StructSchema) SchemaDefinition {
	return SchemaDefinition{Kind: SchemaKindStruct, Struct: &s}
}

func fieldKey(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		out = append(out, r)
	}
	return string(out)
}

// CombineFields merges two ordered field lists under the monotone-tightening
// rule: fields are matched case-insensitively; unseen fields
// are appended in the order first encountered; matching fields must agree on
// FieldType/Categorical/BusinessKey and tighten NotNull to true if either
// side requires it.
func CombineFields(a, b []FieldSchema) ([]FieldSchema, error) {
	byKey := make(map[string]int, len(a))
	out := make([]FieldSchema, len(a))
	copy(out, a)
	for i, f := range out {
		byKey[fieldKey(f.FieldName)] = i
	}
	for _, f := range b {
		key := fieldKey(f.FieldName)
		if idx, ok := byKey[key]; ok {
			existing := out[idx]
			if existing.FieldType != f.FieldType {
				return nil, fmt.Errorf("field %q: conflicting field type %q vs %q", existing.FieldName, existing.FieldType, f.FieldType)
			}
			if existing.Categorical != f.Categorical {
				return nil, fmt.Errorf("field %q: conflicting categorical flag", existing.FieldName)
			}
			if existing.BusinessKey != f.BusinessKey {
				return nil, fmt.Errorf("field %q: conflicting business key flag", existing.FieldName)
			}
			existing.NotNull = existing.NotNull || f.NotNull
			out[idx] = existing
			continue
		}
		next := f
		next.FieldOrder = len(out)
		byKey[key] = len(out)
		out = append(out, next)
	}
	return out, nil
}

// CombineEnums intersects named enum value sets; an empty intersection for a
// name present on both sides is an error.
func CombineEnums(a, b map[string][]string) (map[string][]string, error) {
	if len(a) == 0 && len(b) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(a)+len(b))
	for name, vals := range a {
		out[name] = append([]string(nil), vals...)
	}
	for name, vals := range b {
		existing, ok := out[name]
		if !ok {
			out[name] = append([]string(nil), vals...)
			continue
		}
		inter := intersect(existing, vals)
		if len(inter) == 0 {
			return nil, fmt.Errorf("enum %q: intersection of values is empty", name)
		}
		out[name] = inter
	}
	return out, nil
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []string
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

// CombineNamedTypes merges two named-type maps, recursively combining any
// name present on both sides.
func CombineNamedTypes(a, b map[string]SchemaDefinition) (map[string]SchemaDefinition, error) {
	if len(a) == 0 && len(b) == 0 {
		return nil, nil
	}
	out := make(map[string]SchemaDefinition, len(a)+len(b))
	for name, def := range a {
		out[name] = def
	}
	for name, def := range b {
		existing, ok := out[name]
		if !ok {
			out[name] = def
			continue
		}
		combined, err := Combine(existing, def)
		if err != nil {
			return nil, fmt.Errorf("named type %q: %w", name, err)
		}
		out[name] = combined
	}
	return out, nil
}

// Combine merges two schema definitions under the monotone-tightening rule.
// It is associative and commutative on the compatible subset.
func Combine(a, b SchemaDefinition) (SchemaDefinition, error) {
	if a.Kind != b.Kind {
		return SchemaDefinition{}, fmt.Errorf("cannot combine %s with %s", a.Kind, b.Kind)
	}
	switch a.Kind {
	case SchemaKindTable:
		fields, err := CombineFields(a.Table.Fields, b.Table.Fields)
		if err != nil {
			return SchemaDefinition{}, err
		}
		enums, err := CombineEnums(a.Table.NamedEnums, b.Table.NamedEnums)
		if err != nil {
			return SchemaDefinition{}, err
		}
		types, err := CombineNamedTypes(a.Table.NamedTypes, b.Table.NamedTypes)
		if err != nil {
			return SchemaDefinition{}, err
		}
		return NewTableSchema(TableSchema{
			Optional:   a.Table.Optional && b.Table.Optional,
			Dynamic:    a.Table.Dynamic && b.Table.Dynamic,
			Fields:     fields,
			NamedEnums: enums,
			NamedTypes: types,
		}), nil
	case SchemaKindStruct:
		fields, err := CombineFields(a.Struct.Fields, b.Struct.Fields)
		if err != nil {
			return SchemaDefinition{}, err
		}
		enums, err := CombineEnums(a.Struct.NamedEnums, b.Struct.NamedEnums)
		if err != nil {
			return SchemaDefinition{}, err
		}
		types, err := CombineNamedTypes(a.Struct.NamedTypes, b.Struct.NamedTypes)
		if err != nil {
			return SchemaDefinition{}, err
		}
		return NewStructSchema(StructSchema{Fields: fields, NamedEnums: enums, NamedTypes: types}), nil
	default:
		return SchemaDefinition{}, fmt.Errorf("unknown schema kind %q", a.Kind)
	}
}

// FieldNames returns the fields' names in field order, for tests and exporters.
func (t *TableSchema) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.FieldName
	}
	return names
}
