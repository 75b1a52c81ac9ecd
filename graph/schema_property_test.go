package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCombineFieldsNotNullIsMonotoneTightening verifies that combining
// two definitions of the same field never relaxes NotNull from true to false.
func TestCombineFieldsNotNullIsMonotoneTightening(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("NotNull only ever tightens", prop.ForAll(
		func(ft FieldType, aNotNull, bNotNull bool) bool {
			a := []FieldSchema{{FieldName: "f", FieldType: ft, NotNull: aNotNull}}
			b := []FieldSchema{{FieldName: "f", FieldType: ft, NotNull: bNotNull}}

			out, err := CombineFields(a, b)
			if err != nil {
				return false
			}
			want := aNotNull || bNotNull
			return out[0].NotNull == want
		},
		gen.OneConstOf(FieldTypeBoolean, FieldTypeInteger, FieldTypeFloat, FieldTypeString),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestCombineEnumsIsCommutative verifies that enum intersection does
// not depend on argument order, when both sides are non-empty and the
// intersection exists.
func TestCombineEnumsIsCommutative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	values := []string{"x", "y", "z", "w"}

	properties.Property("CombineEnums(a, b) == CombineEnums(b, a) on overlapping sets", prop.ForAll(
		func(aIdx, bIdx []int) bool {
			a := map[string][]string{"e": pick(values, aIdx)}
			b := map[string][]string{"e": pick(values, bIdx)}

			ab, errAB := CombineEnums(a, b)
			ba, errBA := CombineEnums(b, a)
			if (errAB == nil) != (errBA == nil) {
				return false
			}
			if errAB != nil {
				return true
			}
			return sameSet(ab["e"], ba["e"])
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}

// TestCombineTableIsAssociative verifies that Combine is associative
// on table schemas whose field sets are pairwise compatible (same type for
// any shared field name).
func TestCombineTableIsAssociative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("(a+b)+c == a+(b+c)", prop.ForAll(
		func(aNotNull, bNotNull, cNotNull bool) bool {
			mk := func(nn bool) SchemaDefinition {
				return NewTableSchema(TableSchema{Fields: []FieldSchema{{FieldName: "f", FieldType: FieldTypeInteger, NotNull: nn}}})
			}
			a, b, c := mk(aNotNull), mk(bNotNull), mk(cNotNull)

			ab, err := Combine(a, b)
			if err != nil {
				return false
			}
			abc1, err := Combine(ab, c)
			if err != nil {
				return false
			}

			bc, err := Combine(b, c)
			if err != nil {
				return false
			}
			abc2, err := Combine(a, bc)
			if err != nil {
				return false
			}

			return abc1.Table.Fields[0].NotNull == abc2.Table.Fields[0].NotNull
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}

func pick(values []string, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(values) {
			out = append(out, values[i])
		}
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		set[v]--
	}
	for _, n := range set {
		if n != 0 {
			return false
		}
	}
	return true
}
