package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRule(constraints ...Constraint) *Schema {
	return &Schema{Blocks: []BlockRule{{
		Name:   "users",
		Fields: []FieldRule{{Name: "v", Type: "string", Constraints: constraints}},
	}}}
}

func TestValidateLoadedAccepts(t *testing.T) {
	s := validRule(
		Constraint{Kind: KindLength, MinLen: intPtr(1)},
		Constraint{Kind: KindRange, Max: floatPtr(10)},
		Constraint{Kind: KindPattern, Pattern: "^a+$"},
		Constraint{Kind: KindEmail},
		Constraint{Kind: KindNotEmpty},
		Constraint{Kind: KindOneOf, Choices: []string{"a", "b"}},
	)
	require.NoError(t, validateLoaded(s))
}

func TestValidateLoadedRejects(t *testing.T) {
	tests := []struct {
		name     string
		schema   *Schema
		expected string
	}{
		{
			"no blocks",
			&Schema{},
			"schema declares no blocks",
		},
		{
			"block without name",
			&Schema{Blocks: []BlockRule{{}}},
			"schema block missing name",
		},
		{
			"field without name",
			&Schema{Blocks: []BlockRule{{Name: "users", Fields: []FieldRule{{Type: "int"}}}}},
			`block "users": field missing name`,
		},
		{
			"unknown field type",
			&Schema{Blocks: []BlockRule{{Name: "users", Fields: []FieldRule{{Name: "v", Type: "decimal"}}}}},
			`block "users" field "v": unknown type "decimal"`,
		},
		{
			"length without bounds",
			validRule(Constraint{Kind: KindLength}),
			`block "users" field "v": length constraint needs min_len or max_len`,
		},
		{
			"range without bounds",
			validRule(Constraint{Kind: KindRange}),
			`block "users" field "v": range constraint needs min or max`,
		},
		{
			"pattern empty",
			validRule(Constraint{Kind: KindPattern}),
			`block "users" field "v": pattern constraint needs a pattern`,
		},
		{
			"pattern invalid",
			validRule(Constraint{Kind: KindPattern, Pattern: "["}),
			`invalid pattern "["`,
		},
		{
			"one_of without choices",
			validRule(Constraint{Kind: KindOneOf}),
			`block "users" field "v": one_of constraint needs choices`,
		},
		{
			"custom in config",
			validRule(Constraint{Kind: KindCustom}),
			`block "users" field "v": custom constraints cannot be declared in config`,
		},
		{
			"unknown kind",
			validRule(Constraint{Kind: "fancy"}),
			`block "users" field "v": unknown constraint kind "fancy"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLoaded(tt.schema)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}
