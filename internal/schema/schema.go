// Package schema validates ISON documents against declarative rules.
//
// A Schema is plain data: block rules holding field rules holding
// constraints. Constraints form a closed set of kinds evaluated by one
// dispatch function; there is no validator interface to implement. The
// Custom kind carries a Go predicate and is only available to schemas built
// in code, never to loaded configuration.
//
// Schemas load from YAML or CUE files; both decode into the same structs
// and pass the same structural checks.
package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// ConstraintKind names one of the closed set of constraint behaviors.
type ConstraintKind string

const (
	// KindLength bounds a string's length in runes via MinLen/MaxLen.
	KindLength ConstraintKind = "length"
	// KindRange bounds a numeric value via Min/Max.
	KindRange ConstraintKind = "range"
	// KindPattern requires a string to match Pattern (RE2 syntax).
	KindPattern ConstraintKind = "pattern"
	// KindEmail requires a string to look like an email address.
	KindEmail ConstraintKind = "email"
	// KindNotEmpty rejects the empty string.
	KindNotEmpty ConstraintKind = "not_empty"
	// KindOneOf requires a string to be one of Choices.
	KindOneOf ConstraintKind = "one_of"
	// KindCustom runs Check. Programmatic schemas only.
	KindCustom ConstraintKind = "custom"
)

// Constraint is one rule applied to a field's value. Only the parameters
// its Kind reads are meaningful; the rest stay zero.
type Constraint struct {
	Kind    ConstraintKind `yaml:"kind" json:"kind"`
	MinLen  *int           `yaml:"min_len,omitempty" json:"min_len,omitempty"`
	MaxLen  *int           `yaml:"max_len,omitempty" json:"max_len,omitempty"`
	Min     *float64       `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64       `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern string         `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Choices []string       `yaml:"choices,omitempty" json:"choices,omitempty"`

	// Check implements KindCustom. It cannot come from config.
	Check func(ison.Value) error `yaml:"-" json:"-"`
}

// FieldRule validates one field of every row in a block. Type is one of
// int, float, bool, string, ref, or any (empty means any). A declared float
// accepts Int values; nothing else widens.
type FieldRule struct {
	Name        string       `yaml:"name" json:"name"`
	Type        string       `yaml:"type,omitempty" json:"type,omitempty"`
	Required    bool         `yaml:"required,omitempty" json:"required,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// BlockRule validates the first block with a matching name. A Required
// block must exist in the document; otherwise a missing block is skipped.
type BlockRule struct {
	Name     string      `yaml:"name" json:"name"`
	Required bool        `yaml:"required,omitempty" json:"required,omitempty"`
	Fields   []FieldRule `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Schema is a set of block rules. Blocks in the document that no rule
// names are ignored.
type Schema struct {
	Blocks []BlockRule `yaml:"blocks" json:"blocks"`
}

var fieldTypes = map[string]bool{
	"":       true,
	"any":    true,
	"int":    true,
	"float":  true,
	"bool":   true,
	"string": true,
	"ref":    true,
}

// validateLoaded structurally checks a schema decoded from config: names
// present, known types, constraint kinds with the parameters they need.
// Custom constraints are rejected here because config cannot carry code.
func validateLoaded(s *Schema) error {
	if len(s.Blocks) == 0 {
		return errors.New("schema declares no blocks")
	}
	for _, block := range s.Blocks {
		if block.Name == "" {
			return errors.New("schema block missing name")
		}
		for _, field := range block.Fields {
			if field.Name == "" {
				return fmt.Errorf("block %q: field missing name", block.Name)
			}
			if !fieldTypes[field.Type] {
				return fmt.Errorf("block %q field %q: unknown type %q", block.Name, field.Name, field.Type)
			}
			for _, c := range field.Constraints {
				if err := validateConstraintConfig(c); err != nil {
					return fmt.Errorf("block %q field %q: %w", block.Name, field.Name, err)
				}
			}
		}
	}
	return nil
}

func validateConstraintConfig(c Constraint) error {
	switch c.Kind {
	case KindLength:
		if c.MinLen == nil && c.MaxLen == nil {
			return errors.New("length constraint needs min_len or max_len")
		}
	case KindRange:
		if c.Min == nil && c.Max == nil {
			return errors.New("range constraint needs min or max")
		}
	case KindPattern:
		if c.Pattern == "" {
			return errors.New("pattern constraint needs a pattern")
		}
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %v", c.Pattern, err)
		}
	case KindEmail, KindNotEmpty:
		// No parameters.
	case KindOneOf:
		if len(c.Choices) == 0 {
			return errors.New("one_of constraint needs choices")
		}
	case KindCustom:
		return errors.New("custom constraints cannot be declared in config")
	default:
		return fmt.Errorf("unknown constraint kind %q", c.Kind)
	}
	return nil
}
