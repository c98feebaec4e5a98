package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// Validate checks doc against schema and collects every failure across all
// blocks, rows, and fields. It returns nil when the document passes, or a
// *ValidationError listing each problem. Summary rows are not validated.
func Validate(doc *ison.Document, schema *Schema) error {
	v := &validator{patterns: make(map[string]*regexp.Regexp)}
	for _, rule := range schema.Blocks {
		block := doc.Get(rule.Name)
		if block == nil {
			if rule.Required {
				v.errors = append(v.errors, FieldError{Field: rule.Name, Message: "Missing block"})
			}
			continue
		}
		v.checkBlock(block, rule)
	}
	if len(v.errors) > 0 {
		return &ValidationError{Errors: v.errors}
	}
	return nil
}

type validator struct {
	patterns map[string]*regexp.Regexp
	errors   []FieldError
}

// checkBlock records at most one error per row and field: the first failing
// check wins for a field, and the walk moves on to the next field.
func (v *validator) checkBlock(block *ison.Block, rule BlockRule) {
	for rowIdx, row := range block.Rows {
		for _, field := range rule.Fields {
			if msg := v.checkField(row, field); msg != "" {
				v.errors = append(v.errors, FieldError{
					Field:   fmt.Sprintf("%s[%d].%s", block.Name, rowIdx, field.Name),
					Message: msg,
				})
			}
		}
	}
}

// checkField returns the first failure message for the field, or "".
// A missing field and an explicit null are the same case: rows serialize
// absent fields as null, so validation must not tell them apart.
func (v *validator) checkField(row ison.Row, rule FieldRule) string {
	value, present := row[rule.Name]
	if !present || isNull(value) {
		if rule.Required {
			return "Field is required"
		}
		return ""
	}

	if msg := checkType(value, rule.Type); msg != "" {
		return msg
	}
	for _, c := range rule.Constraints {
		if msg := v.checkConstraint(value, c); msg != "" {
			return msg
		}
	}
	return ""
}

func isNull(v ison.Value) bool {
	_, ok := v.(ison.Null)
	return ok
}

func checkType(value ison.Value, fieldType string) string {
	switch fieldType {
	case "", "any":
		return ""
	case "int":
		if _, ok := value.(ison.Int); !ok {
			return "Expected integer"
		}
	case "float":
		switch value.(type) {
		case ison.Float, ison.Int:
		default:
			return "Expected number"
		}
	case "bool":
		if _, ok := value.(ison.Bool); !ok {
			return "Expected boolean"
		}
	case "string":
		if _, ok := value.(ison.String); !ok {
			return "Expected string"
		}
	case "ref":
		if _, ok := value.(ison.Reference); !ok {
			return "Expected reference"
		}
	default:
		return fmt.Sprintf("Unknown field type: %s", fieldType)
	}
	return ""
}

// checkConstraint dispatches on the closed kind set. Each kind checks the
// value kinds it understands and passes all others, so a length rule on an
// int field is inert rather than an error.
func (v *validator) checkConstraint(value ison.Value, c Constraint) string {
	switch c.Kind {
	case KindLength:
		s, ok := value.(ison.String)
		if !ok {
			return ""
		}
		n := utf8.RuneCountInString(string(s))
		if c.MinLen != nil && n < *c.MinLen {
			return fmt.Sprintf("String must be at least %d characters", *c.MinLen)
		}
		if c.MaxLen != nil && n > *c.MaxLen {
			return fmt.Sprintf("String must be at most %d characters", *c.MaxLen)
		}
	case KindRange:
		f, ok := numeric(value)
		if !ok {
			return ""
		}
		if c.Min != nil && f < *c.Min {
			return fmt.Sprintf("Value must be >= %v", *c.Min)
		}
		if c.Max != nil && f > *c.Max {
			return fmt.Sprintf("Value must be <= %v", *c.Max)
		}
	case KindPattern:
		s, ok := value.(ison.String)
		if !ok {
			return ""
		}
		re, err := v.pattern(c.Pattern)
		if err != nil {
			return fmt.Sprintf("Invalid pattern: %s", c.Pattern)
		}
		if !re.MatchString(string(s)) {
			return fmt.Sprintf("String must match pattern: %s", c.Pattern)
		}
	case KindEmail:
		s, ok := value.(ison.String)
		if !ok {
			return ""
		}
		if !strings.Contains(string(s), "@") {
			return "Invalid email format"
		}
	case KindNotEmpty:
		if s, ok := value.(ison.String); ok && s == "" {
			return "String cannot be empty"
		}
	case KindOneOf:
		s, ok := value.(ison.String)
		if !ok {
			return ""
		}
		for _, choice := range c.Choices {
			if string(s) == choice {
				return ""
			}
		}
		return fmt.Sprintf("Value must be one of: %s", strings.Join(c.Choices, ", "))
	case KindCustom:
		if c.Check == nil {
			return ""
		}
		if err := c.Check(value); err != nil {
			return err.Error()
		}
	default:
		return fmt.Sprintf("Unknown constraint kind: %s", c.Kind)
	}
	return ""
}

func numeric(v ison.Value) (float64, bool) {
	switch n := v.(type) {
	case ison.Int:
		return float64(n), true
	case ison.Float:
		return float64(n), true
	}
	return 0, false
}

func (v *validator) pattern(expr string) (*regexp.Regexp, error) {
	if re, ok := v.patterns[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	v.patterns[expr] = re
	return re, nil
}
