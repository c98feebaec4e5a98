package ison

import (
	"strconv"
	"strings"
	"unicode"
)

// Value is a sealed interface over the six ISON value kinds.
// Only Null, Bool, Int, Float, String, and Reference implement it.
type Value interface {
	isonValue() // Sealed - only these types implement it
}

// Null is the absent value, written "null" or "~".
type Null struct{}

func (Null) isonValue() {}

func (Null) String() string { return "null" }

// Bool is a boolean value.
type Bool bool

func (Bool) isonValue() {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Int is a 64-bit signed integer value.
type Int int64

func (Int) isonValue() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a 64-bit floating-point value.
type Float float64

func (Float) isonValue() {}

func (f Float) String() string { return formatFloat(float64(f)) }

// String is a text value.
type String string

func (String) isonValue() {}

func (s String) String() string { return string(s) }

// Reference points at another record's id, optionally qualified by a type.
// An empty RefType means a simple (untyped) reference.
type Reference struct {
	ID      string
	RefType string
}

func (Reference) isonValue() {}

// NewReference creates a simple reference.
func NewReference(id string) Reference {
	return Reference{ID: id}
}

// NewTypedReference creates a reference qualified by a namespace or
// relationship type.
func NewTypedReference(refType, id string) Reference {
	return Reference{ID: id, RefType: refType}
}

// IsRelationship reports whether the reference type denotes a relationship
// edge: non-empty and composed entirely of uppercase letters and
// underscores. The classification is derived, never stored.
func (r Reference) IsRelationship() bool {
	if r.RefType == "" {
		return false
	}
	for _, c := range r.RefType {
		if c != '_' && !unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

// Namespace returns the namespace of a namespaced (non-relationship)
// reference.
func (r Reference) Namespace() (string, bool) {
	if r.RefType == "" || r.IsRelationship() {
		return "", false
	}
	return r.RefType, true
}

// Relationship returns the edge type of a relationship reference.
func (r Reference) Relationship() (string, bool) {
	if !r.IsRelationship() {
		return "", false
	}
	return r.RefType, true
}

// String renders the textual form, ":id" or ":type:id".
func (r Reference) String() string {
	if r.RefType == "" {
		return ":" + r.ID
	}
	return ":" + r.RefType + ":" + r.ID
}

// ParseValue classifies one raw token into a Value. A quoted token is always
// a string; that is what lets quoting force a string reading of text an
// earlier rule would claim. For unquoted text the precedence is, first match
// wins: null literal, boolean literal, reference, integer, float, string.
// A malformed reference is a hard error, never a string fallback. line is
// the 1-based input line for diagnostics.
func ParseValue(tok Token, line int) (Value, error) {
	if tok.Quoted {
		return String(tok.Text), nil
	}
	token := tok.Text
	if token == "null" || token == "~" {
		return Null{}, nil
	}
	if token == "true" {
		return Bool(true), nil
	}
	if token == "false" {
		return Bool(false), nil
	}
	if strings.HasPrefix(token, ":") {
		return parseReference(token, line)
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return Int(i), nil
	}
	if f, ok := parseFloat(token); ok {
		return Float(f), nil
	}
	return String(token), nil
}

// parseReference interprets a ":"-prefixed token. One part after the colon
// is a simple reference; two parts are type then id; any other count is
// malformed.
func parseReference(token string, line int) (Value, error) {
	parts := strings.Split(token[1:], ":")
	switch len(parts) {
	case 1:
		return NewReference(parts[0]), nil
	case 2:
		return NewTypedReference(parts[0], parts[1]), nil
	default:
		return nil, newErrorf(line, "Invalid reference: %s", token)
	}
}

// parseFloat accepts the base-10 float grammar only: decimal and exponent
// notation plus the signed inf/nan forms. Hex floats and digit underscores,
// which strconv would otherwise admit, are not ISON numbers.
func parseFloat(token string) (float64, bool) {
	if strings.ContainsRune(token, '_') {
		return 0, false
	}
	rest := token
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		rest = rest[1:]
	}
	if len(rest) > 1 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(token, 64)
	if err == nil {
		return f, true
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		// Out of range still reads as a number; the value saturates.
		return f, true
	}
	return 0, false
}

// formatFloat renders a float with the fewest digits that round-trip,
// never in exponent notation.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
