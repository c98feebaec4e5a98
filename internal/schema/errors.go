package schema

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is one failed check. Field carries the full path: the block
// name for block-level failures, "block[rowIdx].field" for row-level ones.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates every field error found in one Validate call.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Validation failed with %d error(s):", len(e.Errors))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.String())
	}
	return sb.String()
}

// AsValidation unwraps err to a *ValidationError when one is in the chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
