package store

import (
	"encoding/json"
	"fmt"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// marshalRow converts a row to canonical JSON TEXT for storage. Row's
// MarshalJSON sorts keys, so equal rows always produce equal bytes; the
// canonical form is also what row IDs are derived from.
func marshalRow(row ison.Row) (string, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("marshal row: %w", err)
	}
	return string(data), nil
}

// unmarshalRow parses stored JSON TEXT back into a row.
func unmarshalRow(data string) (ison.Row, error) {
	if data == "" || data == "{}" {
		return ison.Row{}, nil
	}
	var row ison.Row
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("unmarshal row: %w", err)
	}
	return row, nil
}

// valueToParam converts a value to a Go native type for use as a SQL
// parameter. Supports the scalar kinds. References are matched against the
// refs table, never compared as parameters, so they are rejected here.
func valueToParam(v ison.Value) (any, error) {
	switch val := v.(type) {
	case ison.Null:
		return nil, nil
	case ison.Bool:
		return bool(val), nil
	case ison.Int:
		return int64(val), nil
	case ison.Float:
		return float64(val), nil
	case ison.String:
		return string(val), nil
	case ison.Reference:
		return nil, fmt.Errorf("references cannot be used as SQL parameters directly")
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
