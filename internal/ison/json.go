package ison

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MarshalJSON implements json.Marshaler for Row with sorted keys.
func (r Row) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalValueJSON(r[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Row.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = make(Row, len(raw))
	for k, v := range raw {
		val, err := UnmarshalValueJSON(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		(*r)[k] = val
	}
	return nil
}

// jsonReference is the JSON shape of a Reference value. The $ref key marks
// the object as a reference; everything else inside a row must be scalar.
type jsonReference struct {
	Ref  string `json:"$ref"`
	Type string `json:"$type,omitempty"`
}

// MarshalValueJSON marshals a single value to JSON bytes. References become
// {"$ref": id, "$type": type} objects; the other kinds map to their native
// JSON forms.
func MarshalValueJSON(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(bool(val))
	case Int:
		return json.Marshal(int64(val))
	case Float:
		return json.Marshal(float64(val))
	case String:
		return json.Marshal(string(val))
	case Reference:
		return json.Marshal(jsonReference{Ref: val.ID, Type: val.RefType})
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// UnmarshalValueJSON decodes a JSON value into the appropriate Value kind.
// Integral numbers become Int, everything else numeric becomes Float.
// Arrays and non-reference objects are rejected: rows hold scalars and
// references only.
func UnmarshalValueJSON(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case 'n':
		return Null{}, nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return String(s), nil

	case '{':
		var ref struct {
			Ref  *string `json:"$ref"`
			Type string  `json:"$type"`
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ref); err != nil {
			return nil, fmt.Errorf("object is not a reference: %w", err)
		}
		if ref.Ref == nil {
			return nil, fmt.Errorf("object is not a reference: missing $ref")
		}
		return Reference{ID: *ref.Ref, RefType: ref.Type}, nil

	case '[':
		return nil, fmt.Errorf("arrays are not ISON values")

	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", string(data), err)
		}
		return Float(f), nil
	}
}

// ToJSON renders the document as one JSON object keyed by block name, each
// key holding the array of that block's data rows. Summary rows are not
// represented. Duplicate block names collapse to the last block with that
// name.
func (d *Document) ToJSON(pretty bool) (string, error) {
	m := make(map[string]json.RawMessage, len(d.Blocks))
	for _, block := range d.Blocks {
		rows := block.Rows
		if rows == nil {
			rows = []Row{}
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return "", fmt.Errorf("block %s: %w", block.Name, err)
		}
		m[block.Name] = data
	}

	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(m, "", "  ")
	} else {
		out, err = json.Marshal(m)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromJSON builds a document from a JSON object keyed by block name. Every
// block gets the given kind. Block names and field lists are sorted so the
// result is deterministic; rows keep their array order. Fields carry no type
// annotations since JSON does not record them.
func FromJSON(kind, text string) (*Document, error) {
	var raw map[string][]Row
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := NewDocument()
	for _, name := range names {
		block := NewBlock(kind, name)

		fieldSet := make(map[string]struct{})
		for _, row := range raw[name] {
			for field := range row {
				fieldSet[field] = struct{}{}
			}
		}
		fields := make([]string, 0, len(fieldSet))
		for field := range fieldSet {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			block.AddField(NewFieldInfo(field))
		}

		for _, row := range raw[name] {
			block.AddRow(row)
		}
		doc.Add(block)
	}
	return doc, nil
}
