package ison

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalValueJSON(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"null", Null{}, `null`},
		{"bool", Bool(true), `true`},
		{"int", Int(-42), `-42`},
		{"float", Float(1.5), `1.5`},
		{"string", String("hi"), `"hi"`},
		{"simple ref", Reference{ID: "7"}, `{"$ref":"7"}`},
		{"typed ref", Reference{ID: "101", RefType: "user"}, `{"$ref":"101","$type":"user"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalValueJSON(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestUnmarshalValueJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"null", `null`, Null{}},
		{"bool", `false`, Bool(false)},
		{"int", `42`, Int(42)},
		{"negative int", `-7`, Int(-7)},
		{"float", `1.5`, Float(1.5)},
		{"float with point", `1.0`, Float(1)},
		{"string", `"hi"`, String("hi")},
		{"keyword string stays string", `"true"`, String("true")},
		{"simple ref", `{"$ref":"7"}`, Reference{ID: "7"}},
		{"typed ref", `{"$ref":"101","$type":"user"}`, Reference{ID: "101", RefType: "user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := UnmarshalValueJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestUnmarshalValueJSONRejectsNonScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1,2]`},
		{"plain object", `{"id":"x"}`},
		{"reference with extra field", `{"$ref":"x","extra":1}`},
		{"empty object", `{}`},
		{"type without ref", `{"$type":"user"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalValueJSON([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestRowMarshalSortedKeys(t *testing.T) {
	row := Row{"zebra": Int(1), "apple": Int(2), "mango": Int(3)}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mango":3,"zebra":1}`, string(data))
}

func TestRowJSONRoundTrip(t *testing.T) {
	row := Row{
		"n":   Null{},
		"b":   Bool(true),
		"i":   Int(7),
		"f":   Float(2.5),
		"s":   String("Bob Smith"),
		"ref": Reference{ID: "10", RefType: "MEMBER_OF"},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var decoded Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, row, decoded)
}

func TestDocumentToJSON(t *testing.T) {
	doc, err := Parse(`table.users
id name
1 Alice

table.empty
a
`)
	require.NoError(t, err)

	out, err := doc.ToJSON(false)
	require.NoError(t, err)
	assert.Equal(t, `{"empty":[],"users":[{"id":1,"name":"Alice"}]}`, out)
}

func TestDocumentToJSONPretty(t *testing.T) {
	doc, err := Parse("table.x\na\n1\n")
	require.NoError(t, err)

	out, err := doc.ToJSON(true)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"x\": [\n    {\n      \"a\": 1\n    }\n  ]\n}", out)
}

func TestDocumentToJSONDropsSummaryRows(t *testing.T) {
	doc, err := Parse("stats.s\na\n1\n---\n2\n")
	require.NoError(t, err)

	out, err := doc.ToJSON(false)
	require.NoError(t, err)
	assert.Equal(t, `{"s":[{"a":1}]}`, out)
}

func TestDocumentToJSONDuplicateNamesLastWins(t *testing.T) {
	doc, err := Parse(`table.x
a
1

view.x
a
2
`)
	require.NoError(t, err)

	out, err := doc.ToJSON(false)
	require.NoError(t, err)
	assert.Equal(t, `{"x":[{"a":2}]}`, out)
}

func TestFromJSON(t *testing.T) {
	text := `{"users":[{"id":1,"name":"Alice","ok":true},{"id":2,"score":1.5,"boss":{"$ref":"9","$type":"user"}}],"empty":[]}`

	doc, err := FromJSON("table", text)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	// Blocks sort by name; fields are the sorted union of row keys.
	assert.Equal(t, "empty", doc.Blocks[0].Name)
	assert.Equal(t, "table", doc.Blocks[0].Kind)
	assert.Empty(t, doc.Blocks[0].Fields)

	users := doc.Blocks[1]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, []string{"boss", "id", "name", "ok", "score"}, users.Fields)

	require.Equal(t, 2, users.Len())
	assert.Equal(t, Row{"id": Int(1), "name": String("Alice"), "ok": Bool(true)}, users.Rows[0])
	assert.Equal(t, Row{"id": Int(2), "score": Float(1.5), "boss": Reference{ID: "9", RefType: "user"}}, users.Rows[1])
}

func TestFromJSONRejectsNestedValues(t *testing.T) {
	_, err := FromJSON("table", `{"users":[{"tags":[1,2]}]}`)
	require.Error(t, err)

	_, err = FromJSON("table", `{"users":[{"meta":{"deep":1}}]}`)
	require.Error(t, err)

	_, err = FromJSON("table", `not json`)
	require.Error(t, err)
}

func TestToJSONFromJSONRoundTrip(t *testing.T) {
	doc, err := Parse(`table.users
id name active
1 Alice true
2 "Bob Smith" false
`)
	require.NoError(t, err)

	text, err := doc.ToJSON(false)
	require.NoError(t, err)

	back, err := FromJSON("table", text)
	require.NoError(t, err)

	require.Len(t, back.Blocks, 1)
	assert.Equal(t, doc.Blocks[0].Fields, []string{"id", "name", "active"})
	assert.Equal(t, []string{"active", "id", "name"}, back.Blocks[0].Fields)
	assert.Equal(t, doc.Blocks[0].Rows, back.Blocks[0].Rows)
}