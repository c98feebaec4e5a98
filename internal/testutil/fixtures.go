package testutil

import (
	"testing"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// SampleText returns a small two-block document exercising every value
// kind: null, bool, int, float, bare and quoted strings, and typed and
// untyped references. The users block carries a summary row.
func SampleText() string {
	return `table.users
id:int name        active score team:ref
1      Alice       true   9.5   :teams:7
2      "Bob Smith" false  7.25  :8
---
2      totals      null   16.75 null

table.teams
id:int name
7      Core
8      Support`
}

// MustParse parses ISON text, failing the test on error.
func MustParse(t *testing.T, text string) *ison.Document {
	t.Helper()
	doc, err := ison.Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}
