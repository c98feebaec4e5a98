package store

import (
	"path/filepath"
	"testing"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// openTestStore opens a store backed by a throwaway database file.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustParse parses fixture text, failing the test on error.
func mustParse(t *testing.T, text string) *ison.Document {
	t.Helper()

	doc, err := ison.Parse(text)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return doc
}

// docText is the standing import fixture: two blocks, typed fields, a
// namespaced and an untyped reference, and a summary row.
const docText = `table.users
id:int name role team:ref
1 Alice admin :teams:7
2 "Bob Smith" user :8
---
2 totals null null

table.teams
id:int name
7 Core
8 Support`
