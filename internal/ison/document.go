package ison

import "strings"

// FieldInfo describes one declared field: its name and optional type
// annotation. IsComputed marks the reserved "computed" annotation; it is
// set by the constructors, never directly.
type FieldInfo struct {
	Name       string
	FieldType  string
	IsComputed bool
}

// NewFieldInfo creates a typeless field declaration.
func NewFieldInfo(name string) FieldInfo {
	return FieldInfo{Name: name}
}

// TypedFieldInfo creates a field declaration with a type annotation.
func TypedFieldInfo(name, fieldType string) FieldInfo {
	return FieldInfo{
		Name:       name,
		FieldType:  fieldType,
		IsComputed: fieldType == "computed",
	}
}

// ParseFieldDef interprets a field-definition token: text before the first
// ":" is the field name, text after is its declared type; a token without
// ":" declares a typeless field.
func ParseFieldDef(token string) FieldInfo {
	if name, fieldType, ok := strings.Cut(token, ":"); ok {
		return TypedFieldInfo(name, fieldType)
	}
	return NewFieldInfo(token)
}

// Def renders the field-definition form, "name" or "name:type".
func (fi FieldInfo) Def() string {
	if fi.FieldType == "" {
		return fi.Name
	}
	return fi.Name + ":" + fi.FieldType
}

// Row maps field names to values. Iteration order carries no meaning;
// serialization order comes from the owning block's Fields. A row may omit
// declared fields; omissions serialize as null.
type Row map[string]Value

// Block is one named table: its kind.name identity, ordered field
// declarations, data rows, and summary rows. Fields and FieldInfo stay in
// lockstep; use AddField rather than appending to either directly.
type Block struct {
	Kind        string
	Name        string
	Fields      []string
	FieldInfo   []FieldInfo
	Rows        []Row
	SummaryRows []Row
}

// NewBlock creates an empty block.
func NewBlock(kind, name string) *Block {
	return &Block{Kind: kind, Name: name}
}

// AddField appends a field declaration, keeping Fields and FieldInfo in
// lockstep.
func (b *Block) AddField(fi FieldInfo) {
	b.Fields = append(b.Fields, fi.Name)
	b.FieldInfo = append(b.FieldInfo, fi)
}

// AddRow appends a data row.
func (b *Block) AddRow(row Row) {
	b.Rows = append(b.Rows, row)
}

// AddSummaryRow appends a summary row.
func (b *Block) AddSummaryRow(row Row) {
	b.SummaryRows = append(b.SummaryRows, row)
}

// Len returns the number of data rows.
func (b *Block) Len() int {
	return len(b.Rows)
}

// Row returns the data row at index i, or nil when out of range.
func (b *Block) Row(i int) Row {
	if i < 0 || i >= len(b.Rows) {
		return nil
	}
	return b.Rows[i]
}

// FieldType returns the declared type annotation of the named field.
func (b *Block) FieldType(name string) (string, bool) {
	for _, fi := range b.FieldInfo {
		if fi.Name == name {
			if fi.FieldType == "" {
				return "", false
			}
			return fi.FieldType, true
		}
	}
	return "", false
}

// ComputedFields lists fields declared with the computed annotation.
func (b *Block) ComputedFields() []string {
	var names []string
	for _, fi := range b.FieldInfo {
		if fi.IsComputed {
			names = append(names, fi.Name)
		}
	}
	return names
}

// Document is an ordered sequence of blocks. Name uniqueness is not
// enforced; Get returns the first match, and later blocks sharing a name
// stay reachable only through Blocks.
type Document struct {
	Blocks []*Block
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Get returns the first block named name, scanning in document order, or
// nil when no block matches.
func (d *Document) Get(name string) *Block {
	for _, b := range d.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Has reports whether any block is named name.
func (d *Document) Has(name string) bool {
	return d.Get(name) != nil
}

// Add appends a block.
func (d *Document) Add(b *Block) {
	d.Blocks = append(d.Blocks, b)
}
