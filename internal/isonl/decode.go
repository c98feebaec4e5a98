package isonl

import (
	"fmt"
	"strings"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// Decode parses ISONL text into a document. Lines sharing a "kind.name" key
// accumulate into one block even when they are not contiguous; blocks appear
// in first-line order. The first error aborts the decode.
func Decode(text string) (*ison.Document, error) {
	acc := newAccumulator()
	for i, line := range strings.Split(text, "\n") {
		rec, err := decodeLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		acc.add(rec)
	}
	return acc.doc, nil
}

// lineRecord is one classified ISONL line. Values stay positional here;
// accumulation zips them against the owning block's fields, which only the
// first line for that block defines.
type lineRecord struct {
	kind   string
	name   string
	fields []ison.FieldInfo
	values []ison.Value
}

// decodeLine classifies a single ISONL line. Blank lines and full-line
// comments yield a nil record. The frame is split on every "|" before any
// tokenization, so a pipe is never valid inside a value, quoted or not.
func decodeLine(line string, lineNum int) (*lineRecord, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return nil, ison.NewParseError(lineNum, fmt.Sprintf("Invalid ISONL line: %s", line))
	}

	header := parts[0]
	kind, name, found := strings.Cut(header, ".")
	kind = strings.TrimSpace(kind)
	name = strings.TrimSpace(name)
	if !found || kind == "" || name == "" {
		return nil, ison.NewParseError(lineNum, fmt.Sprintf("Invalid ISONL header: %s", header))
	}

	var fields []ison.FieldInfo
	for _, def := range strings.Fields(parts[1]) {
		fields = append(fields, ison.ParseFieldDef(def))
	}

	var values []ison.Value
	for _, tok := range ison.TokenizeLine(parts[2]) {
		v, err := ison.ParseValue(tok, lineNum)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return &lineRecord{kind: kind, name: name, fields: fields, values: values}, nil
}

// accumulator folds records into a document, keying blocks by "kind.name".
// Records beyond a block's first contribute only rows; their field
// definitions are discarded.
type accumulator struct {
	doc    *ison.Document
	blocks map[string]*ison.Block
}

func newAccumulator() *accumulator {
	return &accumulator{
		doc:    ison.NewDocument(),
		blocks: make(map[string]*ison.Block),
	}
}

func (a *accumulator) add(rec *lineRecord) {
	key := rec.kind + "." + rec.name
	block, ok := a.blocks[key]
	if !ok {
		block = ison.NewBlock(rec.kind, rec.name)
		for _, fi := range rec.fields {
			block.AddField(fi)
		}
		a.blocks[key] = block
		a.doc.Add(block)
	}

	row := make(ison.Row, len(block.Fields))
	for i, field := range block.Fields {
		if i >= len(rec.values) {
			break
		}
		row[field] = rec.values[i]
	}
	block.AddRow(row)
}
