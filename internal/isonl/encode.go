package isonl

import (
	"strings"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// Encode renders a document as ISONL, one line per data row, joined with
// "\n". Summary rows and blocks without data rows produce no lines.
func Encode(doc *ison.Document) string {
	var lines []string
	for _, block := range doc.Blocks {
		lines = append(lines, blockLines(block)...)
	}
	return strings.Join(lines, "\n")
}

// blockLines renders one self-describing line per data row of the block.
func blockLines(block *ison.Block) []string {
	header := block.Kind + "." + block.Name

	defs := make([]string, len(block.FieldInfo))
	for i, fi := range block.FieldInfo {
		defs[i] = fi.Def()
	}
	fieldDefs := strings.Join(defs, " ")

	lines := make([]string, 0, len(block.Rows))
	for _, row := range block.Rows {
		values := make([]string, len(block.Fields))
		for i, field := range block.Fields {
			value, ok := row[field]
			if !ok {
				value = ison.Null{}
			}
			values[i] = ison.RenderValue(value)
		}
		lines = append(lines, header+"|"+fieldDefs+"|"+strings.Join(values, " "))
	}
	return lines
}

// FromISON converts ISON text to ISONL text.
func FromISON(text string) (string, error) {
	doc, err := ison.Parse(text)
	if err != nil {
		return "", err
	}
	return Encode(doc), nil
}

// ToISON converts ISONL text to column-aligned ISON text.
func ToISON(text string) (string, error) {
	doc, err := Decode(text)
	if err != nil {
		return "", err
	}
	return ison.Serialize(doc, true), nil
}
