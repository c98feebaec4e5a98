package ison

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Serialize renders a document as ISON text. Blocks are separated by one
// blank line and there is no trailing newline. When alignColumns is set,
// every cell except the last in each row is padded to the widest cell of
// its column; field definitions are never padded. Serialization is total.
func Serialize(doc *Document, alignColumns bool) string {
	parts := make([]string, 0, len(doc.Blocks))
	for _, block := range doc.Blocks {
		parts = append(parts, serializeBlock(block, alignColumns))
	}
	return strings.Join(parts, "\n\n")
}

func serializeBlock(block *Block, align bool) string {
	lines := []string{block.Kind + "." + block.Name}

	defs := make([]string, len(block.FieldInfo))
	for i, info := range block.FieldInfo {
		defs[i] = info.Def()
	}
	lines = append(lines, strings.Join(defs, " "))

	var widths []int
	if align {
		widths = columnWidths(block)
	}

	for _, row := range block.Rows {
		lines = append(lines, serializeRow(row, block.Fields, widths))
	}
	if len(block.SummaryRows) > 0 {
		lines = append(lines, "---")
		for _, row := range block.SummaryRows {
			lines = append(lines, serializeRow(row, block.Fields, widths))
		}
	}

	return strings.Join(lines, "\n")
}

// columnWidths measures the widest rendered cell per column across data and
// summary rows. Widths are seeded with the field names so a column is never
// narrower than its heading. Absent values contribute nothing.
func columnWidths(block *Block) []int {
	widths := make([]int, len(block.Fields))
	for i, field := range block.Fields {
		widths[i] = displayWidth(field)
	}
	measure := func(rows []Row) {
		for _, row := range rows {
			for i, field := range block.Fields {
				value, ok := row[field]
				if !ok {
					continue
				}
				if w := displayWidth(RenderValue(value)); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	measure(block.Rows)
	measure(block.SummaryRows)
	return widths
}

// serializeRow renders one row in field order. Fields absent from the row
// render as null. The last column is never padded.
func serializeRow(row Row, fields []string, widths []int) string {
	cells := make([]string, len(fields))
	for i, field := range fields {
		value, ok := row[field]
		if !ok {
			value = Null{}
		}
		cell := RenderValue(value)
		if widths != nil && i < len(fields)-1 {
			if pad := widths[i] - displayWidth(cell); pad > 0 {
				cell += strings.Repeat(" ", pad)
			}
		}
		cells[i] = cell
	}
	return strings.Join(cells, " ")
}

// RenderValue renders a single value in its token form. Strings are quoted
// only when the bare text would read back as something else.
func RenderValue(v Value) string {
	switch val := v.(type) {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return formatFloat(float64(val))
	case String:
		return renderString(string(val))
	case Reference:
		return val.String()
	default:
		panic(fmt.Sprintf("unknown Value type: %T", v))
	}
}

// escaper rewrites the characters that cannot appear raw inside a quoted
// token.
var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func renderString(s string) string {
	if !needsQuoting(s) {
		return s
	}
	return `"` + escaper.Replace(s) + `"`
}

// needsQuoting reports whether a bare rendering of s would not survive a
// reparse: text that breaks tokenization (whitespace, quotes, backslashes,
// comment markers), reads back as a non-string value (keywords, the ~ null
// form, references, numbers), or vanishes outright (the empty string).
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	if strings.ContainsAny(s, " \t\n\"\\#") {
		return true
	}
	switch s {
	case "true", "false", "null", "~":
		return true
	}
	if strings.HasPrefix(s, ":") {
		return true
	}
	_, isNumber := parseFloat(s)
	return isNumber
}

// displayWidth counts terminal cells rather than bytes so wide East Asian
// glyphs do not skew column alignment.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
