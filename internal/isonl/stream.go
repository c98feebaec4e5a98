package isonl

import (
	"bufio"
	"io"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// maxLineBytes caps how long a single ISONL line may grow when streaming.
const maxLineBytes = 1 << 20

// Record is one decoded ISONL line: the block it belongs to, the row it
// carries, and the 1-based line it came from. Fields are the declarations
// from the block's first line, which every later row for that block zips
// against.
type Record struct {
	Kind   string
	Name   string
	Fields []ison.FieldInfo
	Row    ison.Row
	Line   int
}

// Decoder reads ISONL records from a stream one line at a time without
// materializing a whole document. Field definitions are remembered per
// block key, so interleaved blocks decode exactly as Decode would.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
	fields  map[string][]ison.FieldInfo
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Decoder{
		scanner: scanner,
		fields:  make(map[string][]ison.FieldInfo),
	}
}

// Next returns the next record, or io.EOF when the stream ends. Blank lines
// and comment lines are skipped but still counted for line numbering.
func (d *Decoder) Next() (*Record, error) {
	for d.scanner.Scan() {
		d.line++
		rec, err := decodeLine(d.scanner.Text(), d.line)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}

		key := rec.kind + "." + rec.name
		fields, ok := d.fields[key]
		if !ok {
			fields = rec.fields
			d.fields[key] = fields
		}

		row := make(ison.Row, len(fields))
		for i, fi := range fields {
			if i >= len(rec.values) {
				break
			}
			row[fi.Name] = rec.values[i]
		}

		return &Record{
			Kind:   rec.kind,
			Name:   rec.name,
			Fields: fields,
			Row:    row,
			Line:   d.line,
		}, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Encoder writes ISONL to a stream, one newline-terminated line per data
// row.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodeBlock writes one line per data row of the block. Summary rows are
// dropped.
func (e *Encoder) EncodeBlock(block *ison.Block) error {
	for _, line := range blockLines(block) {
		if _, err := io.WriteString(e.w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// EncodeDocument writes every block of the document in order.
func (e *Encoder) EncodeDocument(doc *ison.Document) error {
	for _, block := range doc.Blocks {
		if err := e.EncodeBlock(block); err != nil {
			return err
		}
	}
	return nil
}
