package ison

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse converts ISON text into a Document. Blocks are appended in
// encounter order. The first malformed header or reference aborts with a
// line-numbered error; no partial document is returned.
func Parse(text string) (*Document, error) {
	p := &parser{text: text, line: 1}
	return p.parse()
}

// parser is a single-pass cursor over an immutable input buffer. line is
// the 1-based number of the line the cursor currently sits on.
type parser struct {
	text string
	pos  int
	line int
}

func (p *parser) parse() (*Document, error) {
	doc := NewDocument()

	p.skipBlankAndComments()
	for p.pos < len(p.text) {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if block != nil {
			doc.Add(block)
		}
		p.skipBlankAndComments()
	}
	return doc, nil
}

// parseBlock consumes one header line, one field-definition line, and the
// row region that follows. Returns nil without error when the cursor was on
// a blank or comment line.
func (p *parser) parseBlock() (*Block, error) {
	headerLine := p.line
	header, ok := p.readLine()
	if !ok {
		return nil, nil
	}
	if header == "" || strings.HasPrefix(header, "#") {
		return nil, nil
	}

	kindPart, namePart, found := strings.Cut(header, ".")
	if !found {
		return nil, newErrorf(headerLine, "Invalid block header: %s", header)
	}
	kind := strings.TrimSpace(kindPart)
	name := strings.TrimSpace(namePart)
	if kind == "" || name == "" {
		return nil, newErrorf(headerLine, "Invalid block header: %s", header)
	}

	block := NewBlock(kind, name)

	p.skipBlankAndComments()
	fieldsLine, ok := p.readLine()
	if !ok {
		return block, nil
	}
	for _, token := range TokenizeLine(fieldsLine) {
		block.AddField(ParseFieldDef(token.Text))
	}

	inSummary := false
	for p.pos < len(p.text) {
		line, ok := p.peekLine()
		if !ok {
			break
		}
		// A blank line or something shaped like the next header ends the
		// row region without being consumed.
		if line == "" || looksLikeHeader(line) {
			break
		}

		rowLine := p.line
		p.readLine()

		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "---" {
			inSummary = true
			continue
		}

		tokens := TokenizeLine(line)
		if len(tokens) == 0 {
			break
		}

		// Zip tokens against declared fields: extra tokens are ignored,
		// missing trailing fields stay absent from the row.
		row := make(Row, len(block.Fields))
		for i, field := range block.Fields {
			if i >= len(tokens) {
				break
			}
			value, err := ParseValue(tokens[i], rowLine)
			if err != nil {
				return nil, err
			}
			row[field] = value
		}

		if inSummary {
			block.AddSummaryRow(row)
		} else {
			block.AddRow(row)
		}
	}

	return block, nil
}

// looksLikeHeader is the block-boundary heuristic: a line whose first
// character is a letter and which contains a "." reads as the next block's
// header. A data row whose first token happens to match is cut off early;
// this is a documented limitation of the format, kept for compatibility.
func looksLikeHeader(line string) bool {
	if line == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLetter(first) && strings.ContainsRune(line, '.')
}

// readLine consumes the current line and returns it trimmed. The second
// result is false at end of input.
func (p *parser) readLine() (string, bool) {
	if p.pos >= len(p.text) {
		return "", false
	}
	start := p.pos
	for p.pos < len(p.text) && p.text[p.pos] != '\n' {
		p.pos++
	}
	line := strings.TrimSpace(p.text[start:p.pos])
	if p.pos < len(p.text) {
		p.pos++ // consume the newline
	}
	p.line++
	return line, true
}

// peekLine returns the next line, trimmed, without moving the cursor.
func (p *parser) peekLine() (string, bool) {
	if p.pos >= len(p.text) {
		return "", false
	}
	end := p.pos
	for end < len(p.text) && p.text[end] != '\n' {
		end++
	}
	return strings.TrimSpace(p.text[p.pos:end]), true
}

// skipBlankAndComments advances past whitespace, blank lines, and full-line
// comments.
func (p *parser) skipBlankAndComments() {
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case ' ', '\t', '\r':
			p.pos++
		case '\n':
			p.pos++
			p.line++
		case '#':
			for p.pos < len(p.text) && p.text[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}
