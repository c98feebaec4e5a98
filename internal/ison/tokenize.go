package ison

import "strings"

// Token is one raw token from a line. Quoted records whether the text came
// from a quoted literal: a quoted token always classifies as a string, which
// is what makes quoting an effective escape hatch for text that would
// otherwise read as a keyword, number, or reference.
type Token struct {
	Text   string
	Quoted bool
}

// TokenizeLine splits one logical line into raw tokens. An unquoted # starts
// a comment running to the end of the line; a quoted token may contain
// whitespace and escape sequences; an unquoted token is a maximal run of
// non-blank characters. Blank and comment-only lines yield zero tokens.
func TokenizeLine(line string) []Token {
	chars := []rune(stripComment(line))

	var tokens []Token
	i := 0
	for i < len(chars) {
		for i < len(chars) && (chars[i] == ' ' || chars[i] == '\t') {
			i++
		}
		if i >= len(chars) {
			break
		}
		if chars[i] == '"' {
			text, next := scanQuoted(chars, i)
			tokens = append(tokens, Token{Text: text, Quoted: true})
			i = next
			continue
		}
		start := i
		for i < len(chars) && chars[i] != ' ' && chars[i] != '\t' {
			i++
		}
		tokens = append(tokens, Token{Text: string(chars[start:i])})
	}
	return tokens
}

// stripComment truncates the line at the first # outside a quoted region.
// Quote state toggles on every " whose preceding character is not a
// backslash.
func stripComment(line string) string {
	chars := []rune(line)
	inQuote := false
	for i, c := range chars {
		switch {
		case c == '"' && (i == 0 || chars[i-1] != '\\'):
			inQuote = !inQuote
		case c == '#' && !inQuote:
			return string(chars[:i])
		}
	}
	return line
}

// scanQuoted consumes a quoted token starting at the opening quote and
// returns the decoded text plus the index one past the closing quote.
// A backslash before any unrecognized character drops the backslash; a
// trailing backslash is literal; a missing closing quote returns whatever
// accumulated rather than failing.
func scanQuoted(chars []rune, start int) (string, int) {
	var b strings.Builder
	i := start + 1
	for i < len(chars) {
		switch chars[i] {
		case '\\':
			if i+1 >= len(chars) {
				b.WriteByte('\\')
				i++
				continue
			}
			switch next := chars[i+1]; next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteRune(next)
			}
			i += 2
		case '"':
			return b.String(), i + 1
		default:
			b.WriteRune(chars[i])
			i++
		}
	}
	return b.String(), i
}
