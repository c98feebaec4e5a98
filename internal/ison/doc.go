// Package ison implements the ISON document model and its text codec.
//
// ISON is a compact, line-oriented tabular serialization format. A document
// is a sequence of blocks; each block is a "kind.name" header, one
// field-definition line, data rows, and an optional "---"-separated summary
// section. Tokens are whitespace-delimited, quoting makes whitespace and
// keyword collisions safe, and untyped tokens are classified by a fixed
// precedence into null, bool, int, float, string, or reference values.
//
// The package is the foundational layer: every other internal package
// imports ison; ison imports nothing internal. Parsing and serialization
// operate purely on in-memory strings and share no state between calls.
//
// Key properties:
//   - Value is a closed six-kind sum; consumers switch exhaustively
//   - Row order and block order survive parse -> serialize -> parse
//   - Serialization is total; parsing fails fast on the first error
package ison
