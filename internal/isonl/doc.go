// Package isonl implements the ISONL codec: a streaming, one-record-per-line
// encoding of the ISON data model.
//
// Each line frames a complete record:
//
//	kind.name|field defs|values
//
// The header and field definitions repeat on every line, so any line can be
// understood alone; blocks reassemble by accumulating lines that share a
// "kind.name" key, in first-appearance order. The trade-off is lossiness:
// summary rows, blocks without data rows, and column alignment have no ISONL
// form.
//
// Decode and Encode convert whole strings. Decoder and Encoder stream over
// io.Reader/io.Writer. DecodeParallel spreads line classification across a
// worker pool while producing the exact Document Decode would.
package isonl
