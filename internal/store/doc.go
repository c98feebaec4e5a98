// Package store provides SQLite-backed persistence for parsed documents.
//
// A document maps onto four tables:
//   - blocks: one record per kind.name block, in document order
//   - block_fields: ordered field declarations per block
//   - block_rows: data and summary rows, content stored as canonical JSON
//   - refs: reference values lifted out of rows as queryable edges
//
// # Identity
//
// Block and row IDs are deterministic UUIDs derived from NFC-normalized
// content, and every insert is ON CONFLICT DO NOTHING, so importing the
// same document twice is a no-op. A row's position is part of its identity:
// two identical rows at different positions stay distinct records.
//
// # Determinism
//
// Export queries order by stored position with COLLATE BINARY tiebreaks on
// text columns, so a round trip through the store reproduces the document
// exactly.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
