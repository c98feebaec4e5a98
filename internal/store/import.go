package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// idNamespace is the fixed UUID namespace for content-derived IDs.
var idNamespace = uuid.MustParse("9cdd48cc-2f8e-4a64-91e9-6c8a3b87f5d2")

// blockID derives the deterministic ID of a block from its kind.name
// identity. Content is NFC-normalized first so visually identical headers
// hash the same regardless of source encoding.
func blockID(kind, name string) string {
	key := norm.NFC.String(kind + "." + name)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// rowID derives the deterministic ID of a row from its owning block, its
// class and position, and its canonical JSON content. Position is part of
// the identity so identical rows at different positions stay distinct.
func rowID(blockID string, summary bool, position int, data string) string {
	class := "data"
	if summary {
		class = "summary"
	}
	key := norm.NFC.String(fmt.Sprintf("%s/%s/%d/%s", blockID, class, position, data))
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// ImportStats reports what an import actually wrote. Skipped counts come
// from ON CONFLICT DO NOTHING no-ops; re-importing the same document
// reports everything skipped.
type ImportStats struct {
	BlocksInserted int
	BlocksSkipped  int
	RowsInserted   int
	RowsSkipped    int
	RefsInserted   int
}

// ImportDocument writes a parsed document into the store inside a single
// transaction. All IDs are deterministic and every insert is ON CONFLICT DO
// NOTHING, so importing the same document twice changes nothing and the
// second import reports only skips.
func (s *Store) ImportDocument(ctx context.Context, doc *ison.Document) (*ImportStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("import document: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stats := &ImportStats{}
	for position, block := range doc.Blocks {
		if err := importBlock(ctx, tx, block, position, stats); err != nil {
			return nil, fmt.Errorf("import document: block %s.%s: %w", block.Kind, block.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("import document: commit: %w", err)
	}

	return stats, nil
}

// importBlock writes one block header, its field declarations, and its rows.
// A block that already exists (same kind.name) keeps its original position
// and field declarations; only genuinely new rows are added.
func importBlock(ctx context.Context, tx *sql.Tx, block *ison.Block, position int, stats *ImportStats) error {
	id := blockID(block.Kind, block.Name)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO blocks (id, kind, name, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, name) DO NOTHING
	`, id, block.Kind, block.Name, position)
	if err != nil {
		return fmt.Errorf("insert block: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert block: rows affected: %w", err)
	}
	if affected > 0 {
		stats.BlocksInserted++
	} else {
		stats.BlocksSkipped++
	}

	for i, fi := range block.FieldInfo {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO block_fields (block_id, position, name, field_type)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(block_id, position) DO NOTHING
		`, id, i, fi.Name, fi.FieldType)
		if err != nil {
			return fmt.Errorf("insert field %s: %w", fi.Name, err)
		}
	}

	for i, row := range block.Rows {
		if err := importRow(ctx, tx, block, id, i, false, row, stats); err != nil {
			return err
		}
	}
	for i, row := range block.SummaryRows {
		if err := importRow(ctx, tx, block, id, i, true, row, stats); err != nil {
			return err
		}
	}

	return nil
}

// importRow writes one row and, when the row is new, lifts its reference
// values into the refs table. Only data rows contribute edges; summary rows
// are aggregates, not records.
//
// The bare ON CONFLICT DO NOTHING covers both conflict paths: a duplicate
// row ID (same content re-imported) and a different row at an occupied
// position (first write wins).
func importRow(ctx context.Context, tx *sql.Tx, block *ison.Block, blockID string, position int, summary bool, row ison.Row, stats *ImportStats) error {
	data, err := marshalRow(row)
	if err != nil {
		return fmt.Errorf("row %d: %w", position, err)
	}
	id := rowID(blockID, summary, position, data)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO block_rows (id, block_id, position, summary, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, id, blockID, position, summary, data)
	if err != nil {
		return fmt.Errorf("insert row %d: %w", position, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert row %d: rows affected: %w", position, err)
	}
	if affected == 0 {
		stats.RowsSkipped++
		return nil
	}
	stats.RowsInserted++

	if summary {
		return nil
	}

	// Lift references in declared field order so edge IDs are assigned
	// deterministically.
	for _, field := range block.Fields {
		ref, ok := row[field].(ison.Reference)
		if !ok {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO refs (row_id, field, target_id, ref_type, relationship)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(row_id, field) DO NOTHING
		`, id, field, ref.ID, ref.RefType, ref.IsRelationship())
		if err != nil {
			return fmt.Errorf("insert ref %s: %w", field, err)
		}
		stats.RefsInserted++
	}

	return nil
}
