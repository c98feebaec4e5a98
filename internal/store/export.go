package store

import (
	"context"
	"fmt"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

type blockMeta struct {
	id   string
	kind string
	name string
}

// ExportDocument rebuilds a document from everything in the store. Blocks
// come back in stored position order with kind.name as the deterministic
// tiebreak, rows in position order within each block.
func (s *Store) ExportDocument(ctx context.Context) (*ison.Document, error) {
	metas, err := s.listBlocks(ctx)
	if err != nil {
		return nil, err
	}

	doc := ison.NewDocument()
	for _, m := range metas {
		block, err := s.exportBlock(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("export block %s.%s: %w", m.kind, m.name, err)
		}
		doc.Add(block)
	}

	return doc, nil
}

// ExportBlock rebuilds the named block. When two kinds share a name the
// earliest stored block wins, matching Document.Get. Returns sql.ErrNoRows
// when the store has no such block.
func (s *Store) ExportBlock(ctx context.Context, name string) (*ison.Block, error) {
	m := blockMeta{name: name}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind
		FROM blocks
		WHERE name = ?
		ORDER BY position ASC, kind COLLATE BINARY ASC
		LIMIT 1
	`, name).Scan(&m.id, &m.kind)
	if err != nil {
		return nil, err
	}
	return s.exportBlock(ctx, m)
}

// ExportRefs renders the stored reference edges as a single table.refs
// block with source, field, target, and type columns. Source points at the
// owning row by its store ID, target rebuilds the referenced ID, and type
// carries the reference qualifier or null when the reference was untyped.
// Rows come back ordered by source block position, row position, then
// field name.
func (s *Store) ExportRefs(ctx context.Context) (*ison.Block, error) {
	block := ison.NewBlock("table", "refs")
	block.AddField(ison.TypedFieldInfo("source", "ref"))
	block.AddField(ison.NewFieldInfo("field"))
	block.AddField(ison.TypedFieldInfo("target", "ref"))
	block.AddField(ison.NewFieldInfo("type"))

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.row_id, e.field, e.target_id, e.ref_type
		FROM refs e
		JOIN block_rows r ON e.row_id = r.id
		JOIN blocks b ON r.block_id = b.id
		ORDER BY b.position ASC, r.position ASC, e.field COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query refs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowID, field, targetID, refType string
		if err := rows.Scan(&rowID, &field, &targetID, &refType); err != nil {
			return nil, fmt.Errorf("scan ref: %w", err)
		}
		row := ison.Row{
			"source": ison.NewReference(rowID),
			"field":  ison.String(field),
			"target": ison.NewReference(targetID),
		}
		if refType != "" {
			row["type"] = ison.String(refType)
		} else {
			row["type"] = ison.Null{}
		}
		block.AddRow(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refs: %w", err)
	}

	return block, nil
}

// listBlocks returns block identities in stored document order. The result
// is fully materialized before any per-block query runs: the pool holds a
// single connection, so a nested query under an open rows would deadlock.
func (s *Store) listBlocks(ctx context.Context) ([]blockMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, name
		FROM blocks
		ORDER BY position ASC, kind COLLATE BINARY ASC, name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer rows.Close()

	var metas []blockMeta
	for rows.Next() {
		var m blockMeta
		if err := rows.Scan(&m.id, &m.kind, &m.name); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return metas, nil
}

// exportBlock rebuilds one block through the same constructors the parser
// uses, so an exported block is indistinguishable from a parsed one.
func (s *Store) exportBlock(ctx context.Context, m blockMeta) (*ison.Block, error) {
	block := ison.NewBlock(m.kind, m.name)

	fields, err := s.exportFields(ctx, m.id)
	if err != nil {
		return nil, err
	}
	for _, fi := range fields {
		block.AddField(fi)
	}

	dataRows, err := s.exportRows(ctx, m.id, false)
	if err != nil {
		return nil, err
	}
	for _, row := range dataRows {
		block.AddRow(row)
	}

	summaryRows, err := s.exportRows(ctx, m.id, true)
	if err != nil {
		return nil, err
	}
	for _, row := range summaryRows {
		block.AddSummaryRow(row)
	}

	return block, nil
}

// exportFields returns a block's field declarations in declared order.
func (s *Store) exportFields(ctx context.Context, blockID string) ([]ison.FieldInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, field_type
		FROM block_fields
		WHERE block_id = ?
		ORDER BY position ASC
	`, blockID)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	var fields []ison.FieldInfo
	for rows.Next() {
		var name, fieldType string
		if err := rows.Scan(&name, &fieldType); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		if fieldType == "" {
			fields = append(fields, ison.NewFieldInfo(name))
		} else {
			fields = append(fields, ison.TypedFieldInfo(name, fieldType))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fields: %w", err)
	}
	return fields, nil
}

// exportRows returns one class of a block's rows in position order.
func (s *Store) exportRows(ctx context.Context, blockID string, summary bool) ([]ison.Row, error) {
	return s.queryRows(ctx, `
		SELECT data
		FROM block_rows
		WHERE block_id = ? AND summary = ?
		ORDER BY position ASC, id COLLATE BINARY ASC
	`, blockID, summary)
}

// queryRows runs a query whose single result column is row JSON and decodes
// each row.
func (s *Store) queryRows(ctx context.Context, query string, args ...any) ([]ison.Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []ison.Row
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row, err := unmarshalRow(data)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
