package store

import (
	"context"
	"fmt"

	"github.com/maheshvaikri-code/ison/internal/ison"
)

// FindRows returns the data rows of the named block whose field equals the
// given value. Matching happens in SQL: scalar values compare against
// json_extract of the stored row, references join against the refs table.
// A null value matches rows that omit the field as well as rows carrying an
// explicit null, the same equivalence the serializer applies.
func (s *Store) FindRows(ctx context.Context, block, field string, value ison.Value) ([]ison.Row, error) {
	if ref, ok := value.(ison.Reference); ok {
		return s.findRowsByRef(ctx, block, field, ref)
	}

	param, err := valueToParam(value)
	if err != nil {
		return nil, fmt.Errorf("find rows: %w", err)
	}

	// json_extract returns SQL NULL both for a JSON null and for a missing
	// key, which is the null-equals-missing reading we want; it does force
	// an IS NULL predicate since NULL never compares equal.
	if param == nil {
		return s.queryRows(ctx, `
			SELECT r.data
			FROM block_rows r
			JOIN blocks b ON r.block_id = b.id
			WHERE b.name = ? AND r.summary = 0
			  AND json_extract(r.data, '$.' || ?) IS NULL
			ORDER BY r.position ASC, r.id COLLATE BINARY ASC
		`, block, field)
	}

	return s.queryRows(ctx, `
		SELECT r.data
		FROM block_rows r
		JOIN blocks b ON r.block_id = b.id
		WHERE b.name = ? AND r.summary = 0
		  AND json_extract(r.data, '$.' || ?) = ?
		ORDER BY r.position ASC, r.id COLLATE BINARY ASC
	`, block, field, param)
}

// findRowsByRef matches reference values against the lifted edge table
// rather than the row JSON, so typed and untyped references to the same ID
// never collide. Only data rows have edges, which keeps summary rows out
// without an extra predicate.
func (s *Store) findRowsByRef(ctx context.Context, block, field string, ref ison.Reference) ([]ison.Row, error) {
	return s.queryRows(ctx, `
		SELECT r.data
		FROM block_rows r
		JOIN blocks b ON r.block_id = b.id
		JOIN refs e ON e.row_id = r.id
		WHERE b.name = ? AND e.field = ? AND e.target_id = ? AND e.ref_type = ?
		ORDER BY r.position ASC, r.id COLLATE BINARY ASC
	`, block, field, ref.ID, ref.RefType)
}
