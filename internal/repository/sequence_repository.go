package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/numbering"
)

type sequenceSource struct {
	table        string
	numberColumn string
	prefix       string
}

var sequenceSources = map[model.DocumentKind]sequenceSource{
	model.DocumentFir:  {table: "firs", numberColumn: "fir_no", prefix: numbering.PrefixFir},
	model.DocumentCase: {table: "cases", numberColumn: "case_no", prefix: numbering.PrefixCase},
}

// Scope codes are uppercase letters, digits and dashes, so the LIKE pattern needs no escaping.
const nextSequenceSQL = `INSERT INTO document_sequences (kind, scope_code, year, last_value)
VALUES (?, ?, ?, (SELECT COALESCE(MAX(sequence), 0) + 1 FROM %s WHERE %s LIKE ?))
ON CONFLICT (kind, scope_code, year)
DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value`

// SequenceRepository hands out per-scope, per-year document sequence numbers.
type SequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next allocates the next number for the scope. It must run inside the transaction
// that inserts the document: the counter row stays locked until commit and a rollback
// returns the number. A missing counter row is seeded from the documents already
// numbered under the same prefix.
func (r *SequenceRepository) Next(ctx context.Context, scope model.DocumentScope) (int, error) {
	source, ok := sequenceSources[scope.Kind]
	if !ok {
		return 0, fmt.Errorf("unknown document kind %q", scope.Kind)
	}
	if scope.Code == "" {
		return 0, fmt.Errorf("%s sequence needs a scope code", scope.Kind)
	}

	query := fmt.Sprintf(nextSequenceSQL, source.table, source.numberColumn)
	pattern := numbering.ScopePrefix(source.prefix, scope.Code, scope.Year) + "%"
	var next int
	row := conn(ctx, r.db).Raw(query, scope.Kind, scope.Code, scope.Year, pattern).Row()
	if err := row.Scan(&next); err != nil {
		return 0, fmt.Errorf("allocate %s sequence: %w", scope.Kind, err)
	}
	return next, nil
}
