package repository

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const attributeColumns = `id, category_id, key, type, label, label_ru, label_uz, options, is_required`

func (r *PGRepository) FindByCategoryIDs(ctx context.Context, categoryIDs []string) ([]model.Attribute, error) {
	if len(categoryIDs) == 0 {
		return []model.Attribute{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT `+attributeColumns+`
        FROM attributes
        WHERE category_id IN (?)
        ORDER BY key ASC, id ASC
    `, categoryIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var attrs []model.Attribute
	if err := r.DB.SelectContext(ctx, &attrs, query, args...); err != nil {
		return nil, err
	}

	// Rows with a type tag this build cannot coerce are not part of any schema.
	known := attrs[:0]
	for _, a := range attrs {
		if a.Type.Valid() {
			known = append(known, a)
		}
	}
	return known, nil
}
