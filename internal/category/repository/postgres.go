package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const DefaultMaxDepth = 16

type PGRepository struct {
	DB       *sqlx.DB
	maxDepth int
}

func NewPGRepository(db *sqlx.DB, maxDepth int) *PGRepository {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &PGRepository{DB: db, maxDepth: maxDepth}
}

const categoryColumns = `id, parent_id, name, name_ru, name_uz, slug, icon, icon_image, is_leaf, sort_order`

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// FindChildren returns the direct children of parentID, or the roots when
// parentID is nil. Final ordering by localized name is done by the caller.
func (r *PGRepository) FindChildren(ctx context.Context, parentID *string) ([]model.Category, error) {
	categories := []model.Category{}
	var err error
	if parentID == nil {
		query := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id IS NULL ORDER BY sort_order ASC, name ASC`
		err = r.DB.SelectContext(ctx, &categories, query)
	} else {
		query := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = $1 ORDER BY sort_order ASC, name ASC`
		err = r.DB.SelectContext(ctx, &categories, query, *parentID)
	}
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order ASC, name ASC`
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

// FindAncestors walks parent links in SQL. The depth column caps the
// recursion, so a corrupted cycle still terminates.
func (r *PGRepository) FindAncestors(ctx context.Context, id string) ([]model.Category, error) {
	query := `
        WITH RECURSIVE chain AS (
            SELECT ` + categoryColumns + `, 0 AS depth
            FROM categories
            WHERE id = $1
            UNION ALL
            SELECT c.id, c.parent_id, c.name, c.name_ru, c.name_uz, c.slug, c.icon, c.icon_image, c.is_leaf, c.sort_order, chain.depth + 1
            FROM categories c
            JOIN chain ON c.id = chain.parent_id
            WHERE chain.depth < $2
        )
        SELECT ` + categoryColumns + ` FROM chain ORDER BY depth ASC
    `
	categories := []model.Category{}
	if err := r.DB.SelectContext(ctx, &categories, query, id, r.maxDepth); err != nil {
		return nil, err
	}
	return categories, nil
}
