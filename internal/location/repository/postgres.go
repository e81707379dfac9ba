package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const locationColumns = `id, parent_id, name, name_ru, name_uz, kind`

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1 LIMIT 1`
	if err := r.DB.GetContext(ctx, &loc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) FindChildren(ctx context.Context, parentID *string) ([]model.Location, error) {
	locations := []model.Location{}
	var err error
	if parentID == nil {
		query := `SELECT ` + locationColumns + ` FROM locations WHERE parent_id IS NULL ORDER BY name ASC`
		err = r.DB.SelectContext(ctx, &locations, query)
	} else {
		query := `SELECT ` + locationColumns + ` FROM locations WHERE parent_id = $1 ORDER BY name ASC`
		err = r.DB.SelectContext(ctx, &locations, query, *parentID)
	}
	if err != nil {
		return nil, err
	}
	return locations, nil
}
