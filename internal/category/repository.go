package category

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/model"
)

// Repository is the read-only category store. Lookups of missing ids return
// (nil, nil) or an empty slice rather than an error.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindChildren(ctx context.Context, parentID *string) ([]model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	// FindAncestors returns the category followed by its ancestors up to the
	// root. The walk is bounded by the configured maximum depth.
	FindAncestors(ctx context.Context, id string) ([]model.Category, error)
}
