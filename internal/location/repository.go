package location

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/model"
)

type Repository interface {
	// FindByID returns nil, nil when the location does not exist.
	FindByID(ctx context.Context, id string) (*model.Location, error)
	FindChildren(ctx context.Context, parentID *string) ([]model.Location, error)
}
