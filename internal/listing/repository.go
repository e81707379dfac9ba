package listing

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
)

type Repository interface {
	// WithTx runs fn against a repository bound to one transaction. fn may
	// be replayed after transient contention and must not keep state
	// between calls.
	WithTx(ctx context.Context, fn func(repo Repository) error) error

	Create(ctx context.Context, l *model.Listing) error
	FindByID(ctx context.Context, id string) (*model.Listing, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Listing, error)
	FindAll(ctx context.Context, filters *dto.ListingFilters) ([]model.Listing, int, error)
	Update(ctx context.Context, l *model.Listing) error
	Delete(ctx context.Context, id string) error

	// ReplaceAttributes swaps the full attribute set of a listing.
	ReplaceAttributes(ctx context.Context, listingID string, attrs []model.ListingAttribute) error
	FindAttributes(ctx context.Context, listingIDs []string) (map[string][]model.ListingAttribute, error)
}

// CategoryReader and LocationReader check that referenced rows exist.
type CategoryReader interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
}

type LocationReader interface {
	FindByID(ctx context.Context, id string) (*model.Location, error)
}
