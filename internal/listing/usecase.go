package listing

import (
	"context"

	"github.com/bazarlab/marketplace-service/internal/listing/dto"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/broker"
)

type UseCase interface {
	CreateListing(ctx context.Context, input *dto.WriteListingInput) (*model.Listing, error)
	UpdateListing(ctx context.Context, input *dto.WriteListingInput) (*model.Listing, error)
	GetListing(ctx context.Context, id string) (*model.Listing, error)
	ListListings(ctx context.Context, filters *dto.ListingFilters) ([]model.Listing, int, error)

	RefreshListing(ctx context.Context, userID, id string) (*model.Listing, error)
	DeactivateListing(ctx context.Context, userID, id string) (*model.Listing, error)
	ActivateListing(ctx context.Context, userID, id string) (*model.Listing, error)
	DeleteListing(ctx context.Context, userID, id string) error
}

// EventPublisher is satisfied by *broker.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event *broker.Event, payload any) error
}

// SearchIndex is satisfied by *search.Client.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
}
