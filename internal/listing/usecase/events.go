package usecase

import (
	"context"
	"time"

	"github.com/bazarlab/marketplace-service/internal/listing"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/broker"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventListingCreated = "ListingCreated"
	EventListingUpdated = "ListingUpdated"
	EventListingDeleted = "ListingDeleted"
)

const sideEffectTimeout = 10 * time.Second

const listingMapping = `{
	"mappings": {
		"properties": {
			"user_id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"location_id": { "type": "keyword" },
			"title": { "type": "text" },
			"description": { "type": "text" },
			"price_amount": { "type": "double" },
			"price_currency": { "type": "keyword" },
			"condition": { "type": "keyword" },
			"deal_type": { "type": "keyword" },
			"seller_type": { "type": "keyword" },
			"status": { "type": "keyword" },
			"geo": { "type": "geo_point" },
			"attributes": { "type": "flattened" },
			"refreshed_at": { "type": "date" },
			"created_at": { "type": "date" }
		}
	}
}`

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// listingDocument is the search index projection of a listing.
type listingDocument struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	CategoryID    string         `json:"category_id"`
	LocationID    string         `json:"location_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	PriceAmount   float64        `json:"price_amount"`
	PriceCurrency string         `json:"price_currency"`
	Condition     string         `json:"condition"`
	DealType      string         `json:"deal_type"`
	SellerType    string         `json:"seller_type"`
	Status        string         `json:"status"`
	Geo           *geoPoint      `json:"geo,omitempty"`
	Attributes    map[string]any `json:"attributes"`
	RefreshedAt   time.Time      `json:"refreshed_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

func newListingDocument(l *model.Listing) listingDocument {
	doc := listingDocument{
		ID:            l.ID,
		UserID:        l.UserID,
		CategoryID:    l.CategoryID,
		LocationID:    l.LocationID,
		Title:         l.Title,
		Description:   l.Description,
		PriceAmount:   l.PriceAmount,
		PriceCurrency: l.PriceCurrency,
		Condition:     l.Condition,
		DealType:      l.DealType,
		SellerType:    l.SellerType,
		Status:        l.Status,
		Attributes:    make(map[string]any, len(l.Attributes)),
		RefreshedAt:   l.RefreshedAt,
		CreatedAt:     l.CreatedAt,
	}
	if l.Lat != nil && l.Lon != nil {
		doc.Geo = &geoPoint{Lat: *l.Lat, Lon: *l.Lon}
	}
	for _, a := range l.Attributes {
		switch {
		case a.ValueText != nil:
			doc.Attributes[a.Key] = *a.ValueText
		case a.ValueNumber != nil:
			doc.Attributes[a.Key] = *a.ValueNumber
		case a.ValueBool != nil:
			doc.Attributes[a.Key] = *a.ValueBool
		}
	}
	return doc
}

// listingEvent is the payload of every listing event.
type listingEvent struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	CategoryID string `json:"category_id"`
	Status     string `json:"status"`
}

// EnsureSearchIndex creates the listing index if search is configured.
func EnsureSearchIndex(ctx context.Context, search listing.SearchIndex, index string) error {
	if search == nil {
		return nil
	}
	return search.CreateIndex(ctx, index, listingMapping)
}

// afterWrite publishes the event and syncs the search index once the
// transaction has committed. Failures are logged and never reach the caller.
func (uc *listingUseCase) afterWrite(eventType string, l *model.Listing) {
	if l == nil || (uc.events == nil && uc.search == nil) {
		return
	}
	snapshot := *l
	uc.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		uc.publish(ctx, eventType, &snapshot)
		uc.syncSearch(ctx, eventType, &snapshot)
	})
}

func (uc *listingUseCase) publish(ctx context.Context, eventType string, l *model.Listing) {
	if uc.events == nil {
		return
	}
	event := &broker.Event{EventID: uuid.New().String(), EventType: eventType}
	payload := listingEvent{ID: l.ID, UserID: l.UserID, CategoryID: l.CategoryID, Status: l.Status}
	if err := uc.events.Publish(ctx, l.ID, event, payload); err != nil {
		uc.logger.Error("failed to publish listing event",
			zap.String("event_type", eventType),
			zap.String("listing_id", l.ID),
			zap.Error(err),
		)
	}
}

func (uc *listingUseCase) syncSearch(ctx context.Context, eventType string, l *model.Listing) {
	if uc.search == nil {
		return
	}
	var err error
	if eventType == EventListingDeleted {
		err = uc.search.Delete(ctx, uc.index, l.ID)
	} else {
		err = uc.search.Index(ctx, uc.index, l.ID, newListingDocument(l))
	}
	if err != nil {
		uc.logger.Error("failed to sync listing to search", zap.String("listing_id", l.ID), zap.Error(err))
	}
}
