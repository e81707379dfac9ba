package dto

import (
	"time"

	"github.com/bazarlab/marketplace-service/internal/attribute"
)

// WriteListingInput carries a create or partial update. Fields holds only
// the top-level keys present in the payload, so absence and null stay
// distinguishable.
type WriteListingInput struct {
	ListingID string // Empty on create
	UserID    string
	Fields    map[string]attribute.RawValue

	Attributes         []attribute.RawAttribute
	AttributesProvided bool
}

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type ListingFilters struct {
	UserID       string
	Status       string // Empty means any status
	CategorySlug string
	Sort         string
	Page         int
	PageSize     int
}

type StatusResult struct {
	Status    string `json:"status"`
	NewStatus string `json:"new_status"`
}

type RefreshResult struct {
	Status      string    `json:"status"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
