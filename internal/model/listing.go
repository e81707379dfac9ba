package model

import (
	"encoding/json"
	"time"
)

const (
	ListingStatusActive = "active"
	ListingStatusPaused = "paused"
	ListingStatusClosed = "closed"
)

var (
	ListingConditions  = []string{"new", "used"}
	ListingDealTypes   = []string{"sell", "exchange", "free"}
	ListingSellerTypes = []string{"person", "business"}
)

const (
	DefaultCurrency   = "UZS"
	DefaultCondition  = "used"
	DefaultDealType   = "sell"
	DefaultSellerType = "person"
)

type Listing struct {
	BaseModel
	UserID            string             `db:"user_id" json:"user_id"`
	CategoryID        string             `db:"category_id" json:"category_id"`
	LocationID        string             `db:"location_id" json:"location_id"`
	Title             string             `db:"title" json:"title"`
	Description       string             `db:"description" json:"description"`
	PriceAmount       float64            `db:"price_amount" json:"price_amount"`
	PriceCurrency     string             `db:"price_currency" json:"price_currency"`
	IsPriceNegotiable bool               `db:"is_price_negotiable" json:"is_price_negotiable"`
	Condition         string             `db:"condition" json:"condition"`
	DealType          string             `db:"deal_type" json:"deal_type"`
	SellerType        string             `db:"seller_type" json:"seller_type"`
	Status            string             `db:"status" json:"status"`
	Lat               *float64           `db:"lat" json:"lat"`
	Lon               *float64           `db:"lon" json:"lon"`
	ContactName       string             `db:"contact_name" json:"contact_name"`
	ContactPhone      string             `db:"contact_phone" json:"contact_phone"`
	ContactEmail      string             `db:"contact_email" json:"contact_email"`
	RefreshedAt       time.Time          `db:"refreshed_at" json:"refreshed_at"`
	Attributes        []ListingAttribute `db:"-" json:"attributes"`
}

// ListingAttribute is one coerced attribute value. Exactly one of the value
// columns is set, matching Type.
type ListingAttribute struct {
	ListingID   string        `db:"listing_id"`
	Key         string        `db:"key"`
	Type        AttributeType `db:"value_type"`
	ValueText   *string       `db:"value_text"`
	ValueNumber *float64      `db:"value_number"`
	ValueBool   *bool         `db:"value_bool"`
}

func (a ListingAttribute) MarshalJSON() ([]byte, error) {
	var value any
	switch {
	case a.ValueText != nil:
		value = *a.ValueText
	case a.ValueNumber != nil:
		value = *a.ValueNumber
	case a.ValueBool != nil:
		value = *a.ValueBool
	}
	return json.Marshal(struct {
		Key   string        `json:"key"`
		Type  AttributeType `json:"type"`
		Value any           `json:"value"`
	}{a.Key, a.Type, value})
}
