package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/attribute"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
	"github.com/bazarlab/marketplace-service/pkg/validator"
)

const (
	maxTitleLen    = 200
	maxCurrencyLen = 8
	maxContactLen  = 100
	maxPriceAmount = 1e12
)

// fieldSet coerces the fixed listing fields. On create every field is
// considered, so required ones fail when absent; on update only keys
// present in the payload are touched.
type fieldSet struct {
	raw      map[string]attribute.RawValue
	creating bool
	verr     *apperr.ValidationError
}

func applyFields(l *model.Listing, raw map[string]attribute.RawValue, creating bool) error {
	fs := &fieldSet{raw: raw, creating: creating, verr: &apperr.ValidationError{}}

	fs.requiredText("title", maxTitleLen, &l.Title)
	fs.requiredID("category_id", &l.CategoryID)
	fs.requiredID("location_id", &l.LocationID)
	fs.text("description", 0, &l.Description)

	if v, ok := fs.get("price_amount"); ok {
		f, present, err := attribute.CoerceNumber("price_amount", v)
		switch {
		case err != nil:
			fs.verr.Collect(err)
		case !present:
			l.PriceAmount = 0
		case f < 0 || f > maxPriceAmount:
			fs.verr.Add(apperr.NewFieldError("price_amount", i18n.MsgOutOfRange, map[string]any{"Min": 0, "Max": int64(maxPriceAmount)}))
		default:
			l.PriceAmount = f
		}
	}

	if v, ok := fs.get("price_currency"); ok {
		s, present, err := attribute.CoerceText("price_currency", v)
		switch {
		case err != nil:
			fs.verr.Collect(err)
		case !present || strings.TrimSpace(s) == "":
			l.PriceCurrency = model.DefaultCurrency
		case utf8.RuneCountInString(s) > maxCurrencyLen:
			fs.verr.Add(apperr.NewFieldError("price_currency", i18n.MsgTooLong, map[string]any{"Max": maxCurrencyLen}))
		default:
			l.PriceCurrency = s
		}
	}

	if v, ok := fs.get("is_price_negotiable"); ok {
		l.IsPriceNegotiable = attribute.CoerceBool(v)
	}

	fs.choice("condition", model.ListingConditions, model.DefaultCondition, &l.Condition)
	fs.choice("deal_type", model.ListingDealTypes, model.DefaultDealType, &l.DealType)
	fs.choice("seller_type", model.ListingSellerTypes, model.DefaultSellerType, &l.SellerType)

	fs.coordinate("lat", 90, &l.Lat)
	fs.coordinate("lon", 180, &l.Lon)

	fs.text("contact_name", maxContactLen, &l.ContactName)
	fs.text("contact_phone", maxContactLen, &l.ContactPhone)
	if fs.text("contact_email", maxContactLen, &l.ContactEmail) {
		if validator.ValidateVar(l.ContactEmail, "omitempty,email") != nil {
			fs.verr.Add(apperr.NewFieldError("contact_email", i18n.MsgInvalidEmail, nil))
		}
	}

	return fs.verr.Err()
}

// get returns the submitted value and whether the key was in the payload.
func (fs *fieldSet) get(key string) (attribute.RawValue, bool) {
	v, ok := fs.raw[key]
	return v, ok
}

func (fs *fieldSet) requiredText(key string, maxLen int, dst *string) {
	v, ok := fs.get(key)
	if !ok && !fs.creating {
		return
	}
	s, present, err := attribute.CoerceText(key, v)
	switch {
	case err != nil:
		fs.verr.Collect(err)
	case !present || strings.TrimSpace(s) == "":
		code := i18n.MsgRequired
		if !fs.creating && present {
			code = i18n.MsgBlank
		}
		fs.verr.Add(apperr.NewFieldError(key, code, nil))
	case utf8.RuneCountInString(s) > maxLen:
		fs.verr.Add(apperr.NewFieldError(key, i18n.MsgTooLong, map[string]any{"Max": maxLen}))
	default:
		*dst = s
	}
}

func (fs *fieldSet) requiredID(key string, dst *string) {
	v, ok := fs.get(key)
	if !ok && !fs.creating {
		return
	}
	s, present, err := attribute.CoerceText(key, v)
	switch {
	case err != nil:
		fs.verr.Add(apperr.NewFieldError(key, i18n.MsgInvalidID, nil))
	case !present || s == "":
		fs.verr.Add(apperr.NewFieldError(key, i18n.MsgRequired, nil))
	case validator.ValidateVar(s, "uuid") != nil:
		fs.verr.Add(apperr.NewFieldError(key, i18n.MsgInvalidID, nil))
	default:
		*dst = strings.ToLower(s)
	}
}

// text reports whether dst was assigned. Null clears the field.
func (fs *fieldSet) text(key string, maxLen int, dst *string) bool {
	v, ok := fs.get(key)
	if !ok {
		return false
	}
	s, _, err := attribute.CoerceText(key, v)
	if err != nil {
		fs.verr.Collect(err)
		return false
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		fs.verr.Add(apperr.NewFieldError(key, i18n.MsgTooLong, map[string]any{"Max": maxLen}))
		return false
	}
	*dst = s
	return true
}

// choice resets to def when the client sends null or "".
func (fs *fieldSet) choice(key string, options []string, def string, dst *string) {
	v, ok := fs.get(key)
	if !ok {
		return
	}
	s, present, err := attribute.CoerceChoice(key, v, options)
	switch {
	case err != nil:
		fs.verr.Collect(err)
	case !present:
		*dst = def
	default:
		*dst = s
	}
}

func (fs *fieldSet) coordinate(key string, limit float64, dst **float64) {
	v, ok := fs.get(key)
	if !ok {
		return
	}
	f, present, err := attribute.CoerceNumber(key, v)
	switch {
	case err != nil:
		fs.verr.Collect(err)
	case !present:
		*dst = nil
	case f < -limit || f > limit:
		fs.verr.Add(apperr.NewFieldError(key, i18n.MsgOutOfRange, map[string]any{"Min": -limit, "Max": limit}))
	default:
		*dst = &f
	}
}
