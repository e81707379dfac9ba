package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var catalogs embed.FS

// Message IDs shared by validation and not-found errors.
const (
	MsgRequired          = "validation.required"
	MsgBlank             = "validation.blank"
	MsgNotNumber         = "validation.not_number"
	MsgNotText           = "validation.not_text"
	MsgInvalidChoice     = "validation.invalid_choice"
	MsgUnknownAttribute  = "validation.unknown_attribute"
	MsgInvalidID         = "validation.invalid_id"
	MsgOutOfRange        = "validation.out_of_range"
	MsgInvalidEmail      = "validation.invalid_email"
	MsgNotList           = "validation.not_list"
	MsgTooLong           = "validation.too_long"
	MsgMalformedBody     = "request.malformed_body"
	MsgInvalidTransition = "listing.invalid_transition"
	MsgNotFound          = "not_found"
	MsgInternal          = "internal"
)

var defaultMessages = []*goi18n.Message{
	{ID: MsgRequired, Other: "This field is required."},
	{ID: MsgBlank, Other: "This field may not be blank."},
	{ID: MsgNotNumber, Other: "Must be a number."},
	{ID: MsgNotText, Other: "Must be a string."},
	{ID: MsgInvalidChoice, Other: "Invalid. Allowed: {{.Allowed}}"},
	{ID: MsgUnknownAttribute, Other: "Unknown attribute for this category."},
	{ID: MsgInvalidID, Other: "Must be a valid id."},
	{ID: MsgOutOfRange, Other: "Must be between {{.Min}} and {{.Max}}."},
	{ID: MsgInvalidEmail, Other: "Enter a valid email address."},
	{ID: MsgNotList, Other: "Must be a list."},
	{ID: MsgTooLong, Other: "Ensure this field has no more than {{.Max}} characters."},
	{ID: MsgMalformedBody, Other: "Malformed request body."},
	{ID: MsgInvalidTransition, Other: "Can only activate paused or closed listings."},
	{ID: MsgNotFound, Other: "Not found."},
	{ID: MsgInternal, Other: "Internal server error."},
}

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle

	errNotInitialized = errors.New("i18n: Init must be called before Load")
)

// Init builds the bundle from the English defaults and the embedded ru/uz
// catalogs. Safe to call more than once.
func Init() {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)
	if err := b.AddMessages(language.English, defaultMessages...); err != nil {
		panic(err)
	}
	for _, name := range []string{"locales/active.ru.json", "locales/active.uz.json"} {
		if _, err := b.LoadMessageFileFS(catalogs, name); err != nil {
			panic(err)
		}
	}

	mu.Lock()
	bundle = b
	mu.Unlock()
}

// Load adds a catalog from disk on top of the embedded ones.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return errNotInitialized
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// Localize renders messageID for locale. Unknown IDs come back verbatim so a
// missing translation never hides an error.
func Localize(locale, messageID string, data map[string]any) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return messageID
	}

	loc := goi18n.NewLocalizer(b, locale)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil && msg == "" {
		return messageID
	}
	return msg
}
