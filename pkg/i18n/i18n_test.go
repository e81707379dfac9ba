package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocale(t *testing.T) {
	tests := []struct {
		name   string
		param  string
		header string
		want   string
	}{
		{"explicit param wins over header", "uz", "ru-RU,ru;q=0.9", "uz"},
		{"unsupported param falls through to header", "en", "uz-Latn-UZ", "uz"},
		{"header prefix is case-insensitive", "", "UZ", "uz"},
		{"header with ru", "", "ru-RU", "ru"},
		{"unknown header uses default", "", "en-US,en;q=0.8", DefaultLocale},
		{"empty everything uses default", "", "", DefaultLocale},
		{"param is matched exactly", "UZ", "", DefaultLocale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLocale(tt.param, tt.header))
		})
	}
}

func TestLocalize(t *testing.T) {
	Init()

	assert.Equal(t, "Должно быть числом.", Localize(LocaleRu, MsgNotNumber, nil))
	assert.Equal(t, "Raqam bo'lishi kerak.", Localize(LocaleUz, MsgNotNumber, nil))
	assert.Equal(t, "Invalid. Allowed: matte, glossy",
		Localize("en", MsgInvalidChoice, map[string]any{"Allowed": "matte, glossy"}))
	assert.Equal(t, "no.such.message", Localize(LocaleRu, "no.such.message", nil))
}
