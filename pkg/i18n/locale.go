package i18n

import "strings"

const (
	LocaleRu = "ru"
	LocaleUz = "uz"

	DefaultLocale = LocaleRu
)

// SupportedLocales is ordered; header matching picks the first hit.
var SupportedLocales = []string{LocaleRu, LocaleUz}

func IsSupported(locale string) bool {
	for _, l := range SupportedLocales {
		if l == locale {
			return true
		}
	}
	return false
}

// ResolveLocale picks the response locale. An explicit supported param wins,
// then the Accept-Language header is matched by case-insensitive code prefix,
// then DefaultLocale. It never fails.
func ResolveLocale(param, acceptLanguage string) string {
	if IsSupported(param) {
		return param
	}
	header := strings.ToLower(strings.TrimSpace(acceptLanguage))
	if header != "" {
		for _, l := range SupportedLocales {
			if strings.HasPrefix(header, l) {
				return l
			}
		}
	}
	return DefaultLocale
}
