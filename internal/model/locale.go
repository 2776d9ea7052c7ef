package model

// Locale is a supported interface language.
type Locale string

const (
	LocaleUK Locale = "uk"
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
)

// PrimaryLocale is the base locale whose values are denormalized onto the
// parent record's own columns.
const PrimaryLocale = LocaleUK

// SupportedLocales returns the locales in their canonical order.
func SupportedLocales() []Locale {
	return []Locale{LocaleUK, LocaleRU, LocaleEN}
}

// IsSupportedLocale reports whether s names a supported locale.
func IsSupportedLocale(s string) bool {
	switch Locale(s) {
	case LocaleUK, LocaleRU, LocaleEN:
		return true
	}
	return false
}

// LocalizedField holds one attribute's value per locale.
type LocalizedField map[Locale]string

// fallbacks returns the supported locales minus preferred, canonical order.
func fallbacks(preferred Locale) []Locale {
	rest := make([]Locale, 0, 2)
	for _, l := range SupportedLocales() {
		if l != preferred {
			rest = append(rest, l)
		}
	}
	return rest
}

// Resolve returns the preferred locale's value, falling back to the remaining
// locales in canonical order. Projects resolve this way.
func (f LocalizedField) Resolve(preferred Locale) string {
	if v := f[preferred]; v != "" {
		return v
	}
	for _, l := range fallbacks(preferred) {
		if v := f[l]; v != "" {
			return v
		}
	}
	return ""
}

// ResolveReversed returns the preferred locale's value, falling back to the
// remaining locales in reverse canonical order. Users resolve this way; the
// two orders are intentionally different and must stay that way.
func (f LocalizedField) ResolveReversed(preferred Locale) string {
	if v := f[preferred]; v != "" {
		return v
	}
	rest := fallbacks(preferred)
	for i := len(rest) - 1; i >= 0; i-- {
		if v := f[rest[i]]; v != "" {
			return v
		}
	}
	return ""
}

// Primary returns the primary-locale value with the project fallback order.
func (f LocalizedField) Primary() string {
	return f.Resolve(PrimaryLocale)
}
