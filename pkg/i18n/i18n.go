package i18n

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is the last locale consulted before a caller fallback.
const DefaultLocale = "en"

// AnyLocale keys a value that applies regardless of the requested locale. The
// API sometimes returns plain strings where a locale map is expected; those
// decode under this key.
const AnyLocale = "*"

// MessageFieldRequired is the catalog key for the generic required message.
const MessageFieldRequired = "field-required"

// Catalog keys used by the renderers.
const (
	MessageSubmit       = "submit"
	MessageNoAnswer     = "no-answer"
	MessageChooseOption = "choose-option"
)

// ErrMissingTranslation is returned by catalogs that have no entry for a key.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string) (string, error)

// Translate delegates to the underlying function.
func (fn TranslatorFunc) Translate(locale, key string) (string, error) {
	return fn(locale, key)
}

// Normalize canonicalises a locale code ("AR_sa" -> "ar-SA"). Unparseable
// codes are returned trimmed and lower-cased.
func Normalize(locale string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return tag.String()
}

// Base returns the base language of locale ("ar-SA" -> "ar").
func Base(locale string) string {
	normalized := Normalize(locale)
	if normalized == "" {
		return ""
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return normalized
	}
	base, _ := tag.Base()
	return base.String()
}

// Chain lists the locale keys consulted for locale, most specific first and
// always ending with DefaultLocale.
func Chain(locale string) []string {
	candidates := []string{
		strings.TrimSpace(locale),
		Normalize(locale),
		Base(locale),
		DefaultLocale,
	}
	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// Lookup resolves a localized value: the AnyLocale entry, then the locale
// chain, then fallback. Blank entries are skipped.
func Lookup(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	if v := values[AnyLocale]; strings.TrimSpace(v) != "" {
		return v
	}
	for _, key := range Chain(locale) {
		if v := values[key]; strings.TrimSpace(v) != "" {
			return v
		}
	}
	return fallback
}

// Translate resolves key through t, falling back when t is nil, errors, or
// returns a blank string.
func Translate(t Translator, locale, key, fallback string) string {
	if t == nil {
		return fallback
	}
	for _, candidate := range Chain(locale) {
		result, err := t.Translate(candidate, key)
		if err == nil && strings.TrimSpace(result) != "" {
			return result
		}
	}
	return fallback
}

// Localize resolves loosely typed localized payloads such as option settings
// decoded into map[string]any. Plain strings are returned as-is.
func Localize(value any, locale, fallback string) string {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	case map[string]string:
		return Lookup(v, locale, fallback)
	case map[string]any:
		values := make(map[string]string, len(v))
		for key, raw := range v {
			if s, ok := raw.(string); ok {
				values[key] = s
			}
		}
		return Lookup(values, locale, fallback)
	default:
		return fallback
	}
}

var rtlLanguages = map[string]struct{}{
	"ar": {}, "fa": {}, "he": {}, "ur": {}, "ps": {}, "yi": {},
}

// Direction returns "rtl" for right-to-left languages and "ltr" otherwise.
func Direction(locale string) string {
	if _, ok := rtlLanguages[Base(locale)]; ok {
		return "rtl"
	}
	return "ltr"
}
