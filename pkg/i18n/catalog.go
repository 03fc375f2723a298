package i18n

import "strings"

// Catalog is an in-memory Translator keyed by locale then message key.
type Catalog map[string]map[string]string

// DefaultCatalog carries the built-in messages for the shipped locales.
var DefaultCatalog = Catalog{
	"en": {
		MessageFieldRequired: "This field is required",
		"invalid-email":      "Please enter a valid email address",
		MessageSubmit:        "Submit",
		MessageNoAnswer:      "No answer",
		MessageChooseOption:  "Select an option",
	},
	"ar": {
		MessageFieldRequired: "هذا الحقل مطلوب",
		"invalid-email":      "يرجى إدخال بريد إلكتروني صالح",
		MessageSubmit:        "إرسال",
		MessageNoAnswer:      "لا توجد إجابة",
		MessageChooseOption:  "اختر خيارًا",
	},
}

// Translate implements Translator.
func (c Catalog) Translate(locale, key string) (string, error) {
	messages, ok := c[strings.TrimSpace(locale)]
	if !ok {
		return "", ErrMissingTranslation
	}
	msg, ok := messages[key]
	if !ok || strings.TrimSpace(msg) == "" {
		return "", ErrMissingTranslation
	}
	return msg, nil
}

// Merge returns a copy of c with other's entries layered on top.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for _, src := range []Catalog{c, other} {
		for locale, messages := range src {
			dst, ok := out[locale]
			if !ok {
				dst = make(map[string]string, len(messages))
				out[locale] = dst
			}
			for key, msg := range messages {
				dst[key] = msg
			}
		}
	}
	return out
}
