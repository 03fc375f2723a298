package i18n

import (
	"strings"

	"github.com/goliatone/go-formdisplay/internal/coerce"
)

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// FormatDate renders a stored date for read-only display. Unparseable input is
// returned unchanged.
func FormatDate(raw, locale string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t, ok := coerce.Date(raw)
	if !ok {
		return raw
	}
	if Base(locale) == "ar" {
		return arabicDigits.Replace(t.Format("02/01/2006"))
	}
	return t.Format("1/2/2006")
}
