// Package email derives presentable names from email addresses. Used as a
// display fallback when a registration event carries no name fields.
package email

import (
	"strings"
	"unicode"
)

// FallbackName splits the local part of an address on common separators and
// capitalizes the outer segments. "ada.lovelace@x.com" becomes
// ("Ada", "Lovelace"); an address that yields nothing becomes
// ("Attendee", "Attendee").
func FallbackName(address string) (first, last string) {
	local := address
	if at := strings.IndexByte(address, '@'); at >= 0 {
		local = address[:at]
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Attendee", "Attendee"
	}

	first = capitalize(parts[0])
	last = "Attendee"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}
	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
