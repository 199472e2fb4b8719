package checkout

import (
	"regexp"
	"strings"
)

var trinidadPhone = regexp.MustCompile(`^\+1868\d{7}$`)

// FormatTrinidadPhone normalizes the common ways customers type a
// Trinidad & Tobago number (XXX-XXXX, 868-XXX-XXXX, 1-868-XXX-XXXX)
// into +1868XXXXXXX. Input that fits no known shape is returned as-is.
func FormatTrinidadPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 7:
		return "+1868" + digits
	case len(digits) == 10 && strings.HasPrefix(digits, "868"):
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1868"):
		return "+" + digits
	}
	return phone
}

// IsValidTrinidadPhone reports whether phone normalizes to a well-formed
// +1-868 number.
func IsValidTrinidadPhone(phone string) bool {
	return trinidadPhone.MatchString(FormatTrinidadPhone(phone))
}
