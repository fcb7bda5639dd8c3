package phone

import (
	"strings"

	"roomhive/utils"
)

// countryCode is the national prefix assumed for bare 10-digit numbers.
const countryCode = "91"

// Normalize converts a raw phone input into the canonical international form
// used as the uniqueness key. Accepted shapes, all mapping to +91XXXXXXXXXX:
// a bare 10-digit national number, a 12-digit number already carrying the
// national code, or the canonical form itself.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+" + countryCode + digits, nil
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return "+" + digits, nil
	}
	return "", utils.ValidationError("invalid phone number format")
}
