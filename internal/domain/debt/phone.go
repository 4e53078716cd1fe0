package debt

import "strings"

// NormalizePhone normalizes a Rwandan phone number to the 250-prefixed
// digit form used for WhatsApp/SMS links ("0788..." -> "250788...").
// Non-digit characters are stripped; an empty input stays empty.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if strings.HasPrefix(digits, "0") {
		return "250" + digits[1:]
	}
	if !strings.HasPrefix(digits, "250") {
		return "250" + digits
	}
	return digits
}
