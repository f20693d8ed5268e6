package sms

import "strings"

// DefaultCountryCode is prepended to national numbers by NormalizePhone.
const DefaultCountryCode = "55"

// NormalizePhone converts phone into the form handed to the provider.
//
// Numbers already starting with "+" are returned unchanged. Otherwise every
// non-digit is stripped and a 10 or 11 digit national number gets
// "+"+countryCode prepended. Any other length is returned as bare digits.
func NormalizePhone(phone, countryCode string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}

	var b strings.Builder
	b.Grow(len(phone) + 3)
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	switch len(digits) {
	case 10, 11:
		return "+" + countryCode + digits
	default:
		return digits
	}
}

// MaskPhone hides all but the last four characters of phone.
func MaskPhone(phone string) string {
	const visible = 4
	if len(phone) <= visible {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-visible) + phone[len(phone)-visible:]
}
