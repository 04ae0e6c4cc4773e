// Package otp implements the phone-verification enrollment flow: number
// normalization, code handling, the provider boundary, and the step state
// machine that coordinates provider and backend.
package otp

import "strings"

// NormalizePhone canonicalizes a phone number before it is handed to the
// verification provider or the backend: spaces and dashes are stripped, a
// leading zero is dropped, and the default country code is prefixed.
// Already-normalized input (leading "+") passes through unchanged, so the
// function is idempotent.
func NormalizePhone(phone, defaultCountryCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, phone)

	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "0")
	return defaultCountryCode + cleaned
}

// SanitizeCode strips non-digit characters as typed and caps the result at
// the code length. Bad characters are dropped silently, not rejected.
func SanitizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == codeLength {
				break
			}
		}
	}
	return b.String()
}

// CodeComplete reports whether code is exactly six digits.
func CodeComplete(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MaskPhone hides the middle of a phone number for display, keeping the
// prefix and the last three digits (e.g. "+2012*****890").
func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return "*******"
	}
	hidden := len(phone) - 7
	if hidden < 0 {
		hidden = 0
	}
	return phone[:4] + strings.Repeat("*", hidden) + phone[len(phone)-3:]
}

const codeLength = 6
