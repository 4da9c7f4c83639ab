package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhoneNumber strips formatting and keeps a leading + for international numbers
func NormalizePhoneNumber(phoneNumber string) string {
	trimmed := strings.TrimSpace(phoneNumber)
	digits := nonDigits.ReplaceAllString(trimmed, "")
	if strings.HasPrefix(trimmed, "+") && digits != "" {
		return "+" + digits
	}
	return digits
}

// ValidatePhoneNumber accepts 7 to 15 digits (E.164 length), ignoring spaces, dashes and brackets
func ValidatePhoneNumber(phoneNumber string) bool {
	if strings.ContainsAny(phoneNumber, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return false
	}
	digits := nonDigits.ReplaceAllString(phoneNumber, "")
	return len(digits) >= 7 && len(digits) <= 15
}
