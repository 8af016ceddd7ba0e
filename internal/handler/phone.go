package handler

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// normalizePhone canonicalizes a Malawian mobile money number to 265XXXXXXXXX.
// Returns "" if the number cannot be a valid Malawian mobile number.
func normalizePhone(s string) string {
	s = nonDigits.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "0") {
		s = "265" + s[1:]
	} else if !strings.HasPrefix(s, "265") {
		s = "265" + s
	}
	if len(s) != 12 {
		return ""
	}
	return s
}
