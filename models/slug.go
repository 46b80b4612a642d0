package models

import (
	"regexp"
	"strings"
)

var (
	slugInvalidRegex = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRegex   = regexp.MustCompile(`-+`)
)

// Slugify derives a URL slug from a display name. Uniqueness is the
// caller's concern (see sync slug collision handling).
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRegex.ReplaceAllString(s, "-")
	s = multiDashRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
