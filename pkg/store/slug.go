package store

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// fallbackSlug is used when a name contains no alphanumeric characters.
const fallbackSlug = "code"

// Slugify derives an identifier-safe slug from a human name: lowercase,
// runs of non-alphanumerics collapsed to a single underscore, leading and
// trailing underscores stripped.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
