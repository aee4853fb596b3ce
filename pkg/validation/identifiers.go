package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugRegex    = regexp.MustCompile(`^[a-z0-9-]{3,60}$`)
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL slug from free text: lowercased, runs of
// non-alphanumeric characters collapsed into single hyphens.
func Slugify(value string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(value), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	return slug
}

// NormalizeSlug converts a course slug to lowercase and validates its format.
// Valid slugs are 3-60 characters containing only lowercase letters, numbers, and hyphens.
func NormalizeSlug(value string) (string, error) {
	normalized := strings.TrimSpace(strings.ToLower(value))
	if !slugRegex.MatchString(normalized) {
		return "", fmt.Errorf("invalid slug. Use 3-60 lowercase characters (letters, numbers, hyphens)")
	}
	return normalized, nil
}
