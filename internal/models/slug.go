package models

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const maxSlugLength = 120

// Slugify lower-cases s and joins its ASCII letter and digit runs with
// hyphens: "Premium Wall Paint (5L)" becomes "premium-wall-paint-5l".
// Input with no usable characters yields a short random slug.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return uuid.NewString()[:8]
	}
	return slug
}

// ValidSlug reports whether s is already in Slugify form.
func ValidSlug(s string) bool {
	if s == "" || len(s) > maxSlugLength {
		return false
	}
	return Slugify(s) == s
}

// SlugOrDerive returns the normalised explicit slug when one is given,
// otherwise a slug derived from name.
func SlugOrDerive(explicit *string, name string) string {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		return Slugify(*explicit)
	}
	return Slugify(name)
}
