package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Slugify reduces a title to a URL-safe slug: ascii letters and digits
// kept, everything else collapsed into single dashes.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// UniqueSlug appends -2, -3, ... until the slug is free. The lookup is
// case-insensitive, so "Parasite" and "PARASITE" contend for one slug.
func (r *Repo) UniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	slug := base
	for i := 2; ; i++ {
		exists, err := r.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
