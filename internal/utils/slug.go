package utils

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yukikurage/event-rsvp/internal/constants"
)

const fallbackSlug = "event"

// Slugify derives a URL-safe slug from title: lowercase, hyphen separated, at most MaxSlugLength bytes.
func Slugify(title string) string {
	s := slug.Make(title)
	if len(s) > constants.MaxSlugLength {
		s = strings.TrimRight(s[:constants.MaxSlugLength], "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}

// UniqueSlug returns base if it is free, otherwise the first free base-2, base-3, ...
func UniqueSlug(base string, exists func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
