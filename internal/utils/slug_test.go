package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/event-rsvp/internal/constants"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Launch Party":             "launch-party",
		"  Rock  and  Roll Night ": "rock-and-roll-night",
		"Go Meetup: Spring!":       "go-meetup-spring",
		"Café Concert":             "cafe-concert",
		"!!!":                      "event",
		"":                         "event",
	}

	for title, want := range tests {
		assert.Equal(t, want, Slugify(title), "title %q", title)
	}
}

func TestSlugify_Truncates(t *testing.T) {
	s := Slugify(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(s), constants.MaxSlugLength)
	assert.False(t, strings.HasSuffix(s, "-"))
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"launch-party": true, "launch-party-2": true}
	exists := func(s string) (bool, error) { return taken[s], nil }

	got, err := UniqueSlug("launch-party", exists)
	require.NoError(t, err)
	assert.Equal(t, "launch-party-3", got)

	got, err = UniqueSlug("fresh", exists)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}

func TestUniqueSlug_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	_, err := UniqueSlug("x", func(string) (bool, error) { return false, boom })
	require.ErrorIs(t, err, boom)
}
