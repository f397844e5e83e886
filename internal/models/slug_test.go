package models_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hayal27/sininning-pro-sub000/internal/models"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want string
	}{
		{in: "Premium Wall Paint (5L)", want: "premium-wall-paint-5l"},
		{in: "  Anti-Rust   Primer  ", want: "anti-rust-primer"},
		{in: "Emulsion & Gloss", want: "emulsion-gloss"},
		{in: "Crème Brûlée", want: "cr-me-br-l-e"},
		{in: "2026 Colour Trends", want: "2026-colour-trends"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, models.Slugify(tc.in))
		})
	}
}

func TestSlugify_FallbackAndLength(t *testing.T) {
	t.Parallel()

	assert.Len(t, models.Slugify("!!!"), 8)

	long := models.Slugify(strings.Repeat("ab ", 100))
	assert.LessOrEqual(t, len(long), 120)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestValidSlug(t *testing.T) {
	t.Parallel()

	assert.True(t, models.ValidSlug("wall-paint"))
	assert.False(t, models.ValidSlug("Wall Paint"))
	assert.False(t, models.ValidSlug("-wall"))
	assert.False(t, models.ValidSlug(""))
}

func TestSlugOrDerive(t *testing.T) {
	t.Parallel()

	explicit := "Custom Slug"
	blank := "  "

	assert.Equal(t, "custom-slug", models.SlugOrDerive(&explicit, "Name"))
	assert.Equal(t, "name-here", models.SlugOrDerive(&blank, "Name Here"))
	assert.Equal(t, "name-here", models.SlugOrDerive(nil, "Name Here"))
}
