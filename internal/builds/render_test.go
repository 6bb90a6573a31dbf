package builds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{12345, "$123.45"},
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{99999, "$999.99"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCents(tc.cents))
	}
}

func sampleBuild(buildType BuildType) BuildRecord {
	return BuildRecord{
		BuildID:            "bld-1",
		BuildType:          buildType,
		RidingStyleDisplay: "Trail",
		Components: map[string]Component{
			"frontRim": {Title: "Carbon Rim", VariantTitle: "29 / 28h"},
			"frontHub": {Title: "Alloy Hub"},
		},
		Subtotal:   12345,
		CapturedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	renderer := NewRenderer("test-store.myshopify.com")

	t.Run("front build shows only the front section", func(t *testing.T) {
		html, err := renderer.Render([]BuildRecord{sampleBuild(BuildFront)})
		require.NoError(t, err)

		assert.Contains(t, html, "Front Wheel")
		assert.NotContains(t, html, "Rear Wheel")
		assert.Contains(t, html, "Carbon Rim (29 / 28h)")
		assert.Contains(t, html, "$123.45")
	})

	t.Run("wheel set shows both sections with explicit missing markers", func(t *testing.T) {
		html, err := renderer.Render([]BuildRecord{sampleBuild(BuildSet)})
		require.NoError(t, err)

		assert.Contains(t, html, "Front Wheel")
		assert.Contains(t, html, "Rear Wheel")
		// Rear components were never selected; no blank cells.
		assert.Contains(t, html, "<em>Not Selected</em>")
	})

	t.Run("logged-in visitor links to the admin customer page", func(t *testing.T) {
		b := sampleBuild(BuildFront)
		b.Visitor = &Visitor{
			IsLoggedIn: true,
			CustomerID: "1234",
			FirstName:  "Alex",
			LastName:   "Rider",
			Email:      "alex@example.com",
		}
		html, err := renderer.Render([]BuildRecord{b})
		require.NoError(t, err)

		assert.Contains(t, html, "https://test-store.myshopify.com/admin/customers/1234")
		assert.Contains(t, html, "Alex Rider")
		assert.Contains(t, html, "alex@example.com")
	})

	t.Run("anonymous visitor shows the generated id only", func(t *testing.T) {
		b := sampleBuild(BuildRear)
		b.Visitor = &Visitor{AnonymousID: "anon-77"}
		html, err := renderer.Render([]BuildRecord{b})
		require.NoError(t, err)

		assert.Contains(t, html, "Anonymous Visitor")
		assert.Contains(t, html, "anon-77")
		assert.NotContains(t, html, "/admin/customers/")
	})

	t.Run("escapes titles from the storefront", func(t *testing.T) {
		b := sampleBuild(BuildFront)
		b.Components["frontRim"] = Component{Title: `<script>alert("x")</script>`}
		html, err := renderer.Render([]BuildRecord{b})
		require.NoError(t, err)

		assert.NotContains(t, html, `<script>alert`)
	})

	t.Run("identical batch renders identically", func(t *testing.T) {
		batch := []BuildRecord{sampleBuild(BuildSet), sampleBuild(BuildFront)}
		first, err := renderer.Render(batch)
		require.NoError(t, err)
		second, err := renderer.Render(batch)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
