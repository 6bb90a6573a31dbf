// Package audit implements the catalog data-integrity audit: classifying
// builder components, evaluating per-category field rules, and rendering the
// emailed health report.
package audit

import "github.com/loamlabs/wheelhouse/internal/catalog"

// Category is a closed component classification derived from product tags.
// A product may belong to zero, one, or several categories at once.
type Category string

const (
	CategoryRim       Category = "Rim"
	CategoryHub       Category = "Hub"
	CategorySpoke     Category = "Spoke"
	CategoryValveStem Category = "ValveStem"
)

// categoryOrder fixes iteration order so violations are stable across runs.
var categoryOrder = []Category{CategoryRim, CategoryHub, CategorySpoke, CategoryValveStem}

var categoryTags = map[Category]string{
	CategoryRim:       "component:rim",
	CategoryHub:       "component:hub",
	CategorySpoke:     "component:spoke",
	CategoryValveStem: "component:valvestem",
}

// ExclusionTag marks products the audit must skip entirely.
const ExclusionTag = "audit:exclude"

// Classification is the audit-relevant view of one product.
type Classification struct {
	// Excluded products produce no findings of any kind.
	Excluded bool
	// Published means the product is Active and has a reachable storefront
	// URL. Both are required; either one alone leaves the product unpublished.
	Published bool
	// Categories holds the product's categories in fixed declaration order.
	Categories []Category
}

// In reports whether the classification includes the given category.
func (c Classification) In(cat Category) bool {
	for _, have := range c.Categories {
		if have == cat {
			return true
		}
	}
	return false
}

// Classify derives a product's audit classification from its tags and
// publication state. Membership is derived, never stored.
func Classify(p catalog.Product) Classification {
	c := Classification{
		Excluded:  p.HasTag(ExclusionTag),
		Published: p.Status == catalog.StatusActive && p.OnlineStoreURL != "",
	}
	for _, cat := range categoryOrder {
		if p.HasTag(categoryTags[cat]) {
			c.Categories = append(c.Categories, cat)
		}
	}
	return c
}
