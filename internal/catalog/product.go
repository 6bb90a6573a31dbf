// Package catalog defines the read-only product model the audit consumes and
// the source that pages it out of the Shopify Admin API.
package catalog

// Status is a product lifecycle status as reported by the catalog source.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDraft    Status = "DRAFT"
	StatusArchived Status = "ARCHIVED"
)

// Attribute is one named, string-valued fact attached to a product or variant.
// Attributes arrive as an ordered collection; keys are expected unique per scope.
type Attribute struct {
	Key   string
	Value string
}

// Variant is a purchasable sub-unit of a product with its own attribute scope.
// Variant attributes are evaluated independently of the parent's; there is no
// inheritance between the two scopes.
type Variant struct {
	ID         string
	Title      string
	Attributes []Attribute
}

// Product is one catalog entity. It is owned by the source and read-only to
// the audit engine; instances live for the duration of a single run.
type Product struct {
	ID             string
	Title          string
	Status         Status
	Tags           []string
	OnlineStoreURL string
	Vendor         string
	Attributes     []Attribute
	Variants       []Variant
}

// HasTag reports whether the product carries the given tag.
func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
