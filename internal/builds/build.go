// Package builds handles abandoned wheel builds: capturing them onto the
// queue, draining the queue on schedule, and emailing the batch report.
package builds

import "time"

// BuildType classifies which wheels a build configures.
type BuildType string

const (
	BuildFront BuildType = "Front"
	BuildRear  BuildType = "Rear"
	BuildSet   BuildType = "Wheel Set"
)

// IncludesFront reports whether the build has a front wheel section.
func (t BuildType) IncludesFront() bool {
	return t == BuildFront || t == BuildSet
}

// IncludesRear reports whether the build has a rear wheel section.
func (t BuildType) IncludesRear() bool {
	return t == BuildRear || t == BuildSet
}

// Visitor describes who abandoned the build. Logged-in visitors carry their
// customer identity; anonymous ones only a generated id.
type Visitor struct {
	IsLoggedIn  bool   `json:"isLoggedIn"`
	CustomerID  string `json:"customerId,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	AnonymousID string `json:"anonymousId,omitempty"`
}

// Component is one selected part of a build.
type Component struct {
	Title        string `json:"title"`
	VariantTitle string `json:"variantTitle,omitempty"`
}

// BuildRecord is one captured abandoned build, serialized onto the queue by
// the capture endpoint and drained by the report pipeline. Components is
// keyed by side+type ("frontRim", "rearHub", ...); a missing key means the
// visitor never selected that part.
type BuildRecord struct {
	BuildID            string               `json:"buildId"`
	Visitor            *Visitor             `json:"visitor,omitempty"`
	BuildType          BuildType            `json:"buildType"`
	RidingStyleDisplay string               `json:"ridingStyleDisplay,omitempty"`
	Components         map[string]Component `json:"components"`
	// Subtotal is in minor currency units (cents).
	Subtotal   int64     `json:"subtotal"`
	CapturedAt time.Time `json:"capturedAt"`
}

// Component returns the selection for a side ("front"/"rear") and part type
// ("Rim"/"Hub"), and whether one was made.
func (b BuildRecord) Component(side, partType string) (Component, bool) {
	c, ok := b.Components[side+partType]
	return c, ok
}
