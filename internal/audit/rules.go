package audit

import "github.com/loamlabs/wheelhouse/internal/catalog"

// Scope says where a rule's required key must live.
type Scope int

const (
	// ScopeEntity requires the key on the product itself.
	ScopeEntity Scope = iota
	// ScopeVariant requires the key on every variant, each evaluated against
	// its own attribute lookup only.
	ScopeVariant
)

// Rule is one required-attribute check. When is an optional guard evaluated
// against the product's entity-scope lookup; a nil guard always fires.
// Guards read entity-scope values even for variant-scope requirements
// (e.g. a hub's type decides which variant fields are mandatory).
type Rule struct {
	Scope Scope
	Key   catalog.Key
	When  func(entity catalog.Lookup, p catalog.Product) bool
}

func (r Rule) fires(entity catalog.Lookup, p catalog.Product) bool {
	return r.When == nil || r.When(entity, p)
}

// ruleTable maps each category to its checks in declaration order. It is pure
// reference data: declared once, never mutated, safe to share across
// concurrent evaluations. The category-independent weight check lives in
// evaluateWeight, not here, because it spans both scopes.
var ruleTable = map[Category][]Rule{
	CategoryRim: {
		{Scope: ScopeEntity, Key: catalog.KeyRimWasherPolicy},
		{Scope: ScopeEntity, Key: catalog.KeyRimSpokeHoleOffset},
		{Scope: ScopeEntity, Key: catalog.KeyRimTargetTensionKgf},
		{Scope: ScopeEntity, Key: catalog.KeyNippleWasherThickness, When: washersInPlay},
		{Scope: ScopeVariant, Key: catalog.KeyRimERD},
	},
	CategoryHub: {
		{Scope: ScopeEntity, Key: catalog.KeyHubType},
		{Scope: ScopeEntity, Key: catalog.KeyHubFlangeDiameterLeft},
		{Scope: ScopeEntity, Key: catalog.KeyHubFlangeDiameterRight},
		{Scope: ScopeEntity, Key: catalog.KeyHubFlangeOffsetLeft},
		{Scope: ScopeEntity, Key: catalog.KeyHubFlangeOffsetRight},
		{Scope: ScopeEntity, Key: catalog.KeyHubSpokeHoleDiameter, When: hubTypeIs("Classic Flange")},
		{Scope: ScopeVariant, Key: catalog.KeyHubSPOffsetSpokeHoleLeft, When: hubTypeIs("Straight Pull")},
		{Scope: ScopeVariant, Key: catalog.KeyHubSPOffsetSpokeHoleRight, When: hubTypeIs("Straight Pull")},
		{Scope: ScopeVariant, Key: catalog.KeyHubManualCrossValue, When: manualLacing},
	},
	CategorySpoke: {
		{Scope: ScopeEntity, Key: catalog.KeySpokeModelGroup},
		{Scope: ScopeEntity, Key: catalog.KeyInventoryMonitoringEnabled},
		{Scope: ScopeEntity, Key: catalog.KeyInventoryAlertThreshold},
		{Scope: ScopeEntity, Key: catalog.KeySpokeCrossSectionAreaMM2, When: vendorIsNot("Berd")},
	},
	CategoryValveStem: {
		{Scope: ScopeVariant, Key: catalog.KeyValveMinRimDepthMM},
		{Scope: ScopeVariant, Key: catalog.KeyValveMaxRimDepthMM},
	},
}

// washersInPlay fires when the rim's washer policy says nipple washers are
// Optional or Mandatory; only then does the washer thickness matter.
func washersInPlay(entity catalog.Lookup, _ catalog.Product) bool {
	policy := entity.Get(catalog.KeyRimWasherPolicy)
	return policy == "Optional" || policy == "Mandatory"
}

func hubTypeIs(hubType string) func(catalog.Lookup, catalog.Product) bool {
	return func(entity catalog.Lookup, _ catalog.Product) bool {
		return entity.Get(catalog.KeyHubType) == hubType
	}
}

// manualLacing fires when the hub opts out of computed lacing.
func manualLacing(entity catalog.Lookup, _ catalog.Product) bool {
	return entity.Get(catalog.KeyHubLacingPolicy) == "Use Manual Override Field"
}

// vendorIsNot fires for every vendor except the named one. Berd spokes have
// no published cross-section, so the area field is not required for them.
func vendorIsNot(vendor string) func(catalog.Lookup, catalog.Product) bool {
	return func(_ catalog.Lookup, p catalog.Product) bool {
		return p.Vendor != vendor
	}
}
