package catalog

// Key is a typed attribute key. The audit rule set only ever addresses keys
// declared here; anything else coming back from the source is a data anomaly.
type Key string

const (
	KeyRimWasherPolicy       Key = "rim_washer_policy"
	KeyRimSpokeHoleOffset    Key = "rim_spoke_hole_offset"
	KeyRimTargetTensionKgf   Key = "rim_target_tension_kgf"
	KeyNippleWasherThickness Key = "nipple_washer_thickness"
	KeyRimERD                Key = "rim_erd"

	KeyHubType                   Key = "hub_type"
	KeyHubFlangeDiameterLeft     Key = "hub_flange_diameter_left"
	KeyHubFlangeDiameterRight    Key = "hub_flange_diameter_right"
	KeyHubFlangeOffsetLeft       Key = "hub_flange_offset_left"
	KeyHubFlangeOffsetRight      Key = "hub_flange_offset_right"
	KeyHubSpokeHoleDiameter      Key = "hub_spoke_hole_diameter"
	KeyHubSPOffsetSpokeHoleLeft  Key = "hub_sp_offset_spoke_hole_left"
	KeyHubSPOffsetSpokeHoleRight Key = "hub_sp_offset_spoke_hole_right"
	KeyHubLacingPolicy           Key = "hub_lacing_policy"
	KeyHubManualCrossValue       Key = "hub_manual_cross_value"

	KeySpokeModelGroup            Key = "spoke_model_group"
	KeyInventoryMonitoringEnabled Key = "inventory_monitoring_enabled"
	KeyInventoryAlertThreshold    Key = "inventory_alert_threshold"
	KeySpokeCrossSectionAreaMM2   Key = "spoke_cross_section_area_mm2"

	KeyValveMinRimDepthMM Key = "valve_min_rim_depth_mm"
	KeyValveMaxRimDepthMM Key = "valve_max_rim_depth_mm"

	KeyWeightG Key = "weight_g"
)

var knownKeys = map[Key]struct{}{
	KeyRimWasherPolicy:            {},
	KeyRimSpokeHoleOffset:         {},
	KeyRimTargetTensionKgf:        {},
	KeyNippleWasherThickness:      {},
	KeyRimERD:                     {},
	KeyHubType:                    {},
	KeyHubFlangeDiameterLeft:      {},
	KeyHubFlangeDiameterRight:     {},
	KeyHubFlangeOffsetLeft:        {},
	KeyHubFlangeOffsetRight:       {},
	KeyHubSpokeHoleDiameter:       {},
	KeyHubSPOffsetSpokeHoleLeft:   {},
	KeyHubSPOffsetSpokeHoleRight:  {},
	KeyHubLacingPolicy:            {},
	KeyHubManualCrossValue:        {},
	KeySpokeModelGroup:            {},
	KeyInventoryMonitoringEnabled: {},
	KeyInventoryAlertThreshold:    {},
	KeySpokeCrossSectionAreaMM2:   {},
	KeyValveMinRimDepthMM:         {},
	KeyValveMaxRimDepthMM:         {},
	KeyWeightG:                    {},
}

// Known reports whether k is a key the rule set addresses.
func Known(k Key) bool {
	_, ok := knownKeys[k]
	return ok
}

// Lookup is one scope's resolved attribute set.
type Lookup map[Key]string

// Has reports whether the key resolved to a non-empty value. An attribute
// present with an empty value counts as missing for rule evaluation.
func (l Lookup) Has(k Key) bool {
	return l[k] != ""
}

// Get returns the resolved value for k, or "" when absent.
func (l Lookup) Get(k Key) string {
	return l[k]
}

// FlattenStats reports data anomalies observed while resolving a scope.
type FlattenStats struct {
	// Duplicates lists keys that appeared more than once (last write won).
	Duplicates []string
	// Unknown lists keys the rule set does not address.
	Unknown []string
}

// Flatten resolves an ordered attribute collection into a key lookup.
// Keys are expected unique; on a repeat the last value wins and the key is
// recorded as a duplicate rather than failing the run. Unknown keys are kept
// in the lookup (rules never read them) but reported so they can be logged.
func Flatten(attrs []Attribute) (Lookup, FlattenStats) {
	lookup := make(Lookup, len(attrs))
	var stats FlattenStats

	for _, a := range attrs {
		k := Key(a.Key)
		if _, seen := lookup[k]; seen {
			stats.Duplicates = append(stats.Duplicates, a.Key)
		}
		if !Known(k) {
			stats.Unknown = append(stats.Unknown, a.Key)
		}
		lookup[k] = a.Value
	}

	return lookup, stats
}
