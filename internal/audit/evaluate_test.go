package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loamlabs/wheelhouse/internal/catalog"
	"github.com/loamlabs/wheelhouse/internal/platform/logger"
)

// publishedProduct returns a minimal auditable product for the given category
// tags, with attributes layered on by the caller.
func publishedProduct(title string, tags []string, attrs ...catalog.Attribute) catalog.Product {
	return catalog.Product{
		ID:             "gid://shopify/Product/1",
		Title:          title,
		Status:         catalog.StatusActive,
		OnlineStoreURL: "https://example.com/products/" + title,
		Tags:           tags,
		Attributes:     attrs,
	}
}

func attr(key catalog.Key, value string) catalog.Attribute {
	return catalog.Attribute{Key: string(key), Value: value}
}

// completeRim satisfies every unconditional rim entity rule plus the weight rule.
func completeRimAttrs() []catalog.Attribute {
	return []catalog.Attribute{
		attr(catalog.KeyRimWasherPolicy, "None"),
		attr(catalog.KeyRimSpokeHoleOffset, "0"),
		attr(catalog.KeyRimTargetTensionKgf, "120"),
		attr(catalog.KeyWeightG, "455"),
	}
}

func evaluate(t *testing.T, products ...catalog.Product) Result {
	t.Helper()
	return NewEvaluator(logger.New()).Evaluate(context.Background(), products)
}

func violationMessages(t *testing.T, result Result) []string {
	t.Helper()
	require.Len(t, result.Findings, 1)
	msgs := make([]string, 0, len(result.Findings[0].Violations))
	for _, v := range result.Findings[0].Violations {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

func TestEvaluateExclusionAndPublishing(t *testing.T) {
	t.Run("excluded products produce nothing at all", func(t *testing.T) {
		p := catalog.Product{
			Title:  "Hidden Rim",
			Status: catalog.StatusDraft,
			Tags:   []string{"component:rim", ExclusionTag},
		}
		result := evaluate(t, p)
		assert.Empty(t, result.Unpublished)
		assert.Empty(t, result.Findings)
	})

	t.Run("unpublished yields one finding and no rule evaluation", func(t *testing.T) {
		p := catalog.Product{
			Title:  "Draft Rim",
			Status: catalog.StatusDraft,
			Tags:   []string{"component:rim"},
			// Every rim rule would fail, but none may run.
		}
		result := evaluate(t, p)
		require.Len(t, result.Unpublished, 1)
		assert.Equal(t, "Draft Rim", result.Unpublished[0].Product)
		assert.Equal(t, catalog.StatusDraft, result.Unpublished[0].Status)
		assert.False(t, result.Unpublished[0].HasStorefrontURL)
		assert.Empty(t, result.Findings)
	})

	t.Run("silent pass contributes nothing", func(t *testing.T) {
		p := publishedProduct("Good Rim", []string{"component:rim"}, completeRimAttrs()...)
		p.Variants = []catalog.Variant{{Title: "28h", Attributes: []catalog.Attribute{attr(catalog.KeyRimERD, "602")}}}
		result := evaluate(t, p)
		assert.Empty(t, result.Unpublished)
		assert.Empty(t, result.Findings)
	})
}

func TestEvaluateRimRules(t *testing.T) {
	t.Run("washer policy Optional requires washer thickness", func(t *testing.T) {
		attrs := completeRimAttrs()
		attrs[0] = attr(catalog.KeyRimWasherPolicy, "Optional")
		p := publishedProduct("Rim", []string{"component:rim"}, attrs...)

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "missing required field `nipple_washer_thickness`")
	})

	t.Run("washer policy Mandatory requires washer thickness", func(t *testing.T) {
		attrs := completeRimAttrs()
		attrs[0] = attr(catalog.KeyRimWasherPolicy, "Mandatory")
		p := publishedProduct("Rim", []string{"component:rim"}, attrs...)

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "missing required field `nipple_washer_thickness`")
	})

	t.Run("washer policy None does not require washer thickness", func(t *testing.T) {
		p := publishedProduct("Rim", []string{"component:rim"}, completeRimAttrs()...)
		result := evaluate(t, p)
		assert.Empty(t, result.Findings)
	})

	t.Run("absent washer policy is itself the only washer violation", func(t *testing.T) {
		attrs := completeRimAttrs()[1:]
		p := publishedProduct("Rim", []string{"component:rim"}, attrs...)

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "missing required field `rim_washer_policy`")
		assert.NotContains(t, msgs, "missing required field `nipple_washer_thickness`")
	})

	t.Run("every variant needs its own ERD", func(t *testing.T) {
		p := publishedProduct("Rim", []string{"component:rim"}, completeRimAttrs()...)
		p.Variants = []catalog.Variant{
			{Title: "28h", Attributes: []catalog.Attribute{attr(catalog.KeyRimERD, "602")}},
			{Title: "32h"},
		}

		result := evaluate(t, p)
		msgs := violationMessages(t, result)
		require.Len(t, msgs, 1)
		assert.Equal(t, "variant `32h` missing required field `rim_erd`", msgs[0])
		assert.Equal(t, "32h", result.Findings[0].Violations[0].Variant)
	})
}

func TestEvaluateHubRules(t *testing.T) {
	hubAttrs := func(hubType string) []catalog.Attribute {
		return []catalog.Attribute{
			attr(catalog.KeyHubType, hubType),
			attr(catalog.KeyHubFlangeDiameterLeft, "58"),
			attr(catalog.KeyHubFlangeDiameterRight, "58"),
			attr(catalog.KeyHubFlangeOffsetLeft, "35"),
			attr(catalog.KeyHubFlangeOffsetRight, "20"),
			attr(catalog.KeyWeightG, "240"),
		}
	}

	t.Run("classic flange requires spoke hole diameter on the entity", func(t *testing.T) {
		p := publishedProduct("Hub", []string{"component:hub"}, hubAttrs("Classic Flange")...)

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "missing required field `hub_spoke_hole_diameter`")
	})

	t.Run("straight pull requires per-variant offsets", func(t *testing.T) {
		p := publishedProduct("Hub", []string{"component:hub"}, hubAttrs("Straight Pull")...)
		p.Variants = []catalog.Variant{
			{Title: "28h", Attributes: []catalog.Attribute{
				attr(catalog.KeyHubSPOffsetSpokeHoleRight, "4.2"),
			}},
		}

		result := evaluate(t, p)
		msgs := violationMessages(t, result)
		require.Len(t, msgs, 1)
		assert.Equal(t, "variant `28h` missing required field `hub_sp_offset_spoke_hole_left`", msgs[0])
	})

	t.Run("manual lacing override requires the manual cross value", func(t *testing.T) {
		attrs := append(hubAttrs("Classic Flange"),
			attr(catalog.KeyHubSpokeHoleDiameter, "2.5"),
			attr(catalog.KeyHubLacingPolicy, "Use Manual Override Field"),
		)
		p := publishedProduct("Hub", []string{"component:hub"}, attrs...)
		p.Variants = []catalog.Variant{{Title: "32h"}}

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "variant `32h` missing required field `hub_manual_cross_value`")
	})
}

func TestEvaluateSpokeRules(t *testing.T) {
	spokeAttrs := []catalog.Attribute{
		attr(catalog.KeySpokeModelGroup, "race"),
		attr(catalog.KeyInventoryMonitoringEnabled, "true"),
		attr(catalog.KeyInventoryAlertThreshold, "24"),
		attr(catalog.KeyWeightG, "4.3"),
	}

	t.Run("non-Berd vendors need the cross section area", func(t *testing.T) {
		p := publishedProduct("Spoke", []string{"component:spoke"}, spokeAttrs...)
		p.Vendor = "Sapim"

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "missing required field `spoke_cross_section_area_mm2`")
	})

	t.Run("Berd is exempt from the cross section area", func(t *testing.T) {
		p := publishedProduct("Spoke", []string{"component:spoke"}, spokeAttrs...)
		p.Vendor = "Berd"

		result := evaluate(t, p)
		assert.Empty(t, result.Findings)
	})
}

func TestEvaluateWeightRule(t *testing.T) {
	valveVariant := func(title string, withDepths, withWeight bool) catalog.Variant {
		v := catalog.Variant{Title: title}
		if withDepths {
			v.Attributes = append(v.Attributes,
				attr(catalog.KeyValveMinRimDepthMM, "18"),
				attr(catalog.KeyValveMaxRimDepthMM, "42"),
			)
		}
		if withWeight {
			v.Attributes = append(v.Attributes, attr(catalog.KeyWeightG, "6"))
		}
		return v
	}

	t.Run("entity weight covers all variants", func(t *testing.T) {
		p := publishedProduct("Valve", []string{"component:valvestem"}, attr(catalog.KeyWeightG, "6"))
		p.Variants = []catalog.Variant{
			valveVariant("44mm", true, false),
			valveVariant("60mm", true, false),
		}
		result := evaluate(t, p)
		assert.Empty(t, result.Findings)
	})

	t.Run("full variant coverage passes without entity weight", func(t *testing.T) {
		p := publishedProduct("Valve", []string{"component:valvestem"})
		p.Variants = []catalog.Variant{
			valveVariant("44mm", true, true),
			valveVariant("60mm", true, true),
		}
		result := evaluate(t, p)
		assert.Empty(t, result.Findings)
	})

	t.Run("partial variant coverage is a violation", func(t *testing.T) {
		p := publishedProduct("Valve", []string{"component:valvestem"})
		p.Variants = []catalog.Variant{
			valveVariant("44mm", true, true),
			valveVariant("60mm", true, false),
		}

		msgs := violationMessages(t, evaluate(t, p))
		require.Len(t, msgs, 1)
		assert.Equal(t, "`weight_g` covers only 1 of 2 variants: set it on the product or on every variant", msgs[0])
	})

	t.Run("no weight anywhere is a violation", func(t *testing.T) {
		p := publishedProduct("Valve", []string{"component:valvestem"})
		p.Variants = []catalog.Variant{valveVariant("44mm", true, false)}

		msgs := violationMessages(t, evaluate(t, p))
		assert.Contains(t, msgs, "missing `weight_g`: set it on the product or on every variant")
	})

	t.Run("applies to category-less products too", func(t *testing.T) {
		p := publishedProduct("Sticker Pack", []string{"merch"})

		msgs := violationMessages(t, evaluate(t, p))
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "weight_g")
	})
}

func TestEvaluateMultiCategory(t *testing.T) {
	// A product tagged Hub and Spoke is checked against both rule lists; a
	// violation from one category never suppresses the other.
	p := publishedProduct("Hybrid", []string{"component:hub", "component:spoke"},
		attr(catalog.KeyWeightG, "300"),
	)
	p.Vendor = "Sapim"

	msgs := violationMessages(t, evaluate(t, p))
	assert.Contains(t, msgs, "missing required field `hub_type`")
	assert.Contains(t, msgs, "missing required field `spoke_model_group`")
	assert.Contains(t, msgs, "missing required field `spoke_cross_section_area_mm2`")
}

func TestEvaluateOrderIsStable(t *testing.T) {
	p := publishedProduct("Bare Rim", []string{"component:rim"})
	p.Variants = []catalog.Variant{{Title: "28h"}}

	first := evaluate(t, p)
	second := evaluate(t, p)
	require.Equal(t, first, second)

	// Violations follow rule declaration order: entity rim fields, variant
	// ERD, then the weight rule last.
	msgs := violationMessages(t, first)
	require.Equal(t, []string{
		"missing required field `rim_washer_policy`",
		"missing required field `rim_spoke_hole_offset`",
		"missing required field `rim_target_tension_kgf`",
		"variant `28h` missing required field `rim_erd`",
		"missing `weight_g`: set it on the product or on every variant",
	}, msgs)
}
