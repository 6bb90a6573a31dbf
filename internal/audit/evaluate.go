package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loamlabs/wheelhouse/internal/catalog"
)

// Violation is one unmet rule instance. It carries human-readable descriptions
// only, never attribute values.
type Violation struct {
	Product string
	// Variant is empty for entity-scope violations.
	Variant string
	Message string
}

// UnpublishedFinding reports a component tagged for the builder that is not
// Active and published to the online store.
type UnpublishedFinding struct {
	Product          string
	Status           catalog.Status
	HasStorefrontURL bool
}

// Finding groups all of one product's violations.
type Finding struct {
	Product    string
	Violations []Violation
}

// Result is the full outcome of evaluating a catalog snapshot.
type Result struct {
	Unpublished []UnpublishedFinding
	Findings    []Finding
}

// Issues counts every reportable problem in the result.
func (r Result) Issues() int {
	n := len(r.Unpublished)
	for _, f := range r.Findings {
		n += len(f.Violations)
	}
	return n
}

// Evaluator applies the rule table to classified products.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator constructs an evaluator that logs data anomalies (duplicate or
// unknown attribute keys) without failing the run.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate audits every product in source order. Excluded products contribute
// nothing. Unpublished products yield exactly one unpublished finding and no
// rule evaluation. Everything else is checked against each category it belongs
// to, in declared rule order, then against the weight rule.
func (e *Evaluator) Evaluate(ctx context.Context, products []catalog.Product) Result {
	var result Result

	for _, p := range products {
		class := Classify(p)
		if class.Excluded {
			continue
		}
		if !class.Published {
			result.Unpublished = append(result.Unpublished, UnpublishedFinding{
				Product:          p.Title,
				Status:           p.Status,
				HasStorefrontURL: p.OnlineStoreURL != "",
			})
			continue
		}

		if violations := e.evaluateProduct(ctx, p, class); len(violations) > 0 {
			result.Findings = append(result.Findings, Finding{
				Product:    p.Title,
				Violations: violations,
			})
		}
	}

	return result
}

func (e *Evaluator) evaluateProduct(ctx context.Context, p catalog.Product, class Classification) []Violation {
	entity := e.resolve(ctx, p.Title, "", p.Attributes)

	variants := make([]catalog.Lookup, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = e.resolve(ctx, p.Title, v.Title, v.Attributes)
	}

	var violations []Violation
	for _, cat := range categoryOrder {
		if !class.In(cat) {
			continue
		}
		for _, rule := range ruleTable[cat] {
			if !rule.fires(entity, p) {
				continue
			}
			switch rule.Scope {
			case ScopeEntity:
				if !entity.Has(rule.Key) {
					violations = append(violations, Violation{
						Product: p.Title,
						Message: fmt.Sprintf("missing required field `%s`", rule.Key),
					})
				}
			case ScopeVariant:
				for i, lookup := range variants {
					if !lookup.Has(rule.Key) {
						violations = append(violations, Violation{
							Product: p.Title,
							Variant: p.Variants[i].Title,
							Message: fmt.Sprintf("variant `%s` missing required field `%s`", p.Variants[i].Title, rule.Key),
						})
					}
				}
			}
		}
	}

	// The weight rule applies to every published component regardless of
	// category and is always evaluated last.
	if v := evaluateWeight(p, entity, variants); v != nil {
		violations = append(violations, *v)
	}

	return violations
}

// evaluateWeight requires weight_g on the product itself, or on every one of
// its variants. Partial variant coverage is a violation, not a pass.
func evaluateWeight(p catalog.Product, entity catalog.Lookup, variants []catalog.Lookup) *Violation {
	if entity.Has(catalog.KeyWeightG) {
		return nil
	}

	covered := 0
	for _, lookup := range variants {
		if lookup.Has(catalog.KeyWeightG) {
			covered++
		}
	}
	if len(variants) > 0 && covered == len(variants) {
		return nil
	}

	msg := fmt.Sprintf("missing `%s`: set it on the product or on every variant", catalog.KeyWeightG)
	if covered > 0 {
		msg = fmt.Sprintf("`%s` covers only %d of %d variants: set it on the product or on every variant",
			catalog.KeyWeightG, covered, len(variants))
	}
	return &Violation{Product: p.Title, Message: msg}
}

// resolve flattens one scope's attributes and logs any data anomalies.
func (e *Evaluator) resolve(ctx context.Context, product, variant string, attrs []catalog.Attribute) catalog.Lookup {
	lookup, stats := catalog.Flatten(attrs)
	if len(stats.Duplicates) > 0 {
		e.logger.DebugContext(ctx, "duplicate attribute keys, last value wins",
			"product", product,
			"variant", variant,
			"keys", stats.Duplicates,
		)
	}
	if len(stats.Unknown) > 0 {
		e.logger.DebugContext(ctx, "unknown attribute keys ignored by rules",
			"product", product,
			"variant", variant,
			"keys", stats.Unknown,
		)
	}
	return lookup
}
