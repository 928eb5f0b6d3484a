// Package policy decides whether a plan may publish a template with a given
// number of photos. Everything here is pure.
package policy

import (
	"strings"

	"valentine-pages/internal/catalog"
	"valentine-pages/internal/document"
)

type Reason string

const (
	TemplateNotPermitted Reason = "template_not_permitted"
	PhotoLimitExceeded   Reason = "photo_limit_exceeded"
)

type Decision struct {
	Allowed    bool
	Reason     Reason
	PhotoCount int
	MaxPhotos  int
	// NeededPlan is the cheapest plan that would allow the request, empty
	// when none would.
	NeededPlan string
}

func Evaluate(plan catalog.Plan, templateID string, photoCount int) Decision {
	if !plan.AllowsTemplate(templateID) {
		return Decision{
			Reason:     TemplateNotPermitted,
			PhotoCount: photoCount,
			MaxPhotos:  plan.MaxPhotos,
		}
	}
	if photoCount > plan.MaxPhotos {
		return Decision{
			Reason:     PhotoLimitExceeded,
			PhotoCount: photoCount,
			MaxPhotos:  plan.MaxPhotos,
		}
	}
	return Decision{
		Allowed:    true,
		PhotoCount: photoCount,
		MaxPhotos:  plan.MaxPhotos,
	}
}

// CountPhotos counts slots that hold an image; placeholders never count.
func CountPhotos(doc document.Document) int {
	count := 0
	for _, photo := range doc.Photos {
		if strings.TrimSpace(photo.Src) != "" {
			count++
		}
	}
	return count
}

type Engine struct {
	catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Check evaluates planID and, on denial, fills NeededPlan. ok is false when
// the plan is unknown.
func (e *Engine) Check(planID, templateID string, photoCount int) (Decision, bool) {
	plan, ok := e.catalog.Plan(planID)
	if !ok {
		return Decision{}, false
	}

	decision := Evaluate(plan, templateID, photoCount)
	if decision.Allowed {
		return decision, true
	}

	for _, candidate := range e.catalog.Plans() {
		if Evaluate(candidate, templateID, photoCount).Allowed {
			decision.NeededPlan = candidate.ID
			break
		}
	}
	return decision, true
}
