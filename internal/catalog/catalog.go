// Package catalog is the compiled-in plan and template configuration. It is
// built once at startup and handed to the components that need it.
package catalog

import (
	"slices"

	"valentine-pages/internal/document"

	"github.com/shopspring/decimal"
)

const (
	PlanNormal = "normal"
	PlanPro    = "pro"
)

type Plan struct {
	ID        string
	Label     string
	Price     decimal.Decimal
	MaxPhotos int
	Templates []string
}

func (p Plan) AllowsTemplate(templateID string) bool {
	return slices.Contains(p.Templates, templateID)
}

type Template struct {
	ID       string
	Name     string
	Settings document.Settings
}

type Catalog struct {
	plans     []Plan
	templates map[string]Template
}

// New builds a catalog. Plans are kept in the given order, which is also the
// upgrade order used when suggesting a plan.
func New(plans []Plan, templates []Template) *Catalog {
	c := &Catalog{
		plans:     slices.Clone(plans),
		templates: make(map[string]Template, len(templates)),
	}
	for _, t := range templates {
		c.templates[t.ID] = t
	}
	return c
}

func (c *Catalog) Plan(id string) (Plan, bool) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

func (c *Catalog) Plans() []Plan {
	return slices.Clone(c.plans)
}

func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.templates[id]
	return t, ok
}

func (c *Catalog) TemplateSettings(id string) (document.Settings, bool) {
	t, ok := c.templates[id]
	if !ok {
		return document.Settings{}, false
	}
	settings := t.Settings
	settings.Defaults = t.Settings.Defaults.Clone()
	return settings, true
}
