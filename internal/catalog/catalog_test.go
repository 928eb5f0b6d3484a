package catalog

import (
	"testing"
)

func TestDefaultPlans(t *testing.T) {
	c := Default()

	normal, ok := c.Plan(PlanNormal)
	if !ok {
		t.Fatal("normal plan missing")
	}
	if normal.MaxPhotos != 6 || normal.Price.StringFixed(2) != "9.99" {
		t.Fatalf("normal = %d photos at %s", normal.MaxPhotos, normal.Price.StringFixed(2))
	}

	pro, ok := c.Plan(PlanPro)
	if !ok {
		t.Fatal("pro plan missing")
	}
	if pro.MaxPhotos != 15 {
		t.Fatalf("pro max photos = %d, want 15", pro.MaxPhotos)
	}

	// every template the cheaper plan offers is also on pro
	for _, id := range normal.Templates {
		if !pro.AllowsTemplate(id) {
			t.Fatalf("pro does not allow %s", id)
		}
	}

	if plans := c.Plans(); len(plans) != 2 || plans[0].ID != PlanNormal {
		t.Fatalf("plans out of order: %+v", plans)
	}
}

func TestTemplateSettingsAreIsolated(t *testing.T) {
	c := Default()

	settings, ok := c.TemplateSettings(TemplateCuteClassic)
	if !ok {
		t.Fatal("cute-classic missing")
	}
	settings.Defaults.SwoonTags[0] = "mutated"
	settings.Defaults.Photos[0].Src = "mutated"

	again, _ := c.TemplateSettings(TemplateCuteClassic)
	if again.Defaults.SwoonTags[0] == "mutated" || again.Defaults.Photos[0].Src == "mutated" {
		t.Fatal("defaults shared between callers")
	}
}

func TestEveryTemplateHasDefaults(t *testing.T) {
	c := Default()
	for _, id := range []string{
		TemplateCuteClassic, TemplateMidnightMuse, TemplateSunlitPicnic,
		TemplateGardenParty, TemplateRetroLove, TemplateStarlit,
	} {
		tmpl, ok := c.Template(id)
		if !ok {
			t.Fatalf("template %s missing", id)
		}
		d := tmpl.Settings.Defaults
		if d.TemplateID != id || d.Title == "" || len(d.SectionOrder) != 3 {
			t.Fatalf("template %s has incomplete defaults: %+v", id, d)
		}
		if tmpl.Settings.MaxPhotos != 15 {
			t.Fatalf("template %s photo cap = %d", id, tmpl.Settings.MaxPhotos)
		}
	}

	if _, ok := c.TemplateSettings("unknown"); ok {
		t.Fatal("unknown template resolved")
	}
}
