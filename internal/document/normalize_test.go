package document_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"valentine-pages/internal/catalog"
	"valentine-pages/internal/document"
)

func newNormalizer() *document.Normalizer {
	return document.NewNormalizer(catalog.Default())
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func photos(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"id":    fmt.Sprintf("p%d", i),
			"src":   fmt.Sprintf("https://cdn.example.com/%d.jpg", i),
			"order": i,
		}
	}
	return out
}

func TestNormalizeRejects(t *testing.T) {
	n := newNormalizer()

	tests := []struct {
		name     string
		template string
		raw      string
		kind     document.ErrorKind
	}{
		{"unknown template", "nope", `{"title":"Hi","moments":[],"photos":[]}`, document.ErrUnknownTemplate},
		{"not json", catalog.TemplateCuteClassic, `{`, document.ErrShape},
		{"not an object", catalog.TemplateCuteClassic, `[1,2]`, document.ErrShape},
		{"empty body", catalog.TemplateCuteClassic, ``, document.ErrShape},
		{"missing title", catalog.TemplateCuteClassic, `{"moments":[],"photos":[]}`, document.ErrTitle},
		{"blank title", catalog.TemplateCuteClassic, `{"title":"   ","moments":[],"photos":[]}`, document.ErrTitle},
		{"title not string", catalog.TemplateCuteClassic, `{"title":42,"moments":[],"photos":[]}`, document.ErrTitle},
		{"long title", catalog.TemplateCuteClassic, `{"title":"` + strings.Repeat("x", 141) + `","moments":[],"photos":[]}`, document.ErrTitle},
		{"long subtitle", catalog.TemplateCuteClassic, `{"title":"Hi","subtitle":"` + strings.Repeat("x", 501) + `","moments":[],"photos":[]}`, document.ErrSubtitle},
		{"moments missing", catalog.TemplateCuteClassic, `{"title":"Hi","photos":[]}`, document.ErrMomentsShape},
		{"moments object", catalog.TemplateCuteClassic, `{"title":"Hi","moments":{},"photos":[]}`, document.ErrMomentsShape},
		{"too many moments", catalog.TemplateCuteClassic, `{"title":"Hi","moments":["1","2","3","4","5","6","7","8","9","10","11","12","13"],"photos":[]}`, document.ErrMomentsCount},
		{"photos missing", catalog.TemplateCuteClassic, `{"title":"Hi","moments":[]}`, document.ErrPhotosShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.template, []byte(tt.raw))
			var verr *document.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", verr.Kind, tt.kind)
			}
		})
	}
}

func TestNormalizeTitleMessage(t *testing.T) {
	_, err := newNormalizer().Normalize(catalog.TemplateCuteClassic, []byte(`{"title":"","moments":[],"photos":[]}`))
	var verr *document.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Title is required and must be under 140 characters." {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeTooManyPhotos(t *testing.T) {
	raw := mustJSON(t, map[string]any{"title": "Hi", "moments": []string{}, "photos": photos(21)})
	_, err := newNormalizer().Normalize(catalog.TemplateCuteClassic, raw)
	var verr *document.ValidationError
	if !errors.As(err, &verr) || verr.Kind != document.ErrPhotosCount {
		t.Fatalf("err = %v, want too_many_photos", err)
	}
}

func TestNormalizeAcceptsLimits(t *testing.T) {
	raw := mustJSON(t, map[string]any{
		"title":    strings.Repeat("é", 140),
		"subtitle": strings.Repeat("s", 500),
		"moments":  make([]string, 12),
		"photos":   photos(20),
	})
	doc, err := newNormalizer().Normalize(catalog.TemplateCuteClassic, raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	// template cap, not the validation limit
	if len(doc.Photos) != 15 {
		t.Fatalf("photos = %d, want 15", len(doc.Photos))
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	doc, err := newNormalizer().Normalize(catalog.TemplateMidnightMuse,
		[]byte(`{"title":"  Be mine  ","moments":["first"],"photos":[],"swoonTags":["one"]}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if doc.TemplateID != catalog.TemplateMidnightMuse {
		t.Fatalf("templateId = %q", doc.TemplateID)
	}
	if doc.Title != "Be mine" {
		t.Fatalf("title = %q", doc.Title)
	}
	if doc.PromiseTitle != "Afterglow promises" || doc.SelectedFont != "romantic" {
		t.Fatalf("template defaults not applied: %q %q", doc.PromiseTitle, doc.SelectedFont)
	}
	want := []string{"one", "slow burn", "electric", "inevitable"}
	if !reflect.DeepEqual(doc.SwoonTags, want) {
		t.Fatalf("swoonTags = %v, want %v", doc.SwoonTags, want)
	}
	if !reflect.DeepEqual(doc.Moments, []string{"first"}) {
		t.Fatalf("moments = %v", doc.Moments)
	}
	if len(doc.Photos) != 3 || doc.Photos[0].Src != "/demos/midnight-muse/1.jpg" {
		t.Fatalf("photos = %v, want the template's demo photos", doc.Photos)
	}
	if doc.SwoonLabel != "The answer" || doc.DatePlanTitle != "Our next scene" || len(doc.PerkCards) != 4 {
		t.Fatalf("swoon/plan defaults not applied: %q %q %v", doc.SwoonLabel, doc.DatePlanTitle, doc.PerkCards)
	}
	if doc.LoveNote != doc.LoveNotes[0] {
		t.Fatalf("loveNote = %q, want first of %v", doc.LoveNote, doc.LoveNotes)
	}
	if len(doc.LoveNotes) != 1 || len(doc.LoveNoteTitles) != 1 || doc.LoveNoteTitles[0] != "Love note" {
		t.Fatalf("love notes = %v / %v", doc.LoveNotes, doc.LoveNoteTitles)
	}
}

func TestNormalizeLoveNotes(t *testing.T) {
	n := newNormalizer()

	doc, err := n.Normalize(catalog.TemplateCuteClassic,
		[]byte(`{"title":"Hi","moments":[],"photos":[],"loveNote":"legacy note"}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(doc.LoveNotes, []string{"legacy note"}) {
		t.Fatalf("loveNotes = %v", doc.LoveNotes)
	}

	doc, err = n.Normalize(catalog.TemplateSunlitPicnic,
		[]byte(`{"title":"Hi","moments":[],"photos":[],"loveNotes":["a","b","c"],"loveNoteTitles":["First"]}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"First", "Golden note", "Golden note"}
	if !reflect.DeepEqual(doc.LoveNoteTitles, want) {
		t.Fatalf("loveNoteTitles = %v, want %v", doc.LoveNoteTitles, want)
	}
}

func TestNormalizeCards(t *testing.T) {
	doc, err := newNormalizer().Normalize(catalog.TemplateCuteClassic, []byte(`{
		"title":"Hi","moments":[],"photos":[],
		"perkCards":[{"title":"Mine","body":"custom"},"junk",{"title":7,"body":"only body"}],
		"datePlanTitle":"Our plan",
		"datePlanSteps":[{"title":"Step one"},{},{"body":"b"},{"title":"extra","body":"dropped"}],
		"swoonHeadline":"Custom headline",
		"swoonBody":""
	}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	wantPerks := []document.Card{
		{Title: "Mine", Body: "custom"},
		{Title: "Playlist swap", Body: "You pick the mood. I queue the heart songs."},
		{Title: "Hug voucher", Body: "only body"},
		{Title: "Meme reserve", Body: "Curated chaos, saved just for us."},
	}
	if !reflect.DeepEqual(doc.PerkCards, wantPerks) {
		t.Fatalf("perkCards = %v, want %v", doc.PerkCards, wantPerks)
	}
	wantSteps := []document.Card{
		{Title: "Step one", Body: "Snacks, playlists, and the coziest couch fort."},
		{Title: "Plan B", Body: "Cute date and a photo booth moment."},
		{Title: "Plan C", Body: "b"},
	}
	if !reflect.DeepEqual(doc.DatePlanSteps, wantSteps) {
		t.Fatalf("datePlanSteps = %v, want %v", doc.DatePlanSteps, wantSteps)
	}
	if doc.DatePlanTitle != "Our plan" || doc.SwoonHeadline != "Custom headline" {
		t.Fatalf("datePlanTitle = %q, swoonHeadline = %q", doc.DatePlanTitle, doc.SwoonHeadline)
	}
	if doc.SwoonLabel != "Swoon meter" || doc.SwoonBody != "" {
		t.Fatalf("swoonLabel = %q, swoonBody = %q", doc.SwoonLabel, doc.SwoonBody)
	}
}

func TestNormalizeDefaultPhotos(t *testing.T) {
	n := newNormalizer()

	doc, err := n.Normalize(catalog.TemplateSunlitPicnic, []byte(`{"title":"Hi","moments":[],"photos":["not a photo"]}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(doc.Photos) != 3 {
		t.Fatalf("photos = %v, want 3 demo photos", doc.Photos)
	}
	for i, p := range doc.Photos {
		if p.Order != i || p.ID != fmt.Sprintf("demo-%s-%d", catalog.TemplateSunlitPicnic, i) {
			t.Fatalf("photo %d = %+v", i, p)
		}
	}

	doc, err = n.Normalize(catalog.TemplateSunlitPicnic, []byte(`{"title":"Hi","moments":[],"photos":[{"src":"mine.jpg"}]}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(doc.Photos) != 1 || doc.Photos[0].Src != "mine.jpg" {
		t.Fatalf("photos = %v, want only the supplied photo", doc.Photos)
	}
}

func TestNormalizePhotoOrder(t *testing.T) {
	raw := []byte(`{"title":"Hi","moments":[],"photos":[
		{"id":"c","src":"c.jpg","order":7},
		{"id":"a","src":"a.jpg","order":-1},
		"not a photo",
		{"src":"b.jpg","order":2},
		{"id":"d","src":"d.jpg","order":2}
	]}`)
	doc, err := newNormalizer().Normalize(catalog.TemplateCuteClassic, raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	var srcs []string
	for i, p := range doc.Photos {
		if p.Order != i {
			t.Fatalf("photo %d has order %d", i, p.Order)
		}
		if p.ID == "" {
			t.Fatalf("photo %d has no id", i)
		}
		srcs = append(srcs, p.Src)
	}
	if want := []string{"a.jpg", "b.jpg", "d.jpg", "c.jpg"}; !reflect.DeepEqual(srcs, want) {
		t.Fatalf("order = %v, want %v", srcs, want)
	}
	if !strings.HasPrefix(doc.Photos[1].ID, "photo-") {
		t.Fatalf("generated id = %q", doc.Photos[1].ID)
	}
	if doc.Photos[0].ID != "a" {
		t.Fatalf("kept id = %q", doc.Photos[0].ID)
	}
}

func TestNormalizeEnums(t *testing.T) {
	doc, err := newNormalizer().Normalize(catalog.TemplateMidnightMuse, []byte(`{
		"title":"Hi","moments":[],"photos":[],
		"sectionOrder":["moments","gallery","moments"],
		"midnightPalette":"neon",
		"music":{"url":"/a.mp3","name":"Song","duration":12.5},
		"showSubtitle":false
	}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := []string{"gallery", "love-note", "moments"}; !reflect.DeepEqual(doc.SectionOrder, want) {
		t.Fatalf("sectionOrder = %v, want default %v", doc.SectionOrder, want)
	}
	if doc.MidnightPalette != "velvet" {
		t.Fatalf("midnightPalette = %q", doc.MidnightPalette)
	}
	if doc.Music == nil || doc.Music.Name != "Song" || doc.Music.Duration == nil || *doc.Music.Duration != 12.5 {
		t.Fatalf("music = %+v", doc.Music)
	}
	if doc.ShowSubtitle {
		t.Fatal("showSubtitle should be false")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newNormalizer()
	inputs := []string{
		`{"title":"Hi","moments":[],"photos":[]}`,
		`{"title":" Hi ","subtitle":"sub","moments":["a","b"],"photos":[{"src":"x.jpg","order":3},{"src":"y.jpg","order":1}],"loveNote":"n","sectionOrder":["moments","love-note","gallery"]}`,
		`{"title":"Hi","moments":[],"photos":[],"perkCards":[{"title":"Mine","body":"custom"}],"datePlanTitle":"Our plan","datePlanSteps":[null,{"body":"later"}],"swoonHeadline":"Custom headline"}`,
	}
	for _, template := range []string{catalog.TemplateCuteClassic, catalog.TemplateStarlit} {
		for _, raw := range inputs {
			first, err := n.Normalize(template, []byte(raw))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			second, err := n.Normalize(template, mustJSON(t, first))
			if err != nil {
				t.Fatalf("Normalize again: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("not idempotent for %s:\nfirst  %+v\nsecond %+v", template, first, second)
			}
		}
	}
}

func TestNormalizeDoesNotLeakDefaults(t *testing.T) {
	n := newNormalizer()
	doc, err := n.Normalize(catalog.TemplateCuteClassic, []byte(`{"title":"Hi","moments":[],"photos":[]}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	doc.PromiseItems[0] = "mutated"

	again, err := n.Normalize(catalog.TemplateCuteClassic, []byte(`{"title":"Hi","moments":[],"photos":[]}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if again.PromiseItems[0] == "mutated" {
		t.Fatal("template defaults were mutated")
	}
}
