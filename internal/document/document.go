// Package document holds the canonical page document and the normalizer that
// turns editor payloads into it.
package document

const (
	TitleMax    = 140
	SubtitleMax = 500
	MomentsMax  = 12
	PhotosMax   = 20
)

const (
	SectionGallery  = "gallery"
	SectionLoveNote = "love-note"
	SectionMoments  = "moments"
)

var midnightPalettes = []string{"velvet", "ember", "moonlight"}

type Photo struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Caption string `json:"caption"`
	Order   int    `json:"order"`
}

// Card is a titled blurb used by perk cards and date plan steps.
type Card struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Music struct {
	URL      string   `json:"url"`
	Name     string   `json:"name"`
	Mime     string   `json:"mime,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// Document is the normalized page payload. Slices are never nil once
// normalized, so the JSON form always round-trips through Normalize.
type Document struct {
	TemplateID          string   `json:"templateId"`
	Tagline             string   `json:"tagline"`
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	LoveNote            string   `json:"loveNote"`
	LoveNotes           []string `json:"loveNotes"`
	LoveNoteTitles      []string `json:"loveNoteTitles"`
	MomentsTitle        string   `json:"momentsTitle"`
	Moments             []string `json:"moments"`
	SwoonLabel          string   `json:"swoonLabel"`
	SwoonHeadline       string   `json:"swoonHeadline"`
	SwoonBody           string   `json:"swoonBody"`
	SwoonTags           []string `json:"swoonTags"`
	PerkCards           []Card   `json:"perkCards"`
	DatePlanTitle       string   `json:"datePlanTitle"`
	DatePlanSteps       []Card   `json:"datePlanSteps"`
	PromiseTitle        string   `json:"promiseTitle"`
	PromiseItems        []string `json:"promiseItems"`
	Photos              []Photo  `json:"photos"`
	Music               *Music   `json:"music"`
	SelectedFont        string   `json:"selectedFont"`
	TitleSize           string   `json:"titleSize"`
	ShowSubtitle        bool     `json:"showSubtitle"`
	SectionOrder        []string `json:"sectionOrder"`
	PhotoMood           string   `json:"photoMood"`
	BackgroundIntensity string   `json:"backgroundIntensity"`
	MidnightPalette     string   `json:"midnightPalette"`
}

// Settings are the per-template inputs of normalization.
type Settings struct {
	MaxPhotos          int
	ExtraLoveNoteTitle string
	Defaults           Document
}

type SettingsLookup interface {
	TemplateSettings(templateID string) (Settings, bool)
}

func (d Document) Clone() Document {
	out := d
	out.LoveNotes = cloneStrings(d.LoveNotes)
	out.LoveNoteTitles = cloneStrings(d.LoveNoteTitles)
	out.Moments = cloneStrings(d.Moments)
	out.SwoonTags = cloneStrings(d.SwoonTags)
	out.PromiseItems = cloneStrings(d.PromiseItems)
	out.SectionOrder = cloneStrings(d.SectionOrder)
	out.PerkCards = append(make([]Card, 0, len(d.PerkCards)), d.PerkCards...)
	out.DatePlanSteps = append(make([]Card, 0, len(d.DatePlanSteps)), d.DatePlanSteps...)
	out.Photos = append(make([]Photo, 0, len(d.Photos)), d.Photos...)
	if d.Music != nil {
		music := *d.Music
		if d.Music.Duration != nil {
			duration := *d.Music.Duration
			music.Duration = &duration
		}
		out.Music = &music
	}
	return out
}

func cloneStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}
