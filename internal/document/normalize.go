package document

import (
	"encoding/json"
	"math"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

type Normalizer struct {
	settings SettingsLookup
	newID    func() string
}

func NewNormalizer(settings SettingsLookup) *Normalizer {
	return &Normalizer{
		settings: settings,
		newID:    func() string { return "photo-" + uuid.NewString() },
	}
}

// Normalize validates raw and coerces it into the canonical document for
// templateID. It never mutates shared defaults and is idempotent over its own
// JSON output.
func (n *Normalizer) Normalize(templateID string, raw []byte) (Document, error) {
	settings, ok := n.settings.TemplateSettings(templateID)
	if !ok {
		return Document{}, invalid(ErrUnknownTemplate, "Invalid template.")
	}

	var parsed any
	if len(raw) == 0 || json.Unmarshal(raw, &parsed) != nil {
		return Document{}, invalid(ErrShape, "Invalid document.")
	}
	fields, ok := parsed.(map[string]any)
	if !ok {
		return Document{}, invalid(ErrShape, "Invalid document.")
	}

	if err := validate(fields); err != nil {
		return Document{}, err
	}

	return n.coerce(templateID, settings, fields), nil
}

func validate(fields map[string]any) *ValidationError {
	title, _ := fields["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > TitleMax {
		return invalid(ErrTitle, "Title is required and must be under 140 characters.")
	}

	if subtitle, ok := fields["subtitle"].(string); ok && utf8.RuneCountInString(subtitle) > SubtitleMax {
		return invalid(ErrSubtitle, "Subtitle is too long.")
	}

	moments, ok := fields["moments"].([]any)
	if !ok {
		return invalid(ErrMomentsShape, "Moments must be an array.")
	}
	if len(moments) > MomentsMax {
		return invalid(ErrMomentsCount, "Too many moments.")
	}

	photos, ok := fields["photos"].([]any)
	if !ok {
		return invalid(ErrPhotosShape, "Photos must be an array.")
	}
	if len(photos) > PhotosMax {
		return invalid(ErrPhotosCount, "Too many photos.")
	}

	return nil
}

func (n *Normalizer) coerce(templateID string, settings Settings, fields map[string]any) Document {
	defaults := settings.Defaults.Clone()

	doc := Document{
		TemplateID:          templateID,
		Tagline:             stringOr(fields["tagline"], defaults.Tagline),
		Title:               strings.TrimSpace(fields["title"].(string)),
		Subtitle:            stringOr(fields["subtitle"], defaults.Subtitle),
		MomentsTitle:        stringOr(fields["momentsTitle"], defaults.MomentsTitle),
		Moments:             stringsOf(fields["moments"]),
		SwoonLabel:          stringOr(fields["swoonLabel"], defaults.SwoonLabel),
		SwoonHeadline:       stringOr(fields["swoonHeadline"], defaults.SwoonHeadline),
		SwoonBody:           stringOr(fields["swoonBody"], defaults.SwoonBody),
		SwoonTags:           overlay(defaults.SwoonTags, stringsOf(fields["swoonTags"])),
		PerkCards:           overlayCards(defaults.PerkCards, fields["perkCards"]),
		DatePlanTitle:       stringOr(fields["datePlanTitle"], defaults.DatePlanTitle),
		DatePlanSteps:       overlayCards(defaults.DatePlanSteps, fields["datePlanSteps"]),
		PromiseTitle:        stringOr(fields["promiseTitle"], defaults.PromiseTitle),
		PromiseItems:        overlay(defaults.PromiseItems, stringsOf(fields["promiseItems"])),
		Music:               coerceMusic(fields["music"], defaults.Music),
		SelectedFont:        nonEmptyOr(fields["selectedFont"], defaults.SelectedFont),
		TitleSize:           nonEmptyOr(fields["titleSize"], defaults.TitleSize),
		ShowSubtitle:        boolOr(fields["showSubtitle"], defaults.ShowSubtitle),
		SectionOrder:        coerceSectionOrder(fields["sectionOrder"], defaults.SectionOrder),
		PhotoMood:           nonEmptyOr(fields["photoMood"], defaults.PhotoMood),
		BackgroundIntensity: nonEmptyOr(fields["backgroundIntensity"], defaults.BackgroundIntensity),
		MidnightPalette:     defaults.MidnightPalette,
	}

	if palette, ok := fields["midnightPalette"].(string); ok && slices.Contains(midnightPalettes, palette) {
		doc.MidnightPalette = palette
	}

	doc.LoveNotes = stringsOf(fields["loveNotes"])
	if len(doc.LoveNotes) == 0 {
		if note, ok := fields["loveNote"].(string); ok {
			doc.LoveNotes = []string{note}
		} else {
			doc.LoveNotes = defaults.LoveNotes
		}
	}
	doc.LoveNote = defaults.LoveNote
	if len(doc.LoveNotes) > 0 {
		doc.LoveNote = doc.LoveNotes[0]
	}

	titles := stringsOf(fields["loveNoteTitles"])
	doc.LoveNoteTitles = make([]string, len(doc.LoveNotes))
	for i := range doc.LoveNotes {
		switch {
		case i < len(titles):
			doc.LoveNoteTitles[i] = titles[i]
		case i < len(defaults.LoveNoteTitles):
			doc.LoveNoteTitles[i] = defaults.LoveNoteTitles[i]
		default:
			doc.LoveNoteTitles[i] = settings.ExtraLoveNoteTitle
		}
	}

	doc.Photos = n.coercePhotos(fields["photos"], settings.MaxPhotos)
	if len(doc.Photos) == 0 {
		doc.Photos = capPhotos(defaults.Photos, settings.MaxPhotos)
	}

	return doc
}

type rankedPhoto struct {
	photo Photo
	rank  float64
}

// coercePhotos keeps object entries, orders them by the client's order field
// (position breaks ties and fills gaps), caps them and renumbers from zero.
func (n *Normalizer) coercePhotos(value any, maxPhotos int) []Photo {
	items, _ := value.([]any)

	ranked := make([]rankedPhoto, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rank := float64(i)
		if order, ok := entry["order"].(float64); ok && !math.IsNaN(order) && !math.IsInf(order, 0) {
			rank = order
		}
		id, _ := entry["id"].(string)
		src, _ := entry["src"].(string)
		caption, _ := entry["caption"].(string)
		ranked = append(ranked, rankedPhoto{
			photo: Photo{ID: id, Src: src, Caption: caption},
			rank:  rank,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].rank < ranked[j].rank
	})

	if maxPhotos > 0 && len(ranked) > maxPhotos {
		ranked = ranked[:maxPhotos]
	}

	photos := make([]Photo, len(ranked))
	for i, r := range ranked {
		photo := r.photo
		if strings.TrimSpace(photo.ID) == "" {
			photo.ID = n.newID()
		}
		photo.Order = i
		photos[i] = photo
	}
	return photos
}

func capPhotos(photos []Photo, maxPhotos int) []Photo {
	if maxPhotos > 0 && len(photos) > maxPhotos {
		return photos[:maxPhotos]
	}
	return photos
}

func coerceMusic(value any, fallback *Music) *Music {
	entry, ok := value.(map[string]any)
	if !ok {
		return fallback
	}
	url, urlOK := entry["url"].(string)
	name, nameOK := entry["name"].(string)
	if !urlOK || !nameOK {
		return fallback
	}

	music := &Music{URL: url, Name: name}
	if mime, ok := entry["mime"].(string); ok {
		music.Mime = mime
	}
	if duration, ok := entry["duration"].(float64); ok {
		music.Duration = &duration
	}
	return music
}

func coerceSectionOrder(value any, fallback []string) []string {
	allowed := []string{SectionGallery, SectionLoveNote, SectionMoments}

	order := make([]string, 0, len(allowed))
	for _, section := range stringsOf(value) {
		if slices.Contains(allowed, section) && !slices.Contains(order, section) {
			order = append(order, section)
		}
	}
	if len(order) != len(allowed) {
		return fallback
	}
	return order
}

// overlay keeps the shape of defaults, replacing entries the input supplies.
func overlay(defaults []string, input []string) []string {
	out := make([]string, len(defaults))
	for i, item := range defaults {
		if i < len(input) {
			out[i] = input[i]
		} else {
			out[i] = item
		}
	}
	return out
}

// overlayCards is overlay for cards: each input object may replace the title
// or body of the default at the same index.
func overlayCards(defaults []Card, input any) []Card {
	items, _ := input.([]any)
	out := make([]Card, len(defaults))
	for i, card := range defaults {
		out[i] = card
		if i >= len(items) {
			continue
		}
		entry, ok := items[i].(map[string]any)
		if !ok {
			continue
		}
		out[i].Title = stringOr(entry["title"], card.Title)
		out[i].Body = stringOr(entry["body"], card.Body)
	}
	return out
}

func stringsOf(value any) []string {
	items, _ := value.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringOr(value any, fallback string) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fallback
}

func nonEmptyOr(value any, fallback string) string {
	if s, ok := value.(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolOr(value any, fallback bool) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}
