package catalog

import (
	"fmt"

	"valentine-pages/internal/document"

	"github.com/shopspring/decimal"
)

const (
	TemplateCuteClassic  = "cute-classic"
	TemplateMidnightMuse = "midnight-muse"
	TemplateSunlitPicnic = "sunlit-picnic"
	TemplateGardenParty  = "garden-party"
	TemplateRetroLove    = "retro-love"
	TemplateStarlit      = "starlit-constellations"

	templateMaxPhotos = 15
)

// Default returns the production catalog.
func Default() *Catalog {
	plans := []Plan{
		{
			ID:        PlanNormal,
			Label:     "Normal",
			Price:     decimal.RequireFromString("9.99"),
			MaxPhotos: 6,
			Templates: []string{TemplateCuteClassic, TemplateMidnightMuse},
		},
		{
			ID:        PlanPro,
			Label:     "Pro",
			Price:     decimal.RequireFromString("15.00"),
			MaxPhotos: 15,
			Templates: []string{
				TemplateCuteClassic,
				TemplateMidnightMuse,
				TemplateSunlitPicnic,
				TemplateGardenParty,
				TemplateRetroLove,
			},
		},
	}

	templates := []Template{
		newTemplate(TemplateCuteClassic, "Cute Classic", "Extra love", func(d *document.Document) {
			d.Tagline = "Cute, goofy, totally smitten."
			d.Subtitle = "I made you a tiny corner of the internet. Scroll slowly."
			d.SelectedFont = "playful"
		}),
		newTemplate(TemplateMidnightMuse, "Midnight Muse", "Midnight echoes", func(d *document.Document) {
			d.Tagline = "Moody, cinematic, modern."
			d.Subtitle = "For the nights that glow and the moments that linger, this is for you."
			d.MomentsTitle = "Why you say yes"
			d.SwoonTags = []string{"afterglow", "slow burn", "electric", "inevitable"}
			d.SwoonLabel = "The answer"
			d.SwoonHeadline = "Yes"
			d.SwoonBody = "Because every late-night scene feels better with you in it."
			d.PerkCards = []document.Card{
				{Title: "Night drive", Body: "Windows down, city lights, our soundtrack."},
				{Title: "Rooftop pause", Body: "A skyline, a soft hand hold, and quiet smiles."},
				{Title: "Coffee run", Body: "Warm cups and even warmer laughs."},
				{Title: "Hidden playlist", Body: "Songs that feel like us on repeat."},
			}
			d.DatePlanTitle = "Our next scene"
			d.DatePlanSteps = []document.Card{
				{Title: "Scene one", Body: "Golden hour walk and a slow start."},
				{Title: "Scene two", Body: "Dinner, dessert, and a soft glow."},
				{Title: "Scene three", Body: "One last song and the best hug."},
			}
			d.PromiseTitle = "Afterglow promises"
			d.PromiseItems = []string{
				"Keep the late-night talks honest.",
				"Save a spot for you in every plan.",
				"Hold your hand through every scene.",
				"Always come back to us.",
			}
			d.SelectedFont = "romantic"
		}),
		newTemplate(TemplateSunlitPicnic, "Sunlit Picnic", "Golden note", func(d *document.Document) {
			d.Tagline = "Bright, breezy, joyful."
			d.Subtitle = "You are my sunny day, the soft breeze, and the calm I keep."
			d.MomentsTitle = "Reasons in the sunlight"
			d.SwoonTags = []string{"golden", "soft breeze", "sunbeam", "forever"}
			d.SwoonLabel = "Sunlit answer"
			d.SwoonHeadline = "Yes"
			d.SwoonBody = "For the soft mornings, bright afternoons, and the way you glow."
			d.PerkCards = []document.Card{
				{Title: "Blanket ready", Body: "Sun-warmed, corner tucked, made for two."},
				{Title: "Fresh blooms", Body: "Wildflowers and notes tucked inside."},
				{Title: "Sweet bites", Body: "Berries, pastries, and the last bite saved."},
				{Title: "Slow songs", Body: "A playlist for soft smiles and shared skies."},
			}
			d.DatePlanTitle = "Picnic plan"
			d.DatePlanSteps = []document.Card{
				{Title: "Find the light", Body: "A sunny spot with room for us."},
				{Title: "Unpack the magic", Body: "Tea, snacks, and handwritten notes."},
				{Title: "Stay a little longer", Body: "Stories, laughter, and slow kisses."},
			}
			d.PromiseTitle = "Sunlit quotes"
			d.PromiseItems = []string{
				"You are my favorite kind of morning.",
				"Every day is softer with you in it.",
				"Let us keep chasing the light together.",
				"You are my calm, my bloom, my yes.",
			}
		}),
		newTemplate(TemplateGardenParty, "Garden Party", "Garden note", func(d *document.Document) {
			d.Tagline = "Soft florals, sweet toasts."
			d.Subtitle = "A little love note, wrapped in petals and soft light."
			d.MomentsTitle = "Blooming moments"
			d.SwoonTags = []string{"petals", "evergreen", "sweetheart", "in bloom"}
			d.SwoonLabel = "Garden RSVP"
			d.SwoonHeadline = "Yes"
			d.SwoonBody = "Because every season with you feels like spring."
			d.PerkCards = []document.Card{
				{Title: "Fresh blooms", Body: "Wildflowers tucked with little notes."},
				{Title: "Sweet sips", Body: "Sparkling lemonade and shared smiles."},
				{Title: "Soft linens", Body: "Pastel ribbons and gentle textures."},
				{Title: "Golden hour", Body: "Light that makes everything glow."},
			}
			d.DatePlanTitle = "Garden party plan"
			d.DatePlanSteps = []document.Card{
				{Title: "Arrive in bloom", Body: "A soft entrance and a hand to hold."},
				{Title: "Toast and taste", Body: "Petite bites and sweet pours."},
				{Title: "Stroll the garden", Body: "A quiet walk and stolen smiles."},
			}
			d.PromiseTitle = "Garden toasts"
			d.PromiseItems = []string{
				"You make every day feel like a bouquet.",
				"Let us keep growing together, always.",
				"Your laugh is my favorite bloom.",
				"I choose you in every season.",
			}
			d.SelectedFont = "classic"
		}),
		newTemplate(TemplateRetroLove, "Retro Love", "Extra love", func(d *document.Document) {
			d.Tagline = "PLAYER 2"
			d.Title = "I LIKE U"
			d.Subtitle = "Insert heart to continue."
			d.LoveNotes = []string{"You just unlocked the bonus level of us."}
			d.MomentsTitle = "Replay list"
			d.SwoonLabel = "Tracking"
			d.SwoonHeadline = "LIKE, A LOT"
			d.SelectedFont = "playful"
		}),
		newTemplate(TemplateStarlit, "Starlit Constellations", "Extra love", func(d *document.Document) {
			d.Tagline = "Name a star"
			d.Title = "I'd name a star after you."
			d.Subtitle = "Every constellation I know points back to you."
			d.MomentsTitle = "Stars I have wished on"
			d.SwoonLabel = "Name a star"
			d.SwoonHeadline = "Yes, we are meant to be"
			d.SwoonBody = "Our story has always been written in the night sky. Every choice, every orbit, every light pulls us closer."
			d.SwoonTags = []string{"destiny", "quiet glow", "inevitable", "aligned"}
			d.PerkCards = []document.Card{
				{Title: "First radiance", Body: "The day our eyes met felt like the brightest starburst."},
				{Title: "Nebula whispers", Body: "Soft conversations that glow long after the night ends."},
				{Title: "Orbit ritual", Body: "We keep coming back to the same constellations, always brighter."},
				{Title: "Aurora pulse", Body: "Every shared dream adds a streak of light across a midnight canvas."},
			}
			d.DatePlanTitle = "Wish list"
			d.DatePlanSteps = []document.Card{
				{Title: "Trace our story", Body: "Pick a quiet rooftop or a spacious field, and name a star together."},
				{Title: "Shared galaxies", Body: "Swap playlists that feel like cosmic maps of us."},
				{Title: "Soft aurora", Body: "Let the night stretch as long as it needs to, with warm whispers and hand squeezes."},
			}
			d.PromiseTitle = "Orbit reasons"
			d.PromiseItems = []string{
				"I will always point you toward the brightest nights.",
				"Our love is a steady constellation across the seasons.",
				"I promise to notice the tiny stars you are made of.",
				"Your gravity keeps me grounded in the most beautiful orbit.",
			}
			d.Music = &document.Music{
				URL:  "/demos/audio/vincent-starry-night.mp3",
				Name: "Starry Night",
			}
		}),
	}

	return New(plans, templates)
}

func newTemplate(id, name, extraLoveTitle string, customize func(d *document.Document)) Template {
	doc := document.Document{
		TemplateID:     id,
		Tagline:        "Made with love.",
		Title:          "Will u be my Valentine?",
		Subtitle:       "",
		LoveNotes:      []string{"You make the ordinary feel like a celebration."},
		LoveNoteTitles: []string{"Love note"},
		MomentsTitle:   "Reasons I am obsessed with you",
		Moments: []string{
			"The way you laugh at your own jokes.",
			"How you always steal the blanket.",
			"Every slow morning with you.",
		},
		SwoonLabel:    "Swoon meter",
		SwoonHeadline: "Crush level: maxed",
		SwoonBody:     "Side effects include spontaneous smiling and extra cuddles.",
		SwoonTags:     []string{"giddy", "smitten", "sparkly", "obsessed"},
		PerkCards: []document.Card{
			{Title: "Snack mission", Body: "Crunchy, sweet, and extra napkins. We are prepared."},
			{Title: "Playlist swap", Body: "You pick the mood. I queue the heart songs."},
			{Title: "Hug voucher", Body: "Unlimited squeezes. Redeem any time you want."},
			{Title: "Meme reserve", Body: "Curated chaos, saved just for us."},
		},
		DatePlanTitle: "Our little plan",
		DatePlanSteps: []document.Card{
			{Title: "Plan A", Body: "Snacks, playlists, and the coziest couch fort."},
			{Title: "Plan B", Body: "Cute date and a photo booth moment."},
			{Title: "Plan C", Body: "Sunset walk and dessert that melts our hearts."},
		},
		PromiseTitle: "Tiny promises",
		PromiseItems: []string{
			"Always save you the last bite.",
			"Be your personal hype crew.",
			"Laugh at the dumb jokes, every time.",
			"Keep the hugs on standby.",
		},
		SelectedFont:        "soft",
		TitleSize:           "normal",
		ShowSubtitle:        true,
		SectionOrder:        []string{document.SectionGallery, document.SectionLoveNote, document.SectionMoments},
		PhotoMood:           "natural",
		BackgroundIntensity: "medium",
		MidnightPalette:     "velvet",
	}
	customize(&doc)
	doc.LoveNote = doc.LoveNotes[0]

	doc.Photos = make([]document.Photo, 3)
	for i := range doc.Photos {
		doc.Photos[i] = document.Photo{
			ID:    fmt.Sprintf("demo-%s-%d", id, i),
			Src:   fmt.Sprintf("/demos/%s/%d.jpg", id, i+1),
			Order: i,
		}
	}

	return Template{
		ID:   id,
		Name: name,
		Settings: document.Settings{
			MaxPhotos:          templateMaxPhotos,
			ExtraLoveNoteTitle: extraLoveTitle,
			Defaults:           doc,
		},
	}
}
