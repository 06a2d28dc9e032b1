package calendar

import (
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

// testTables is a trimmed copy of the production dataset with the rows
// the derivation edge cases need.
func testTables() content.Tables {
	return content.Tables{
		Series: []content.Series{
			{
				ID:           "checkitow",
				Title:        "Checkitow",
				Season:       "Season 7",
				PremiereDate: "2025-10",
				Pillar:       content.PillarCulture,
				ContentType:  content.TypeLongForm,
			},
			{
				ID:           "cultura-shock",
				Title:        "Cultura Shock",
				Season:       "Season 6",
				PremiereDate: "2025-10",
				Pillar:       content.PillarCulture,
				ContentType:  content.TypeLongForm,
			},
			{
				ID:           "blacktinidad",
				Title:        "Blacktinidad",
				Season:       "Season 8",
				PremiereDate: "2026-02",
				Pillar:       content.PillarRoots,
				ContentType:  content.TypeLongForm,
			},
			{
				ID:           "shades-of-beauty",
				Title:        "Shades of Beauty",
				Season:       "Season 1",
				PremiereDate: "2026-04",
				IsNew:        true,
				Pillar:       content.PillarRoots,
				ContentType:  content.TypeLongForm,
			},
			{
				ID:           "ponte-las-pilas",
				Title:        "Ponte Las Pilas",
				Season:       "Season 1",
				PremiereDate: "Ongoing",
				Pillar:       content.PillarCulture,
				ContentType:  content.TypeShortForm,
				ParentSeries: "cultura-shock",
			},
			{
				ID:           "truth-or-myth",
				Title:        "Truth or Myth",
				Season:       "Season 1",
				PremiereDate: "Ongoing",
				Pillar:       content.PillarLatina,
				ContentType:  content.TypeShortForm,
				ParentSeries: "Esencia: Latina Wellness", // title, not id
			},
			{
				ID:           "esencia-latina-wellness",
				Title:        "Esencia: Latina Wellness",
				Season:       "Season 3",
				PremiereDate: "2025-10",
				Pillar:       content.PillarLatina,
				ContentType:  content.TypeLongForm,
			},
		},
		Campaigns: []content.Campaign{
			{
				ID:                     "echoes-of-cultura-2025",
				Title:                  "Echoes of Cultura (Hispanic Heritage Month Campaign)",
				FlightDates:            "09/15 – 10/15",
				ParticipatingSeriesIDs: []string{"cultura-shock", "blacktinidad"},
				ContentType:            content.TypeNetworkCampaign,
			},
			{
				ID:                     "sin-city-musica-2025",
				Title:                  "Sin City Musica (Latin Recording Academy Awards Coverage)",
				FlightDates:            "11/10 – 11/17",
				ParticipatingSeriesIDs: []string{"cultura-shock", "checkitow", "gone-series"},
				ContentType:            content.TypeTentpole,
			},
			{
				ID:                     "hispanic-heritage-2026",
				Title:                  "Hispanic heritage 2026 campaign",
				FlightDates:            "2026: 09/15 – 10/15",
				ParticipatingSeriesIDs: []string{},
				ContentType:            content.TypeNetworkCampaign,
			},
			{
				ID:                     "earth-day-2026",
				Title:                  "Earth Day (Micro-campaign if needed)",
				FlightDates:            "04/22",
				ParticipatingSeriesIDs: []string{"blacktinidad"},
				ContentType:            content.TypeNetworkCampaign,
			},
			{
				ID:                     "mystery-campaign",
				Title:                  "Mystery Campaign",
				FlightDates:            "sometime soon",
				ParticipatingSeriesIDs: []string{},
				ContentType:            content.TypeNetworkCampaign,
			},
		},
		BrandedCampaigns: []content.BrandedCampaign{
			{
				ID:          "penguin-random-house-publishing",
				Title:       "Penguin Random House – Publishing",
				FlightDates: "JUNE – DECEMBER 2025",
				ContentType: content.TypeBranded,
			},
			{
				ID:          "gilead-biktarvy-living-y-ready-iii",
				Title:       "Gilead – Biktarvy – Living Y Ready III",
				FlightDates: "1/1 – 12/31 2025",
				ContentType: content.TypeBranded,
			},
			{
				ID:          "structured-window",
				Title:       "Structured Window Campaign",
				FlightDates: "whatever the prose says",
				Flight:      &schedule.MonthWindow{StartYear: 2026, StartMonth: 3, EndYear: 2026, EndMonth: 5},
				ContentType: content.TypeBranded,
			},
		},
		Events: []content.DatedItem{
			{ID: "latination-launch", Title: "LatiNation.com Launch", Date: "2025-09", Role: content.RoleEvent, ContentType: content.TypeSpecial},
			{ID: "latina-fest-2026", Title: "Latina Fest in Downtown LA", Date: "2026-08", Role: content.RoleEvent, ContentType: content.TypeSpecial},
		},
		Initiatives: []content.DatedItem{
			{ID: "thinknow-study", Title: "ThinkNow Study Release", Date: "2025-09", Role: content.RoleInitiative, ContentType: content.TypeSpecial},
		},
		Specials: []content.DatedItem{
			{ID: "latin-grammys-special-2025", Title: "Latin GRAMMY's Special", Date: "2025-11", Role: content.RoleSpecial, ContentType: content.TypeSpecial},
			{ID: "undated-special", Title: "Undated Special", Date: "TBD", Role: content.RoleSpecial, ContentType: content.TypeSpecial},
		},
	}
}

func testGenerator(diag schedule.Diagnostics) *Generator {
	catalog := content.NewCatalog(testTables(), schedule.NopDiagnostics{})
	return NewGenerator(catalog, schedule.DefaultSeason(), diag)
}
