// Package content defines the programming-calendar content model and its
// loading, indexing and validation. Tables are hand-maintained YAML; the
// model is read-mostly and immutable once a Catalog is built.
package content

import "github.com/latination/lineup/internal/schedule"

// ContentType classifies every item in the catalog.
type ContentType string

const (
	TypeNetworkCampaign ContentType = "LatiNation Campaign"
	TypeTentpole        ContentType = "Tentpole Campaign"
	TypeBranded         ContentType = "Branded Content Campaign"
	TypeLongForm        ContentType = "Long-form Series"
	TypeShortForm       ContentType = "Short-form Series"
	TypeSpecial         ContentType = "Special"
)

// Pillar is one of the four fixed content verticals.
type Pillar string

const (
	PillarRoots   Pillar = "Roots"
	PillarCulture Pillar = "Culture"
	PillarLatina  Pillar = "Latina"
	PillarQueer   Pillar = "Queer"
)

// ValidPillar reports whether p names one of the four verticals.
func ValidPillar(p Pillar) bool {
	switch p {
	case PillarRoots, PillarCulture, PillarLatina, PillarQueer:
		return true
	}
	return false
}

// Series is a long-form or short-form show.
//
// PremiereDate is "YYYY-MM" or "YYYY-MM-DD"; anything else (the tables use
// "Ongoing" for evergreen short-form) means the series has no calendar
// placement. ParentSeries historically holds either a series id or a human
// title; resolution is id-first with a slug-of-title fallback.
type Series struct {
	ID               string      `yaml:"id" json:"id"`
	Title            string      `yaml:"title" json:"title"`
	Season           string      `yaml:"season" json:"season"`
	PremiereDate     string      `yaml:"premiere_date" json:"premiereDate"`
	EpisodesAnnually string      `yaml:"episodes_annually,omitempty" json:"episodesAnnually,omitempty"`
	Description      string      `yaml:"description,omitempty" json:"description,omitempty"`
	IsNew            bool        `yaml:"is_new,omitempty" json:"isNew"`
	Pillar           Pillar      `yaml:"pillar,omitempty" json:"pillar,omitempty"`
	ContentType      ContentType `yaml:"content_type" json:"contentType"`
	ParentSeries     string      `yaml:"parent_series,omitempty" json:"parentSeries,omitempty"`

	// Sales/performance metadata, only meaningful for short-form series.
	OpportunityForSales string `yaml:"opportunity_for_sales,omitempty" json:"opportunityForSales,omitempty"`
	BestPerformingVideo string `yaml:"best_performing_video,omitempty" json:"bestPerformingVideo,omitempty"`
	OverallTopStats     string `yaml:"overall_top_stats,omitempty" json:"overallTopStats,omitempty"`
	KeyGuests           string `yaml:"key_guests,omitempty" json:"keyGuests,omitempty"`
}

// Campaign is a network or tentpole campaign with a free-text flight range
// and an ordered list of participating series ids (display order).
type Campaign struct {
	ID                     string      `yaml:"id" json:"id"`
	Title                  string      `yaml:"title" json:"title"`
	FlightDates            string      `yaml:"flight_dates" json:"flightDates"`
	Overview               string      `yaml:"overview,omitempty" json:"overview,omitempty"`
	Platforms              string      `yaml:"platforms,omitempty" json:"platforms,omitempty"`
	Deliverables           string      `yaml:"deliverables,omitempty" json:"deliverables,omitempty"`
	ParticipatingSeriesIDs []string    `yaml:"participating_series_ids" json:"participatingSeriesIds"`
	ContentType            ContentType `yaml:"content_type" json:"contentType"`
}

// BrandedCampaign is a sponsor-funded campaign. Flight dates are prose
// ("JUNE – DECEMBER 2025") unless the structured Flight window is set,
// which takes precedence over parsing the prose.
type BrandedCampaign struct {
	ID           string                `yaml:"id" json:"id"`
	Title        string                `yaml:"title" json:"title"`
	FlightDates  string                `yaml:"flight_dates" json:"flightDates"`
	Flight       *schedule.MonthWindow `yaml:"flight,omitempty" json:"flight,omitempty"`
	Description  string                `yaml:"description,omitempty" json:"description,omitempty"`
	Deliverables string                `yaml:"deliverables,omitempty" json:"deliverables,omitempty"`
	CampaignType string                `yaml:"campaign_type,omitempty" json:"campaignType,omitempty"`
	ContentType  ContentType           `yaml:"content_type" json:"contentType"`
}

// Role distinguishes the three kinds of dated notes the calendar carries.
type Role string

const (
	RoleEvent      Role = "event"
	RoleInitiative Role = "initiative"
	RoleSpecial    Role = "special"
)

// DatedItem is a dated note: an event, a key initiative or a special.
// The three are structurally identical and differ only in role.
type DatedItem struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Date        string      `yaml:"date" json:"date"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	ContentType ContentType `yaml:"content_type" json:"contentType"`
	Role        Role        `yaml:"-" json:"role"`
}

// Tables holds the raw content tables as loaded, before indexing.
type Tables struct {
	Series           []Series
	Campaigns        []Campaign
	BrandedCampaigns []BrandedCampaign
	Events           []DatedItem
	Initiatives      []DatedItem
	Specials         []DatedItem
}
