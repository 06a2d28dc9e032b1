// Package calendar derives the monthly programming view from the content
// catalog: which campaigns are in flight, which series premiere, which
// events, initiatives and specials land in a month, and the flattened,
// filterable view of everything. All derivation is pure; malformed rows
// are excluded and reported, never fatal.
package calendar

import (
	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

// Participant is a resolved participating series with its slug.
type Participant struct {
	Series content.Series `json:"series"`
	Slug   string         `json:"slug"`
}

// Resolver materializes cross-references between content entities.
// Dangling references are dropped and reported, because the tables are
// hand-edited and may lag behind each other.
type Resolver struct {
	catalog *content.Catalog
	diag    schedule.Diagnostics
}

// NewResolver returns a resolver over the catalog. diag may be nil.
func NewResolver(catalog *content.Catalog, diag schedule.Diagnostics) *Resolver {
	if diag == nil {
		diag = schedule.NopDiagnostics{}
	}
	return &Resolver{catalog: catalog, diag: diag}
}

// Participants resolves a campaign's participating series ids into
// series, preserving the list's display order. Ids that match no series
// are omitted.
func (r *Resolver) Participants(c content.Campaign) []Participant {
	out := make([]Participant, 0, len(c.ParticipatingSeriesIDs))
	for _, id := range c.ParticipatingSeriesIDs {
		s, ok := r.catalog.SeriesByID(id)
		if !ok {
			r.diag.Warn(schedule.WarnUnresolvedReference, map[string]string{
				"campaign": c.ID, "series_id": id,
			})
			continue
		}
		out = append(out, Participant{Series: s, Slug: schedule.Slugify(s.Title)})
	}
	return out
}

// Parent resolves a short-form series' parent reference. The tables are
// inconsistent about whether the field stores an id or a human title, so
// resolution is id-first with a slug-of-title fallback; the fallback is
// reported so the data can be migrated to ids.
func (r *Resolver) Parent(s content.Series) (content.Series, bool) {
	if s.ParentSeries == "" {
		return content.Series{}, false
	}
	if parent, ok := r.catalog.SeriesByID(s.ParentSeries); ok {
		return parent, true
	}
	if parent, ok := r.catalog.SeriesBySlug(schedule.Slugify(s.ParentSeries)); ok {
		r.diag.Warn(schedule.WarnTitleResolvedParent, map[string]string{
			"series": s.ID, "parent": s.ParentSeries,
		})
		return parent, true
	}
	r.diag.Warn(schedule.WarnUnresolvedReference, map[string]string{
		"series": s.ID, "parent": s.ParentSeries,
	})
	return content.Series{}, false
}
