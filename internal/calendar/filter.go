package calendar

import (
	"sort"
	"strings"

	"github.com/latination/lineup/internal/content"
	"github.com/latination/lineup/internal/schedule"
)

// Item is one row of the flattened content view the overview filter
// operates on: series, campaigns, events and initiatives reduced to a
// common shape with a computed quarter bucket.
type Item struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Link    string         `json:"link"`
	Quarter string         `json:"quarter,omitempty"`
	Pillar  content.Pillar `json:"pillar,omitempty"`
	IsNew   bool           `json:"isNew"`
}

// Criteria are the overview filters. Empty or "all" means no constraint;
// predicates are AND-composed. IsNew takes "yes" or "no".
type Criteria struct {
	Pillar  string `json:"pillar,omitempty"`
	IsNew   string `json:"isNew,omitempty"`
	Quarter string `json:"quarter,omitempty"`
	Type    string `json:"type,omitempty"`
}

// Flattened builds the content overview rows. Quarters are computed from
// each item's own dates: premiere date for series, flight-range start for
// campaigns, the item date for events and initiatives. Items with no
// parseable date carry no quarter and only surface under the identity
// quarter filter.
func (g *Generator) Flattened() []Item {
	var items []Item

	for _, c := range g.catalog.Campaigns() {
		quarter := ""
		if fr := g.matcher.Parse(c.FlightDates); fr.Kind != schedule.FlightUnrecognized {
			quarter = schedule.Quarter(fr.Year, fr.StartMonth)
		}
		items = append(items, Item{
			ID:      c.ID,
			Name:    c.Title,
			Type:    string(c.ContentType),
			Link:    "/campaigns/" + schedule.Slugify(c.Title),
			Quarter: quarter,
		})
	}

	for _, s := range g.catalog.Series() {
		quarter := ""
		if d, err := schedule.ParseDate(s.PremiereDate); err == nil {
			quarter = schedule.Quarter(d.Year, d.Month)
		}
		items = append(items, Item{
			ID:      s.ID,
			Name:    s.Title,
			Type:    string(s.ContentType),
			Link:    "/series/" + schedule.Slugify(s.Title),
			Quarter: quarter,
			Pillar:  s.Pillar,
			IsNew:   s.IsNew,
		})
	}

	items = append(items, g.flattenDated(g.catalog.Events(), "Event")...)
	items = append(items, g.flattenDated(g.catalog.Initiatives(), "Initiative")...)

	return items
}

func (g *Generator) flattenDated(dated []content.DatedItem, typ string) []Item {
	var items []Item
	for _, it := range dated {
		d, err := schedule.ParseDate(it.Date)
		if err != nil {
			continue
		}
		items = append(items, Item{
			ID:      it.ID,
			Name:    it.Title,
			Type:    typ,
			Link:    "/" + schedule.MonthSlug(d.Year, d.Month),
			Quarter: schedule.Quarter(d.Year, d.Month),
		})
	}
	return items
}

// Filter applies the criteria to the flattened view and returns matches
// sorted by name, case-insensitive ascending (ties broken by id so the
// order is fully deterministic). No match yields an empty slice.
func (g *Generator) Filter(c Criteria) []Item {
	out := []Item{}
	for _, item := range g.Flattened() {
		if !matches(item, c) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func active(v string) bool { return v != "" && v != "all" }

func matches(item Item, c Criteria) bool {
	if active(c.Pillar) && string(item.Pillar) != c.Pillar {
		return false
	}
	if active(c.IsNew) {
		if c.IsNew == "yes" && !item.IsNew {
			return false
		}
		if c.IsNew == "no" && item.IsNew {
			return false
		}
	}
	if active(c.Quarter) && item.Quarter != c.Quarter {
		return false
	}
	if active(c.Type) && item.Type != c.Type {
		return false
	}
	return true
}
