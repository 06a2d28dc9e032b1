package content

import (
	"github.com/latination/lineup/internal/schedule"
)

// Catalog is the indexed, immutable view of the content tables. All
// lookups are by value; nothing hands out a pointer into the tables, so a
// catalog can be shared across requests without locking. Editing content
// means building a new catalog.
type Catalog struct {
	tables Tables

	seriesByID     map[string]int
	seriesBySlug   map[string]int
	campaignByID   map[string]int
	campaignBySlug map[string]int
	brandedByID    map[string]int
	brandedBySlug  map[string]int
}

// NewCatalog indexes the tables. Duplicate ids and duplicate slugs are
// reported through diag (first entry wins); the validation pass treats
// both as fatal, but the catalog stays usable so a bad row cannot take
// the service down.
func NewCatalog(t Tables, diag schedule.Diagnostics) *Catalog {
	if diag == nil {
		diag = schedule.NopDiagnostics{}
	}

	c := &Catalog{
		tables:         t,
		seriesByID:     make(map[string]int, len(t.Series)),
		seriesBySlug:   make(map[string]int, len(t.Series)),
		campaignByID:   make(map[string]int, len(t.Campaigns)),
		campaignBySlug: make(map[string]int, len(t.Campaigns)),
		brandedByID:    make(map[string]int, len(t.BrandedCampaigns)),
		brandedBySlug:  make(map[string]int, len(t.BrandedCampaigns)),
	}

	// Slug collisions are checked across the combined series + campaign +
	// branded corpus: every slug is a route, whatever the entity kind.
	slugOwner := make(map[string]string)

	index := func(kind, id, title string, i int, byID, bySlug map[string]int) {
		if _, dup := byID[id]; dup {
			diag.Warn(schedule.WarnDuplicateID, map[string]string{"kind": kind, "id": id})
		} else {
			byID[id] = i
		}

		slug := schedule.Slugify(title)
		if owner, dup := slugOwner[slug]; dup {
			diag.Warn(schedule.WarnDuplicateSlug, map[string]string{
				"kind": kind, "id": id, "slug": slug, "conflicts_with": owner,
			})
			return
		}
		slugOwner[slug] = kind + "/" + id
		bySlug[slug] = i
	}

	for i, s := range t.Series {
		index("series", s.ID, s.Title, i, c.seriesByID, c.seriesBySlug)
	}
	for i, cp := range t.Campaigns {
		index("campaign", cp.ID, cp.Title, i, c.campaignByID, c.campaignBySlug)
	}
	for i, b := range t.BrandedCampaigns {
		index("branded_campaign", b.ID, b.Title, i, c.brandedByID, c.brandedBySlug)
	}

	return c
}

// Tables returns the underlying tables.
func (c *Catalog) Tables() Tables { return c.tables }

// Series returns all series in table order.
func (c *Catalog) Series() []Series { return c.tables.Series }

// Campaigns returns all campaigns in table order.
func (c *Catalog) Campaigns() []Campaign { return c.tables.Campaigns }

// BrandedCampaigns returns all branded campaigns in table order.
func (c *Catalog) BrandedCampaigns() []BrandedCampaign { return c.tables.BrandedCampaigns }

// Events returns all events in table order.
func (c *Catalog) Events() []DatedItem { return c.tables.Events }

// Initiatives returns all key initiatives in table order.
func (c *Catalog) Initiatives() []DatedItem { return c.tables.Initiatives }

// Specials returns all specials in table order.
func (c *Catalog) Specials() []DatedItem { return c.tables.Specials }

// SeriesByID looks a series up by id.
func (c *Catalog) SeriesByID(id string) (Series, bool) {
	i, ok := c.seriesByID[id]
	if !ok {
		return Series{}, false
	}
	return c.tables.Series[i], true
}

// SeriesBySlug looks a series up by its title slug.
func (c *Catalog) SeriesBySlug(slug string) (Series, bool) {
	i, ok := c.seriesBySlug[slug]
	if !ok {
		return Series{}, false
	}
	return c.tables.Series[i], true
}

// CampaignByID looks a campaign up by id.
func (c *Catalog) CampaignByID(id string) (Campaign, bool) {
	i, ok := c.campaignByID[id]
	if !ok {
		return Campaign{}, false
	}
	return c.tables.Campaigns[i], true
}

// CampaignBySlug looks a campaign up by its title slug.
func (c *Catalog) CampaignBySlug(slug string) (Campaign, bool) {
	i, ok := c.campaignBySlug[slug]
	if !ok {
		return Campaign{}, false
	}
	return c.tables.Campaigns[i], true
}

// BrandedByID looks a branded campaign up by id.
func (c *Catalog) BrandedByID(id string) (BrandedCampaign, bool) {
	i, ok := c.brandedByID[id]
	if !ok {
		return BrandedCampaign{}, false
	}
	return c.tables.BrandedCampaigns[i], true
}

// BrandedBySlug looks a branded campaign up by its title slug.
func (c *Catalog) BrandedBySlug(slug string) (BrandedCampaign, bool) {
	i, ok := c.brandedBySlug[slug]
	if !ok {
		return BrandedCampaign{}, false
	}
	return c.tables.BrandedCampaigns[i], true
}

// Counts returns entity counts by kind, for metrics and the health
// endpoint.
func (c *Catalog) Counts() map[string]int {
	return map[string]int{
		"series":            len(c.tables.Series),
		"campaigns":         len(c.tables.Campaigns),
		"branded_campaigns": len(c.tables.BrandedCampaigns),
		"events":            len(c.tables.Events),
		"initiatives":       len(c.tables.Initiatives),
		"specials":          len(c.tables.Specials),
	}
}
