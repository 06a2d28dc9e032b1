package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// tablesFile is the YAML shape of a content file. A content directory may
// keep everything in one file or split tables across several; every
// *.yaml/*.yml file in the directory is merged.
type tablesFile struct {
	Series           []Series          `yaml:"series"`
	Campaigns        []Campaign        `yaml:"campaigns"`
	BrandedCampaigns []BrandedCampaign `yaml:"branded_campaigns"`
	Events           []DatedItem       `yaml:"events"`
	Initiatives      []DatedItem       `yaml:"initiatives"`
	Specials         []DatedItem       `yaml:"specials"`
}

// LoadTables reads every YAML file in dir and merges them into one set of
// content tables. Files are read in lexical order so the result is stable.
func LoadTables(dir string) (*Tables, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no content files found in %s", dir)
	}
	sort.Strings(names)

	t := &Tables{}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read content file %s: %w", name, err)
		}

		var f tablesFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse content file %s: %w", name, err)
		}

		t.Series = append(t.Series, f.Series...)
		t.Campaigns = append(t.Campaigns, f.Campaigns...)
		t.BrandedCampaigns = append(t.BrandedCampaigns, f.BrandedCampaigns...)
		t.Events = append(t.Events, f.Events...)
		t.Initiatives = append(t.Initiatives, f.Initiatives...)
		t.Specials = append(t.Specials, f.Specials...)
	}

	normalize(t)
	return t, nil
}

// normalize fills in the fields the YAML does not carry: the role tag on
// dated items and a Special content type where the table omitted one.
func normalize(t *Tables) {
	for i := range t.Events {
		t.Events[i].Role = RoleEvent
		if t.Events[i].ContentType == "" {
			t.Events[i].ContentType = TypeSpecial
		}
	}
	for i := range t.Initiatives {
		t.Initiatives[i].Role = RoleInitiative
		if t.Initiatives[i].ContentType == "" {
			t.Initiatives[i].ContentType = TypeSpecial
		}
	}
	for i := range t.Specials {
		t.Specials[i].Role = RoleSpecial
		if t.Specials[i].ContentType == "" {
			t.Specials[i].ContentType = TypeSpecial
		}
	}
}
