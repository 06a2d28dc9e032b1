package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mockCatalogStats struct {
	counts map[string]int
}

func (m *mockCatalogStats) Counts() map[string]int {
	return m.counts
}

func TestNewCollector(t *testing.T) {
	m := New()
	catalog := &mockCatalogStats{counts: map[string]int{"series": 27, "campaigns": 9}}

	c := NewCollector(m, catalog, "", 10*time.Second)
	if c == nil {
		t.Fatal("Collector is nil")
	}

	c.Start(context.Background())
	c.Stop()
}

func TestCollectorGauges(t *testing.T) {
	m := New()
	catalog := &mockCatalogStats{counts: map[string]int{"series": 27, "events": 4}}

	// Storage gauge reads the overlay database file size
	path := filepath.Join(t.TempDir(), "overlay.db")
	if err := os.WriteFile(path, make([]byte, 4096), 0o600); err != nil {
		t.Fatal(err)
	}

	c := NewCollector(m, catalog, path, 10*time.Second)
	c.collect(context.Background())

	gauge, err := m.CatalogEntities.GetMetricWithLabelValues("series")
	if err != nil {
		t.Fatalf("Failed to get gauge: %v", err)
	}
	if got := gaugeValue(t, gauge); got != 27 {
		t.Errorf("series gauge = %v, want 27", got)
	}

	if got := gaugeValue(t, m.StorageUsedBytes); got != 4096 {
		t.Errorf("storage gauge = %v, want 4096", got)
	}
	if got := gaugeValue(t, m.Goroutines); got <= 0 {
		t.Errorf("goroutines gauge = %v, want > 0", got)
	}
}

func TestCollectorNilCatalog(t *testing.T) {
	m := New()

	c := NewCollector(m, nil, "", 0)
	if c.interval != 5*time.Second {
		t.Errorf("default interval = %v, want 5s", c.interval)
	}

	// Must not panic without a catalog or storage path
	c.collect(context.Background())
}
