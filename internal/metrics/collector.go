package metrics

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"
)

// CatalogStatsProvider reports entity counts for the active catalog.
type CatalogStatsProvider interface {
	Counts() map[string]int
}

// Collector periodically refreshes the system and catalog gauges. API
// and warning counters are updated inline at the call sites; only the
// gauges need a background loop.
type Collector struct {
	metrics     *Metrics
	catalog     CatalogStatsProvider
	storagePath string
	interval    time.Duration
	startTime   time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCollector creates a new metrics collector
func NewCollector(m *Metrics, catalog CatalogStatsProvider, storagePath string, interval time.Duration) *Collector {
	if interval == 0 {
		interval = 5 * time.Second
	}
	return &Collector{
		metrics:     m,
		catalog:     catalog,
		storagePath: storagePath,
		interval:    interval,
		startTime:   time.Now(),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the collector background loop
func (c *Collector) Start(ctx context.Context) {
	c.collect(ctx)
	c.wg.Add(1)
	go c.loop(ctx)
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Collector) loop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// collect refreshes the current gauge values
func (c *Collector) collect(_ context.Context) {
	c.metrics.UptimeSeconds.Set(time.Since(c.startTime).Seconds())
	c.metrics.Goroutines.Set(float64(runtime.NumGoroutine()))

	if c.storagePath != "" {
		if info, err := os.Stat(c.storagePath); err == nil {
			c.metrics.StorageUsedBytes.Set(float64(info.Size()))
		}
	}

	if c.catalog != nil {
		for kind, n := range c.catalog.Counts() {
			c.metrics.CatalogEntities.WithLabelValues(kind).Set(float64(n))
		}
	}
}
