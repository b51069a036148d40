package metrics

import (
	"os"
	"time"

	"tube-adventures/internal/logging"
)

var log = logging.For("metrics")

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current library statistics
type Stats struct {
	TotalFiles       int
	ValidFiles       int
	InvalidFiles     int
	TotalAnnotations int
	ResolvedLinks    int
	DanglingLinks    int
	DuplicateIDs     int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath may be empty, in
// which case database file sizes are not reported.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectDBSize()

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	LibraryFilesTotal.WithLabelValues("valid").Set(float64(stats.ValidFiles))
	LibraryFilesTotal.WithLabelValues("invalid").Set(float64(stats.InvalidFiles))
	LibraryAnnotationsTotal.Set(float64(stats.TotalAnnotations))
	LibraryLinksTotal.WithLabelValues("resolved").Set(float64(stats.ResolvedLinks))
	LibraryLinksTotal.WithLabelValues("dangling").Set(float64(stats.DanglingLinks))
	LibraryDuplicateIDs.Set(float64(stats.DuplicateIDs))

	log.Debug("Metrics collected: files=%d, annotations=%d, links=%d/%d",
		stats.TotalFiles, stats.TotalAnnotations, stats.ResolvedLinks, stats.ResolvedLinks+stats.DanglingLinks)
}

func (c *Collector) collectDBSize() {
	if c.dbPath == "" {
		return
	}
	for file, path := range map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	} {
		info, err := os.Stat(path)
		if err != nil {
			DBSizeBytes.WithLabelValues(file).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(file).Set(float64(info.Size()))
	}
}
