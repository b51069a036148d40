package library

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tube-adventures/internal/database"
	"tube-adventures/internal/metrics"
)

// Number of files upserted per transaction
const batchSize = 200

// Indexer keeps the catalog in step with the annotation directory.
type Indexer struct {
	db            *database.Database
	locator       *Locator
	indexInterval time.Duration
	workers       int
	stopChan      chan struct{}
	stopOnce      sync.Once

	indexMu              sync.Mutex
	isIndexing           bool
	rerunPending         bool
	lastIndexTime        time.Time
	lastDuration         time.Duration
	initialIndexComplete bool
	initialIndexError    error
	startTime            time.Time

	filesIndexed atomic.Int64
	indexErrors  atomic.Int64

	onIndexComplete func(database.IndexStats)
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready             bool      `json:"ready"`
	Indexing          bool      `json:"indexing"`
	StartTime         time.Time `json:"startTime"`
	Uptime            string    `json:"uptime"`
	LastIndexed       time.Time `json:"lastIndexed,omitempty"`
	LastDuration      string    `json:"lastDuration,omitempty"`
	InitialIndexError string    `json:"initialIndexError,omitempty"`
	FilesIndexed      int64     `json:"filesIndexed"`
	IndexErrors       int64     `json:"indexErrors"`
}

// NewIndexer creates an indexer writing the files found by loc into db.
// An interval of zero disables periodic re-indexing.
func NewIndexer(db *database.Database, loc *Locator, indexInterval time.Duration) *Indexer {
	return &Indexer{
		db:            db,
		locator:       loc,
		indexInterval: indexInterval,
		stopChan:      make(chan struct{}),
		startTime:     time.Now(),
	}
}

// SetWorkers caps the number of files decoded in parallel.
func (idx *Indexer) SetWorkers(n int) {
	idx.workers = n
}

// SetOnIndexComplete sets a callback invoked with the fresh statistics
// after every successful run.
func (idx *Indexer) SetOnIndexComplete(callback func(database.IndexStats)) {
	idx.onIndexComplete = callback
}

// Start runs the initial index in the background and schedules periodic
// re-indexing.
func (idx *Indexer) Start() error {
	if last, err := idx.db.GetLastIndexRun(context.Background()); err != nil {
		log.Warn("Could not read last index time: %v", err)
	} else if !last.IsZero() {
		idx.indexMu.Lock()
		idx.lastIndexTime = last
		idx.indexMu.Unlock()
		log.Info("Catalog last indexed at %s", last.Format(time.RFC3339))
	}

	go func() {
		log.Info("Starting initial index in background...")
		if err := idx.Index(); err != nil {
			log.Error("Initial index error: %v", err)
			idx.indexMu.Lock()
			idx.initialIndexError = err
			idx.indexMu.Unlock()
		}
	}()

	if idx.indexInterval > 0 {
		go idx.periodicIndex()
	}
	return nil
}

// Stop stops background indexing and aborts a run in progress.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() { close(idx.stopChan) })
}

// IsReady returns true once the first index run has finished.
func (idx *Indexer) IsReady() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.initialIndexComplete
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	status := HealthStatus{
		Ready:        idx.initialIndexComplete,
		Indexing:     idx.isIndexing,
		StartTime:    idx.startTime,
		Uptime:       time.Since(idx.startTime).Round(time.Second).String(),
		LastIndexed:  idx.lastIndexTime,
		FilesIndexed: idx.filesIndexed.Load(),
		IndexErrors:  idx.indexErrors.Load(),
	}
	if idx.lastDuration > 0 {
		status.LastDuration = idx.lastDuration.String()
	}
	if idx.initialIndexError != nil {
		status.InitialIndexError = idx.initialIndexError.Error()
	}
	return status
}

// Index performs a full index of the annotation directory. A call made
// while another run is in progress returns immediately and the running
// call indexes once more when it finishes.
func (idx *Indexer) Index() error {
	if !idx.tryStartIndexing() {
		log.Info("Index already in progress, queued another run")
		return nil
	}

	for {
		err := idx.index()
		if !idx.finishIndexing() {
			return err
		}
		if err != nil {
			log.Error("index run failed: %v", err)
		}
		log.Info("Files changed during the last run, indexing again...")
	}
}

func (idx *Indexer) index() error {
	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	startTime := time.Now()
	log.Info("Indexing %s...", idx.locator.Dir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-idx.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	reports, err := Scan(ctx, idx.locator, idx.workers)
	if err != nil {
		idx.recordError()
		return fmt.Errorf("scan error: %w", err)
	}

	run := startTime.UnixNano()
	if err := idx.processBatches(reports, run); err != nil {
		idx.recordError()
		return err
	}

	if err := idx.cleanupMissingFiles(run); err != nil {
		log.Error("Error cleaning up missing files: %v", err)
		idx.recordError()
	}

	idx.finalizeIndex(ctx, startTime, reports)
	return nil
}

func (idx *Indexer) processBatches(reports []Report, run int64) error {
	for i := 0; i < len(reports); i += batchSize {
		select {
		case <-idx.stopChan:
			return fmt.Errorf("index stopped")
		default:
		}

		end := min(i+batchSize, len(reports))
		if err := idx.processBatch(reports[i:end], run); err != nil {
			return err
		}
	}
	return nil
}

// processBatch upserts a batch of reports in a single transaction.
func (idx *Indexer) processBatch(reports []Report, run int64) error {
	tx, err := idx.db.BeginBatch()
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}

	for i := range reports {
		r := &reports[i]
		if !r.OK() {
			log.Warn("%v", r.Err)
		}
		file, links := r.Record()
		if err := idx.db.UpsertFile(tx, file, links, run); err != nil {
			log.Warn("Error upserting file %s: %v", r.Path, err)
			idx.recordError()
			continue
		}
		idx.filesIndexed.Add(1)
	}

	if err := idx.db.EndBatch(tx, nil); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	metrics.IndexerFilesProcessed.Add(float64(len(reports)))
	return nil
}

// cleanupMissingFiles removes files from the catalog that this run did not see.
func (idx *Indexer) cleanupMissingFiles(run int64) error {
	tx, err := idx.db.BeginBatch()
	if err != nil {
		return fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}

	deleted, err := idx.db.DeleteMissingFiles(tx, run)
	if err != nil {
		if endErr := idx.db.EndBatch(tx, err); endErr != nil {
			log.Error("failed to end batch after cleanup error: %v", endErr)
		}
		return err
	}

	if err := idx.db.EndBatch(tx, nil); err != nil {
		return fmt.Errorf("failed to commit cleanup: %w", err)
	}

	if deleted > 0 {
		log.Info("Removed %d missing files from index", deleted)
	}
	return nil
}

func (idx *Indexer) finalizeIndex(ctx context.Context, startTime time.Time, reports []Report) {
	duration := time.Since(startTime)
	now := time.Now()

	idx.indexMu.Lock()
	idx.lastIndexTime = now
	idx.lastDuration = duration
	idx.indexMu.Unlock()

	stats, err := idx.db.ComputeStats(ctx)
	if err != nil {
		log.Error("Failed to compute catalog stats: %v", err)
	}
	stats.LastIndexed = now
	idx.db.UpdateStats(stats)

	if err := idx.db.SetLastIndexRun(ctx, now); err != nil {
		log.Warn("Failed to record index run: %v", err)
	}

	metrics.IndexerLastRunTimestamp.Set(float64(now.Unix()))
	metrics.IndexerLastRunDuration.Set(duration.Seconds())

	log.Info("Index complete: %d files (%d invalid) in %v", len(reports), stats.InvalidFiles, duration)

	if idx.onIndexComplete != nil {
		idx.onIndexComplete(stats)
	}
}

func (idx *Indexer) recordError() {
	idx.indexErrors.Add(1)
	metrics.IndexerErrors.Inc()
}

// tryStartIndexing attempts to start indexing. If a run is already in
// progress it queues a rerun and returns false.
func (idx *Indexer) tryStartIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		idx.rerunPending = true
		return false
	}
	idx.isIndexing = true
	return true
}

// finishIndexing ends the current run. It returns true, leaving the
// indexer marked busy, when a rerun was queued and the indexer is not
// stopping.
func (idx *Indexer) finishIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.initialIndexComplete = true
	if idx.rerunPending && !idx.stopping() {
		idx.rerunPending = false
		return true
	}
	idx.rerunPending = false
	idx.isIndexing = false
	return false
}

func (idx *Indexer) stopping() bool {
	select {
	case <-idx.stopChan:
		return true
	default:
		return false
	}
}

func (idx *Indexer) periodicIndex() {
	ticker := time.NewTicker(idx.indexInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Debug("Periodic re-index triggered")
			if err := idx.Index(); err != nil {
				log.Error("periodic re-index failed: %v", err)
			}
		case <-idx.stopChan:
			return
		}
	}
}

// IsIndexing returns whether an index operation is currently in progress.
func (idx *Indexer) IsIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.isIndexing
}

// LastIndexTime returns the time of the last completed index operation.
func (idx *Indexer) LastIndexTime() time.Time {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.lastIndexTime
}

// TriggerIndex manually triggers a re-index.
func (idx *Indexer) TriggerIndex() {
	go func() {
		if err := idx.Index(); err != nil {
			log.Error("manually triggered re-index failed: %v", err)
		}
	}()
}
