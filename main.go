package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tube-adventures/internal/database"
	"tube-adventures/internal/handlers"
	"tube-adventures/internal/library"
	"tube-adventures/internal/logging"
	"tube-adventures/internal/metrics"
	"tube-adventures/internal/middleware"
	"tube-adventures/internal/navigation"
	"tube-adventures/internal/session"
	"tube-adventures/internal/sources"
	"tube-adventures/internal/startup"

	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 30 * time.Second
	collectorInterval = time.Minute
)

// statsSource is the part of the database the metrics collector reads.
type statsSource interface {
	GetStats() database.IndexStats
}

// dbStatsAdapter exposes catalog statistics as metrics.Stats.
type dbStatsAdapter struct {
	db statsSource
}

func (a *dbStatsAdapter) GetStats() metrics.Stats {
	s := a.db.GetStats()
	return metrics.Stats{
		TotalFiles:       s.TotalFiles,
		ValidFiles:       s.ValidFiles,
		InvalidFiles:     s.InvalidFiles,
		TotalAnnotations: s.TotalAnnotations,
		ResolvedLinks:    s.ResolvedLinks,
		DanglingLinks:    s.DanglingLinks,
		DuplicateIDs:     s.DuplicateIDs,
	}
}

// services holds everything the shutdown sequence has to stop.
type services struct {
	server        *http.Server
	metricsServer *http.Server
	sessions      *session.Manager
	indexer       *library.Indexer
	collector     *metrics.Collector
	stopWatcher   context.CancelFunc
	db            *database.Database
}

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.Register()
	metrics.InitializeMetrics()
	build := startup.GetBuildInfo()
	metrics.SetAppInfo(build.Version, build.Commit, build.GoVersion)

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	locator := library.NewLocator(config.AnnotationsDir, config.AnnotationExtension)

	chain, err := newSourceChain(config, db)
	if err != nil {
		startup.LogFatal("Failed to load video sources: %v", err)
	}

	// Initialize indexer
	startup.LogLibraryInit(config.IndexInterval, config.WatchEnabled)
	idx := library.NewIndexer(db, locator, config.IndexInterval)
	idx.SetWorkers(config.IndexWorkers)
	idx.SetOnIndexComplete(func(stats database.IndexStats) {
		logging.Debug("catalog holds %d files (%d invalid), %d dangling links",
			stats.TotalFiles, stats.InvalidFiles, stats.DanglingLinks)
	})

	// Start indexer in background (non-blocking)
	go func() {
		if err := idx.Start(); err != nil {
			logging.Error("Failed to start indexer: %v", err)
		}
	}()
	startup.LogIndexerStarted()

	watchCtx, stopWatcher := context.WithCancel(context.Background())
	if config.WatchEnabled {
		w := library.NewWatcher(config.AnnotationsDir, config.AnnotationExtension, library.DefaultDebounce, idx.TriggerIndex)
		go func() {
			if err := w.Watch(watchCtx); err != nil {
				logging.Warn("Directory watch stopped: %v", err)
			}
		}()
	}

	collector := metrics.NewCollector(&dbStatsAdapter{db: db}, db.Path(), collectorInterval)
	collector.Start()

	navCfg := navigation.DefaultConfig()
	navCfg.AbortOnFailure = config.AbortOnNavigationFailure
	sessions := session.NewManager(locator, chain, session.Config{
		Navigation:     navCfg,
		StartVideoID:   config.StartVideoID,
		StreamURL:      handlers.StreamURL,
		OriginPatterns: config.AllowedOrigins,
	})

	// Initialize handlers
	h := handlers.New(db, idx, locator, chain, sessions)

	// Setup router
	router, handler := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Create server
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(config.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	svc := &services{
		server:      srv,
		sessions:    sessions,
		indexer:     idx,
		collector:   collector,
		stopWatcher: stopWatcher,
		db:          db,
	}

	if config.MetricsEnabled {
		svc.metricsServer = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := svc.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	done := make(chan struct{})
	go handleShutdown(svc, done)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

// newSourceChain builds the resolvers in lookup order: local files, the
// source map, the catalog, then the public watch URL. Sources found ahead
// of the catalog are cached in it.
func newSourceChain(config *startup.Config, db *database.Database) (*sources.Chain, error) {
	var resolvers []sources.Resolver
	if config.VideosEnabled {
		resolvers = append(resolvers, sources.NewDirectoryResolver(config.VideosDir))
	}

	entries := 0
	if config.SourcesFile != "" {
		file, err := sources.LoadFile(config.SourcesFile)
		if err != nil {
			return nil, err
		}
		entries = file.Len()
		resolvers = append(resolvers, file)
	}

	catalog := sources.NewCatalogResolver(db)
	resolvers = append(resolvers, catalog, sources.CanonicalResolver{})

	chain := sources.NewChain(resolvers...).WithCache(catalog)
	startup.LogSourcesInit(chain.Resolvers(), entries)
	return chain, nil
}

// setupRouter returns the router, for route logging, and the handler to
// serve with all middleware applied.
func setupRouter(h *handlers.Handlers, config *startup.Config) (*mux.Router, http.Handler) {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	h.Register(r)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	logged := middleware.Logger(loggingConfig)(r)

	// Apply compression middleware
	return r, middleware.Compression(middleware.DefaultCompressionConfig())(logged)
}

func newMetricsServer(port int, h *handlers.Handlers) *http.Server {
	m := http.NewServeMux()
	m.Handle("/metrics", h.MetricsHandler())
	m.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           m,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

func handleShutdown(svc *services, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Websocket connections are hijacked, so the HTTP server does not wait
	// for them.
	startup.LogShutdownStep("Closing playback sessions")
	if err := svc.sessions.Shutdown(ctx); err != nil {
		logging.Warn("Session shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Playback sessions closed")
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := svc.server.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Stopping directory watch")
	svc.stopWatcher()
	startup.LogShutdownStepComplete("Directory watch stopped")

	startup.LogShutdownStep("Stopping indexer")
	svc.indexer.Stop()
	startup.LogShutdownStepComplete("Indexer stopped")

	startup.LogShutdownStep("Stopping metrics collector")
	svc.collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	if svc.metricsServer != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := svc.metricsServer.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Closing database")
	if err := svc.db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	startup.LogShutdownComplete()
}
