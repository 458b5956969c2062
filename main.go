package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"video-library/internal/database"
	"video-library/internal/handlers"
	"video-library/internal/indexer"
	"video-library/internal/logging"
	"video-library/internal/middleware"
	"video-library/internal/startup"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize database
	ctx := context.Background()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	logging.Info("Database ready at %s", config.DatabasePath)

	// Initialize indexer
	idx := indexer.New(db, config.VideoDir, config.IndexInterval)

	// Start indexer in background (non-blocking)
	go func() {
		if err := idx.Start(); err != nil {
			logging.Error("Failed to start indexer: %v", err)
		}
	}()
	logging.Info("Indexer started (interval %s)", config.IndexInterval)

	// Initialize handlers
	h := handlers.New(db, idx, config, "./templates")

	// Setup router
	router := setupRouter(h)

	// Apply logging middleware
	loggingConfig := middleware.LoggingConfig{LogStaticFiles: config.LogStaticFiles}
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	handler := middleware.Metrics()(loggedHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Serve Prometheus metrics on a separate port
	if config.MetricsEnabled {
		go serveMetrics(h, config.MetricsPort)
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, idx)

	// Start server
	startup.LogServerStarted(config.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// The video file handler guards against traversal itself; automatic
	// path cleaning would turn those requests into redirects before the
	// guard ever sees them.
	r.SkipClean(true)

	// Health check routes
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")

	// Pages
	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/folder/{id}", h.FolderPage).Methods("GET")
	r.HandleFunc("/video/{id}", h.VideoPage).Methods("GET")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/current_folder", h.CurrentFolder).Methods("GET")
	api.HandleFunc("/sorted_videos", h.SortedVideos).Methods("GET")
	api.HandleFunc("/video/{id}", h.GetVideo).Methods("GET")
	api.HandleFunc("/like_video", h.LikeVideo).Methods("POST")
	api.HandleFunc("/reindex", h.TriggerReindex).Methods("POST")

	// Video byte serving
	r.HandleFunc("/videos/{path:.*}", h.ServeVideo).Methods("GET")

	// Static assets
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("./static"))))

	return r
}

func serveMetrics(h *handlers.Handlers, port string) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())

	logging.Info("Metrics server listening on :%s", port)
	if err := http.ListenAndServe(":"+port, metricsMux); err != nil {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, idx *indexer.Indexer) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	idx.Stop()
	logging.Info("Indexer stopped")

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	startup.LogShutdownComplete()
}
