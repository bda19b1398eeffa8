package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Elistein70/simcha-manager/api"
	"github.com/Elistein70/simcha-manager/config"
	"github.com/Elistein70/simcha-manager/handlers"
	"github.com/Elistein70/simcha-manager/services/events"
	"github.com/Elistein70/simcha-manager/services/extraction"
	"github.com/Elistein70/simcha-manager/services/schedule"
	"github.com/Elistein70/simcha-manager/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	listen := flag.String("listen", "", "HTTP listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] failed to load config %s: %v", *configPath, err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	if cfg.LogFile != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		}))
	}

	log.Printf("[main] simcha-manager %s starting", handlers.GetBackendVersion())

	utils.AllowOrigins(cfg.AllowedOrigins)

	store, err := events.NewService(cfg.StorageDir)
	if err != nil {
		log.Fatalf("[main] failed to open event store: %v", err)
	}

	analyzer := extraction.NewClient(cfg.Extraction.APIKey, cfg.Extraction.Model, cfg.Extraction.BaseURL, nil)
	if !analyzer.IsConfigured() {
		log.Println("[main] no extraction API key configured; invitation analysis will be unavailable")
	}

	resolver := schedule.NewResolver(time.Duration(cfg.EventDurationHours) * time.Hour)

	analyzeHandler := handlers.NewAnalyzeHandler(analyzer)
	eventsHandler := handlers.NewEventsHandler(store, resolver)
	versionHandler := handlers.NewVersionHandler()

	// Vision-model calls are slow and metered; keep per-IP analysis to
	// 5 per minute.
	analyzeLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)

	r := utils.NewRouter()
	r.HandleFunc("/api/invitations/analyze",
		api.RateLimitHandlerFunc(analyzeLimiter, analyzeHandler.Analyze)).
		Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/events", eventsHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/events", eventsHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/events/feed.ics", eventsHandler.Feed).Methods(http.MethodGet)
	r.HandleFunc("/api/events/{id}", eventsHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/events/{id}", eventsHandler.Delete).Methods(http.MethodDelete, http.MethodOptions)
	r.HandleFunc("/api/version", versionHandler.GetVersion).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("[main] signal %s received, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
	log.Println("[main] stopped")
}
