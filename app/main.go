package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novikoff/brandpulse/app/api"
	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/cfg"
	"github.com/novikoff/brandpulse/app/database"
	"github.com/novikoff/brandpulse/app/ingest"
	"github.com/novikoff/brandpulse/app/judge"
	"github.com/novikoff/brandpulse/app/ranking"
	"github.com/novikoff/brandpulse/app/tasks"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appConfig.Debug)

	slog.Info("Starting BrandPulse server", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appConfig.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "migration_version", version, "dirty", dirty)

	configCache := brand.NewConfigCache(appConfig.BrandsDir, appConfig.DefaultLimit)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load brand configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Brand configurations loaded", "count", configCache.GetConfigCount())

	httpClient := &http.Client{Timeout: 60 * time.Second}

	extractor := ingest.NewContentExtractor(httpClient, appConfig.UserAgent)
	orchestrator := ingest.NewOrchestrator(
		ingest.NewRedditAdapter(httpClient, appConfig.UserAgent),
		ingest.NewHackerNewsAdapter(httpClient, appConfig.UserAgent),
		ingest.NewNewsAdapter(httpClient, appConfig.UserAgent, extractor),
	)

	judgeClient := judge.NewClient(appConfig.JudgeEndpoint, appConfig.JudgeModel, appConfig.JudgeAPIKey, httpClient)
	validator := judge.NewValidator(judgeClient, appConfig.JudgeConcurrency, time.Duration(appConfig.JudgeTimeout)*time.Second)

	runRepo := database.NewRunRepository(db)
	itemRepo := database.NewItemRepository(db)
	reportRepo := database.NewReportRepository(db)

	reportCache := tasks.NewReportCache()
	warmReportCache(configCache, reportRepo, reportCache)

	runner := tasks.NewRunner(configCache, orchestrator, validator, runRepo, itemRepo, reportRepo, reportCache)

	scheduler := tasks.NewScheduler(configCache, runner, runRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appConfig.WorkerCount, "interval", appConfig.SchedulerInterval)

	apiHandler := api.NewHandler(configCache, runner, runRepo, itemRepo, reportRepo)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // synchronous refresh runs the whole pipeline
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// warmReportCache primes the in-memory report cache from the last
// persisted report per brand, so a restart serves data immediately.
func warmReportCache(configCache *brand.ConfigCache, reportRepo database.ReportRepository, cache *tasks.ReportCache) {
	for _, config := range configCache.GetConfigs() {
		doc, err := reportRepo.GetLatestReport(config.Name)
		if err != nil {
			slog.Warn("Failed to load persisted report", "brand", config.Name, "error", err)
			continue
		}
		if doc == nil {
			continue
		}

		var report ranking.BrandReport
		if err := json.Unmarshal([]byte(doc.Document), &report); err != nil {
			slog.Warn("Failed to parse persisted report", "brand", config.Name, "error", err)
			continue
		}

		cache.Update(config.Name, report, "", doc.CreatedAt)
		slog.Debug("Report cache warmed", "brand", config.Name, "created_at", doc.CreatedAt)
	}
}
