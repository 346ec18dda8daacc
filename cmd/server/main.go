package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clients/alphavantage"
	"github.com/aristath/advisor/internal/clients/marketdata"
	"github.com/aristath/advisor/internal/clients/newsfeed"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/database"
	"github.com/aristath/advisor/internal/modules/economic"
	"github.com/aristath/advisor/internal/modules/optimization"
	"github.com/aristath/advisor/internal/modules/regime"
	"github.com/aristath/advisor/internal/modules/risk"
	"github.com/aristath/advisor/internal/modules/sentiment"
	"github.com/aristath/advisor/internal/modules/universe"
	"github.com/aristath/advisor/internal/scheduler"
	"github.com/aristath/advisor/internal/server"
	"github.com/aristath/advisor/internal/services"
	"github.com/aristath/advisor/pkg/logger"
)

const seriesCacheTTL = 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet; fall back to a default one.
		fallback := logger.New(logger.Config{})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting advisor")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to create data directory")
	}

	// Initialize the series cache database
	db, err := database.Open(cfg.SeriesCachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open series cache database")
	}
	defer db.Close()

	historyCache, err := universe.NewHistoryCache(db.Conn(), seriesCacheTTL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history cache")
	}

	// Upstream clients
	marketClient := marketdata.NewClient(marketdata.Config{
		BaseURL: cfg.MarketDataURL,
		Timeout: cfg.FetchTimeout,
	}, log)
	newsClient := newsfeed.NewClient(newsfeed.Config{
		BaseURL: cfg.NewsFeedURL,
		Timeout: cfg.FetchTimeout,
	}, log)
	macroClient := alphavantage.NewClient(cfg.AlphaVantageAPIKey, log)

	// Pipeline stages
	universeService := universe.NewService(marketClient, historyCache, universe.Config{
		Concurrency:   cfg.FetchConcurrency,
		FetchTimeout:  cfg.FetchTimeout,
		SyntheticSeed: cfg.SyntheticSeed,
	}, log)

	classifier := regime.NewClassifier(sentiment.NewScorer(), newsClient, log)

	optimizer := optimization.NewOptimizer(optimization.Config{
		MaxAssets: cfg.MaxAssets,
		Seed:      cfg.OptimizerSeed,
	}, log)

	riskAnalyzer := risk.NewAnalyzer(risk.Config{
		Simulations: cfg.RiskSimulations,
		Seed:        cfg.RiskSeed,
	}, log)

	economicService := economic.NewService(macroClient, log)

	analysisService := services.NewAnalysisService(
		classifier,
		universeService,
		optimizer,
		riskAnalyzer,
		economicService,
		services.NewScraper(log),
		log,
	)

	// Background jobs
	sched := scheduler.New(5*time.Minute, log)
	refreshJob := scheduler.NewUniverseRefreshJob(universeService)
	registerJob(sched, cfg.RefreshSchedule, refreshJob, log)
	registerJob(sched, cfg.CachePurgeSchedule, scheduler.NewCachePurgeJob(historyCache), log)
	registerJob(sched, cfg.ResetSchedule, scheduler.NewCounterResetJob(macroClient), log)
	sched.Start()
	defer sched.Stop()

	// Warm the universe snapshot so the first request doesn't pay the full
	// fetch cost.
	go func() {
		if err := sched.RunNow(refreshJob); err != nil {
			log.Warn().Err(err).Msg("Initial universe refresh failed")
		}
	}()

	// Initialize HTTP server
	handlers := server.NewHandlers(analysisService, universeService, cfg.AlphaVantageAPIKey != "", log)
	srv := server.New(server.Config{
		Port:           cfg.Port,
		RequestTimeout: cfg.RequestTimeout,
	}, handlers, log)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJob(sched *scheduler.Scheduler, schedule string, job scheduler.Job, log zerolog.Logger) {
	if err := sched.AddJob(schedule, job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
	}
}
