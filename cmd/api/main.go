package main

import (
	"audiopress/internal/adapters/eventbroker"
	"audiopress/internal/adapters/eventbroker/nats"
	"audiopress/internal/adapters/handlers/http/chi"
	"audiopress/internal/adapters/handlers/http/chi/audio"
	"audiopress/internal/adapters/metrics"
	"audiopress/internal/adapters/registry/memory"
	"audiopress/internal/adapters/storage/localfs"
	"audiopress/internal/adapters/transcoder/ffmpeg"
	"audiopress/internal/config"
	"audiopress/internal/core/port"
	"audiopress/internal/core/service/ingest"
	"audiopress/internal/core/service/pipeline"
	"audiopress/internal/core/service/recovery"
	"audiopress/internal/core/service/retrieval"
	"audiopress/internal/core/service/sweep"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//storage
	store, err := localfs.NewAdapter(cfg.Upload.Dir, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	//registry
	artifactRegistry := memory.NewRegistry()

	//lifecycle events
	var events port.EventPublisher
	if cfg.NATS.URL != "" {
		events, err = nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init NATS publisher", "error", err)
			os.Exit(1)
		}
		logger.Info("NATS publisher initialized", "url", cfg.NATS.URL)
	} else {
		events = eventbroker.NewNoopPublisher()
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	//metrics
	var lifecycleMetrics port.Metrics = metrics.NewNoop()
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		lifecycleMetrics = metrics.NewProm("audiopress")
		metricsHandler = metrics.Handler()
	}

	transcoder := ffmpeg.NewAdapter(cfg.Transcode, logger)

	//services
	ingestService := ingest.NewIngestService(artifactRegistry, store, cfg.Upload, logger)
	pipelineService := pipeline.NewPipelineService(artifactRegistry, store, transcoder, events, lifecycleMetrics, logger)
	retrievalService := retrieval.NewRetrievalService(artifactRegistry, store, logger)
	sweepService := sweep.NewSweepService(artifactRegistry, store, events, lifecycleMetrics, cfg.Upload, logger)
	recoveryService := recovery.NewRecoveryService(artifactRegistry, store, logger)

	restored, err := recoveryService.RestoreArtifacts(ctx)
	if err != nil {
		logger.Error("failed to rebuild artifact registry", "error", err)
		os.Exit(1)
	}
	lifecycleMetrics.SetArtifacts(artifactRegistry.Len(ctx))
	logger.Info("artifact registry ready", "artifacts", restored)

	//http
	audioHandler := audio.NewAudioHandler(ingestService, pipelineService, retrievalService, sweepService, lifecycleMetrics, cfg.Upload, logger)

	router := chi.NewRouter(logger, audioHandler, artifactRegistry, metricsHandler)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init sweep task
	wg.Add(1)
	go func() {
		defer wg.Done()
		initSweepTask(ctx, sweepService, cfg.Upload.SweepEvery, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func initSweepTask(ctx context.Context, service port.SweepService, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("sweep task initialized", "interval", every)

	for {
		select {
		case <-ticker.C:
			logger.Info("sweep task starting")
			removed, err := service.SweepExpired(ctx, time.Now())
			if err != nil {
				logger.Error("failed to sweep expired artifacts", "error", err)
			} else {
				logger.Info("sweep task completed", "removed", removed)
			}
		case <-ctx.Done():
			logger.Info("sweep task stopped")
			return
		}
	}

}
