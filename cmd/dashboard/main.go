package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/uap-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/uap-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/uap-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/uap-dashboard/internal/adapter/source"
	"github.com/couchcryptid/uap-dashboard/internal/adapter/ws"
	"github.com/couchcryptid/uap-dashboard/internal/charts"
	"github.com/couchcryptid/uap-dashboard/internal/config"
	"github.com/couchcryptid/uap-dashboard/internal/dashboard"
	"github.com/couchcryptid/uap-dashboard/internal/domain"
	"github.com/couchcryptid/uap-dashboard/internal/observability"
	"github.com/couchcryptid/uap-dashboard/internal/pipeline"
	"github.com/couchcryptid/uap-dashboard/internal/sentiment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("dashboard failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer, err := newAnalyzer(cfg.SentimentLexicon)
	if err != nil {
		return err
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			return err
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	src, err := source.NewFile(cfg.DataPath)
	if err != nil {
		return err
	}
	p := pipeline.New(src, pipeline.NewTransformer(analyzer, geocoder, logger), logger, metrics)

	ds, err := p.Build(ctx)
	if err != nil {
		return err
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, metrics, logger)
		pubErr := writer.Publish(ctx, ds)
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
		if pubErr != nil {
			return pubErr
		}
	}

	svc := dashboard.NewService(ds,
		dashboard.Settings{Title: cfg.Title, PageSize: cfg.TablePageSize},
		charts.Options{
			Radius:           cfg.DensityRadius,
			Zoom:             cfg.DensityZoom,
			MapStyle:         cfg.MapStyle,
			GeohashPrecision: cfg.GeohashPrecision,
		},
		metrics,
	)

	hub := ws.New(svc, metrics, logger)
	go hub.Run(ctx)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, hub, p, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// newAnalyzer loads the sentiment lexicon from path, or the built-in lexicon
// when path is empty.
func newAnalyzer(path string) (*sentiment.Analyzer, error) {
	if path == "" {
		return sentiment.New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sentiment lexicon: %w", err)
	}
	defer f.Close()
	return sentiment.NewFromReader(f)
}
