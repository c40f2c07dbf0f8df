package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"transit-pathset-service/internal/adapters/costmodel"
	"transit-pathset-service/internal/adapters/network"
	"transit-pathset-service/internal/adapters/repositories"
	"transit-pathset-service/internal/api"
	"transit-pathset-service/internal/config"
	"transit-pathset-service/internal/metrics"
	"transit-pathset-service/internal/platform/db"
	"transit-pathset-service/internal/ports"
	"transit-pathset-service/internal/publisher"
	"transit-pathset-service/internal/services"
)

// main is the application composition root.
// It loads the network snapshot once, wires the evaluation service behind
// the HTTP API and starts the server.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := db.OpenDriver(cfg.DBDriver, cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	pc, err := loadNetwork(ctx, logger, conn, cfg)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	var svcMetrics services.Metrics
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		collector = metrics.NewCollector(cfg.Dispersion, cfg.EvalWorkers)
		svcMetrics = collector
		metricsHandler = collector.Handler()
	}

	svcCfg := services.PathSetServiceConfig{
		Context: pc,
		Choice: services.ChoiceParams{
			Dispersion:     cfg.Dispersion,
			MaxPaths:       cfg.MaxPaths,
			MinProbability: cfg.MinProbability,
		},
		Workers: cfg.EvalWorkers,
		Metrics: svcMetrics,
		Logger:  logger,
	}

	var sinks publisher.Fanout
	var archive ports.PathSetArchive
	if cfg.ArchiveEnabled {
		dialect, err := repositories.DialectFor(cfg.DBDriver)
		if err != nil {
			return err
		}
		archive = repositories.NewSQLPathSetArchive(conn, dialect, logger)
		sinks = append(sinks, archive)
	}
	if cfg.NATSURL != "" {
		var pubMetrics publisher.PublisherMetrics
		if collector != nil {
			pubMetrics = collector
		}
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, logger, pubMetrics)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
		logger.Info("publishing path sets", "nats_url", cfg.NATSURL, "prefix", cfg.NATSSubjectPrefix)
	}
	if len(sinks) > 0 {
		svcCfg.Publisher = sinks
	}

	svc, err := services.NewPathSetService(svcCfg)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Service: svc,
		DB:      conn,
		Archive: archive,
		Metrics: metricsHandler,
		Logger:  logger,
	})

	// Large batches of candidates can take a while to score.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}

// loadNetwork prepares the schema and seeds an empty database for local runs
// before loading the network.
func loadNetwork(ctx context.Context, logger *slog.Logger, conn *sql.DB, cfg *config.Config) (ports.PathContext, error) {
	dialect, err := repositories.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}

	repo := repositories.NewSQLNetworkRepository(conn, dialect, logger)
	if cfg.SeedPath != "" {
		seeded, err := repositories.SeedIfEmpty(ctx, repo, cfg.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("load network: %w", err)
		}
		if seeded {
			logger.Info("seeded empty network database", "seed", cfg.SeedPath)
		}
	}

	return newPathContext(ctx, repo, logger)
}

// newPathContext builds the immutable in-memory network and cost model
// shared by every request.
func newPathContext(ctx context.Context, repo ports.NetworkRepository, logger *slog.Logger) (ports.PathContext, error) {
	data, err := repo.LoadNetwork(ctx)
	if err != nil {
		return nil, err
	}
	store, err := network.NewStore(data)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}
	model, err := costmodel.NewLinear(data.Weights, logger)
	if err != nil {
		return nil, fmt.Errorf("load network: %w", err)
	}

	logger.Info("network loaded",
		"stops", len(data.Stops),
		"trips", len(data.Trips),
		"stop_times", len(data.StopTimes),
		"weights", len(data.Weights),
	)
	return services.JoinPathContext(store, store, model), nil
}
