package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"transit-pathset-service/internal/adapters/repositories"
	"transit-pathset-service/internal/config"
	"transit-pathset-service/internal/platform/db"
)

// dbtool initializes the network schema and loads a JSON seed, replacing any
// network already stored.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	seedPath := flag.String("seed", cfg.SeedPath, "network seed JSON file")
	schemaOnly := flag.Bool("schema-only", false, "create tables without seeding")
	flag.Parse()

	conn, err := db.OpenDriver(cfg.DBDriver, cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		logger.Error("open database failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := initAndSeed(context.Background(), logger, conn, cfg.DBDriver, *seedPath, *schemaOnly); err != nil {
		logger.Error("dbtool failed", "err", err)
		conn.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, logger *slog.Logger, conn *sql.DB, driver, seedPath string, schemaOnly bool) error {
	dialect, err := repositories.DialectFor(driver)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logger.Info("schema ready")
	if schemaOnly {
		return nil
	}

	logger.Info("seeding database", "seed", seedPath)
	repo := repositories.NewSQLNetworkRepository(conn, dialect, logger)
	if err := repositories.SeedFromJSON(ctx, repo, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logger.Info("seeding complete")

	return nil
}
