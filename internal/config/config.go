package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

type Config struct {
	Port        string
	DBDriver    string
	DatabaseURL string
	DBPath      string
	SeedPath    string

	// NATSURL empty disables path set publishing.
	NATSURL           string
	NATSSubjectPrefix string

	MetricsEnabled bool
	// ArchiveEnabled stores every evaluated path set in the network database.
	ArchiveEnabled bool

	Dispersion     float64
	MaxPaths       int
	MinProbability float64
	EvalWorkers    int
}

// Load reads .env (ignored if missing), then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:              Get("PORT", "8080"),
		DBDriver:          Get("DB_DRIVER", DriverSQLite),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBPath:            Get("DB_PATH", "data/network.db"),
		SeedPath:          Get("SEED_PATH", "data/seeds/network.json"),
		NATSURL:           strings.TrimSpace(os.Getenv("NATS_URL")),
		NATSSubjectPrefix: Get("NATS_SUBJECT_PREFIX", "pathsets"),
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL must be set when DB_DRIVER=pgx")
		}
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER: %q", cfg.DBDriver)
	}

	var err error
	if cfg.MetricsEnabled, err = boolVar("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	if cfg.ArchiveEnabled, err = boolVar("ARCHIVE_ENABLED", true); err != nil {
		return nil, err
	}

	if cfg.Dispersion, err = floatVar("PATHSET_DISPERSION", 1.0); err != nil {
		return nil, err
	}
	if cfg.Dispersion <= 0 {
		return nil, fmt.Errorf("invalid PATHSET_DISPERSION: %q", os.Getenv("PATHSET_DISPERSION"))
	}

	if cfg.MaxPaths, err = intVar("PATHSET_MAX_PATHS", 0); err != nil {
		return nil, err
	}
	if cfg.MaxPaths < 0 {
		return nil, fmt.Errorf("invalid PATHSET_MAX_PATHS: %q", os.Getenv("PATHSET_MAX_PATHS"))
	}

	if cfg.MinProbability, err = floatVar("PATHSET_MIN_PROBABILITY", 0.005); err != nil {
		return nil, err
	}
	if cfg.MinProbability < 0 || cfg.MinProbability >= 1 {
		return nil, fmt.Errorf("invalid PATHSET_MIN_PROBABILITY: %q", os.Getenv("PATHSET_MIN_PROBABILITY"))
	}

	if cfg.EvalWorkers, err = intVar("EVAL_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.EvalWorkers <= 0 {
		return nil, fmt.Errorf("invalid EVAL_WORKERS: %q", os.Getenv("EVAL_WORKERS"))
	}

	return cfg, nil
}

// Get returns the environment value of key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intVar(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func floatVar(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func boolVar(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s: %q", key, v)
}
