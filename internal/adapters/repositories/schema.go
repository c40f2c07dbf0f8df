package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder syntax. The schema and statements are
// otherwise shared between SQLite and Postgres.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// Map a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "pgx", "postgres":
		return Postgres, nil
	default:
		return 0, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (d Dialect) rebind(q string) string {
	if d != Postgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Attributes of trips, access links and transfers are stored one row per
// name, so a link without attributes has no rows.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS stops (
		stop_id INTEGER PRIMARY KEY,
		label TEXT NOT NULL DEFAULT ''
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS supply_modes (
		supply_mode INTEGER PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		is_transfer INTEGER NOT NULL DEFAULT 0
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS trips (
		trip_id INTEGER PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		supply_mode INTEGER NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS trip_attributes (
		trip_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (trip_id, name)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS stop_times (
		trip_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		stop_id INTEGER NOT NULL,
		arrive_min DOUBLE PRECISION NOT NULL,
		depart_min DOUBLE PRECISION NOT NULL,
		overcap DOUBLE PRECISION NOT NULL DEFAULT -1,
		PRIMARY KEY (trip_id, seq)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS access_link_attributes (
		taz_id INTEGER NOT NULL,
		supply_mode INTEGER NOT NULL,
		stop_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (taz_id, supply_mode, stop_id, name)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS transfer_attributes (
		from_stop INTEGER NOT NULL,
		to_stop INTEGER NOT NULL,
		name TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (from_stop, to_stop, name)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS weights (
		user_class TEXT NOT NULL,
		purpose TEXT NOT NULL,
		mode_type TEXT NOT NULL,
		demand_mode TEXT NOT NULL,
		supply_mode INTEGER NOT NULL,
		name TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (user_class, purpose, mode_type, demand_mode, supply_mode, name)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS pathset_runs (
		path_id INTEGER NOT NULL,
		iteration INTEGER NOT NULL,
		outbound INTEGER NOT NULL,
		chosen TEXT NOT NULL,
		PRIMARY KEY (path_id, iteration)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS pathset_paths (
		path_id INTEGER NOT NULL,
		iteration INTEGER NOT NULL,
		path_rank INTEGER NOT NULL,
		compact TEXT NOT NULL,
		cost DOUBLE PRECISION NOT NULL,
		probability DOUBLE PRECISION NOT NULL,
		path_count INTEGER NOT NULL,
		PRIMARY KEY (path_id, iteration, path_rank)
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_stop_times_stop
	ON stop_times(stop_id, trip_id);
	`,
}

// Initialize the network database schema. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
