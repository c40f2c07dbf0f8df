package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"transit-pathset-service/internal/platform/obs"
	"transit-pathset-service/internal/ports"
)

// SQLPathSetArchive stores evaluated path sets next to the network. A path
// set published again for the same path and iteration replaces the old one.
type SQLPathSetArchive struct {
	DB      *sql.DB
	Dialect Dialect
	Logger  *slog.Logger
}

func NewSQLPathSetArchive(db *sql.DB, dialect Dialect, logger *slog.Logger) *SQLPathSetArchive {
	return &SQLPathSetArchive{DB: db, Dialect: dialect, Logger: logger}
}

func (a *SQLPathSetArchive) Publish(ctx context.Context, s ports.PathSetSummary) (err error) {
	defer obs.Time(ctx, a.Logger, "pathset.archive.Publish")(&err)

	if a.DB == nil {
		return errors.New("archive path set: DB is nil")
	}

	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive path set %d: begin tx: %w", s.PathID, err)
	}
	defer func() { _ = tx.Rollback() }()

	outbound := 0
	if s.Outbound {
		outbound = 1
	}

	w := &txWriter{ctx: ctx, tx: tx, dialect: a.Dialect}
	w.exec("pathset_runs", `
	INSERT INTO pathset_runs (path_id, iteration, outbound, chosen)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (path_id, iteration) DO UPDATE
	SET outbound = excluded.outbound,
		chosen = excluded.chosen;
	`, s.PathID, s.Iteration, outbound, s.Chosen)
	w.exec("pathset_paths", `DELETE FROM pathset_paths WHERE path_id = ? AND iteration = ?;`, s.PathID, s.Iteration)
	for rank, p := range s.Paths {
		w.exec("pathset_paths", `
		INSERT INTO pathset_paths (path_id, iteration, path_rank, compact, cost, probability, path_count)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`, s.PathID, s.Iteration, rank, p.Compact, p.Cost, p.Probability, p.Count)
	}
	if w.err != nil {
		return fmt.Errorf("archive path set %d: %w", s.PathID, w.err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive path set %d: commit: %w", s.PathID, err)
	}
	return nil
}

func (a *SQLPathSetArchive) Lookup(ctx context.Context, pathID, iteration int) (_ ports.PathSetSummary, _ bool, err error) {
	defer obs.Time(ctx, a.Logger, "pathset.archive.Lookup")(&err)

	if a.DB == nil {
		return ports.PathSetSummary{}, false, errors.New("lookup path set: DB is nil")
	}

	q := `SELECT iteration, outbound, chosen FROM pathset_runs WHERE path_id = ? AND iteration = ?;`
	args := []any{pathID, iteration}
	if iteration < 0 {
		q = `SELECT iteration, outbound, chosen FROM pathset_runs WHERE path_id = ? ORDER BY iteration DESC LIMIT 1;`
		args = args[:1]
	}

	s := ports.PathSetSummary{PathID: pathID, Paths: []ports.PathSummary{}}
	var outbound int
	err = a.DB.QueryRowContext(ctx, a.Dialect.rebind(q), args...).Scan(&s.Iteration, &outbound, &s.Chosen)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.PathSetSummary{}, false, nil
	}
	if err != nil {
		return ports.PathSetSummary{}, false, fmt.Errorf("lookup path set %d: query pathset_runs: %w", pathID, err)
	}
	s.Outbound = outbound != 0

	rows, err := a.DB.QueryContext(ctx, a.Dialect.rebind(`
	SELECT compact, cost, probability, path_count
	FROM pathset_paths
	WHERE path_id = ? AND iteration = ?
	ORDER BY path_rank;
	`), pathID, s.Iteration)
	if err != nil {
		return ports.PathSetSummary{}, false, fmt.Errorf("lookup path set %d: query pathset_paths: %w", pathID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p ports.PathSummary
		if err := rows.Scan(&p.Compact, &p.Cost, &p.Probability, &p.Count); err != nil {
			return ports.PathSetSummary{}, false, fmt.Errorf("lookup path set %d: scan rows: %w", pathID, err)
		}
		s.Paths = append(s.Paths, p)
	}
	if err := rows.Err(); err != nil {
		return ports.PathSetSummary{}, false, fmt.Errorf("lookup path set %d: row iteration: %w", pathID, err)
	}

	return s, true, nil
}
