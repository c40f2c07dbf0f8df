package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/platform/obs"
)

// SQL-backed implementation of the NetworkRepository port. It works on
// SQLite and Postgres through the shared schema.
type SQLNetworkRepository struct {
	DB      *sql.DB
	Dialect Dialect
	Logger  *slog.Logger
}

func NewSQLNetworkRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *SQLNetworkRepository {
	return &SQLNetworkRepository{DB: db, Dialect: dialect, Logger: logger}
}

// Return every network table.
func (r *SQLNetworkRepository) LoadNetwork(ctx context.Context) (_ *domain.NetworkData, err error) {
	defer obs.Time(ctx, r.Logger, "network.repository.LoadNetwork")(&err)

	if r.DB == nil {
		return nil, errors.New("load network: DB is nil")
	}

	data := &domain.NetworkData{}
	loaders := []struct {
		name string
		load func(context.Context, *domain.NetworkData) error
	}{
		{"stops", r.loadStops},
		{"supply_modes", r.loadSupplyModes},
		{"trips", r.loadTrips},
		{"stop_times", r.loadStopTimes},
		{"access_link_attributes", r.loadAccessLinks},
		{"transfer_attributes", r.loadTransfers},
		{"weights", r.loadWeights},
	}
	for _, l := range loaders {
		if err := l.load(ctx, data); err != nil {
			return nil, fmt.Errorf("load network: %s: %w", l.name, err)
		}
	}

	return data, nil
}

// Empty reports whether no network has been saved yet.
func (r *SQLNetworkRepository) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM supply_modes;`).Scan(&n); err != nil {
		return false, fmt.Errorf("count supply modes: %w", err)
	}
	return n == 0, nil
}

func (r *SQLNetworkRepository) query(ctx context.Context, q string, scan func(*sql.Rows) error) error {
	rows, err := r.DB.QueryContext(ctx, r.Dialect.rebind(q))
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration: %w", err)
	}
	return nil
}

func (r *SQLNetworkRepository) loadStops(ctx context.Context, data *domain.NetworkData) error {
	return r.query(ctx, `SELECT stop_id, label FROM stops ORDER BY stop_id;`, func(rows *sql.Rows) error {
		var s domain.Stop
		if err := rows.Scan(&s.StopID, &s.Label); err != nil {
			return err
		}
		data.Stops = append(data.Stops, s)
		return nil
	})
}

func (r *SQLNetworkRepository) loadSupplyModes(ctx context.Context, data *domain.NetworkData) error {
	transfer := -1
	err := r.query(ctx, `
	SELECT supply_mode, label, is_transfer
	FROM supply_modes
	ORDER BY supply_mode;
	`, func(rows *sql.Rows) error {
		var sm domain.SupplyMode
		var isTransfer int
		if err := rows.Scan(&sm.SupplyMode, &sm.Label, &isTransfer); err != nil {
			return err
		}
		if isTransfer != 0 {
			if transfer >= 0 {
				return fmt.Errorf("supply modes %d and %d both flagged as transfer", transfer, sm.SupplyMode)
			}
			transfer = sm.SupplyMode
		}
		data.SupplyModes = append(data.SupplyModes, sm)
		return nil
	})
	if err != nil {
		return err
	}
	if transfer < 0 {
		return errors.New("no supply mode flagged as transfer")
	}
	data.TransferSupplyMode = transfer
	return nil
}

func (r *SQLNetworkRepository) loadTrips(ctx context.Context, data *domain.NetworkData) error {
	index := make(map[int]int)
	err := r.query(ctx, `SELECT trip_id, label, supply_mode FROM trips ORDER BY trip_id;`, func(rows *sql.Rows) error {
		var t domain.Trip
		if err := rows.Scan(&t.TripID, &t.Label, &t.SupplyMode); err != nil {
			return err
		}
		t.Attributes = domain.Attributes{}
		index[t.TripID] = len(data.Trips)
		data.Trips = append(data.Trips, t)
		return nil
	})
	if err != nil {
		return err
	}

	return r.query(ctx, `SELECT trip_id, name, value FROM trip_attributes ORDER BY trip_id, name;`, func(rows *sql.Rows) error {
		var tripID int
		var name string
		var value float64
		if err := rows.Scan(&tripID, &name, &value); err != nil {
			return err
		}
		i, ok := index[tripID]
		if !ok {
			return fmt.Errorf("attribute %q for unknown trip_id=%d", name, tripID)
		}
		data.Trips[i].Attributes[name] = value
		return nil
	})
}

func (r *SQLNetworkRepository) loadStopTimes(ctx context.Context, data *domain.NetworkData) error {
	return r.query(ctx, `
	SELECT trip_id, seq, stop_id, arrive_min, depart_min, overcap
	FROM stop_times
	ORDER BY trip_id, seq;
	`, func(rows *sql.Rows) error {
		var st domain.StopTime
		if err := rows.Scan(&st.TripID, &st.Seq, &st.StopID, &st.Arrive, &st.Depart, &st.Overcap); err != nil {
			return err
		}
		data.StopTimes = append(data.StopTimes, st)
		return nil
	})
}

func (r *SQLNetworkRepository) loadAccessLinks(ctx context.Context, data *domain.NetworkData) error {
	type key struct{ taz, mode, stop int }
	index := make(map[key]int)
	return r.query(ctx, `
	SELECT taz_id, supply_mode, stop_id, name, value
	FROM access_link_attributes
	ORDER BY taz_id, supply_mode, stop_id, name;
	`, func(rows *sql.Rows) error {
		var k key
		var name string
		var value float64
		if err := rows.Scan(&k.taz, &k.mode, &k.stop, &name, &value); err != nil {
			return err
		}
		i, ok := index[k]
		if !ok {
			i = len(data.AccessLinks)
			index[k] = i
			data.AccessLinks = append(data.AccessLinks, domain.AccessLink{
				TAZID: k.taz, SupplyMode: k.mode, StopID: k.stop, Attributes: domain.Attributes{},
			})
		}
		data.AccessLinks[i].Attributes[name] = value
		return nil
	})
}

func (r *SQLNetworkRepository) loadTransfers(ctx context.Context, data *domain.NetworkData) error {
	type key struct{ from, to int }
	index := make(map[key]int)
	return r.query(ctx, `
	SELECT from_stop, to_stop, name, value
	FROM transfer_attributes
	ORDER BY from_stop, to_stop, name;
	`, func(rows *sql.Rows) error {
		var k key
		var name string
		var value float64
		if err := rows.Scan(&k.from, &k.to, &name, &value); err != nil {
			return err
		}
		i, ok := index[k]
		if !ok {
			i = len(data.Transfers)
			index[k] = i
			data.Transfers = append(data.Transfers, domain.Transfer{
				FromStop: k.from, ToStop: k.to, Attributes: domain.Attributes{},
			})
		}
		data.Transfers[i].Attributes[name] = value
		return nil
	})
}

func (r *SQLNetworkRepository) loadWeights(ctx context.Context, data *domain.NetworkData) error {
	return r.query(ctx, `
	SELECT user_class, purpose, mode_type, demand_mode, supply_mode, name, value
	FROM weights
	ORDER BY user_class, purpose, mode_type, demand_mode, supply_mode, name;
	`, func(rows *sql.Rows) error {
		var w domain.Weight
		var modeType string
		if err := rows.Scan(&w.Key.UserClass, &w.Key.Purpose, &modeType, &w.Key.DemandMode, &w.Key.SupplyMode, &w.Name, &w.Value); err != nil {
			return err
		}
		mode, err := domain.ParseMode(modeType)
		if err != nil {
			return err
		}
		w.Key.ModeType = mode
		data.Weights = append(data.Weights, w)
		return nil
	})
}

// Replace the stored network with data in a single transaction.
func (r *SQLNetworkRepository) SaveNetwork(ctx context.Context, data *domain.NetworkData) (err error) {
	defer obs.Time(ctx, r.Logger, "network.repository.SaveNetwork")(&err)

	if r.DB == nil {
		return errors.New("save network: DB is nil")
	}
	if data == nil {
		return errors.New("save network: data is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save network: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{
		"stops", "supply_modes", "trips", "trip_attributes", "stop_times",
		"access_link_attributes", "transfer_attributes", "weights",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+";"); err != nil {
			return fmt.Errorf("save network: clear %s: %w", table, err)
		}
	}

	w := &txWriter{ctx: ctx, tx: tx, dialect: r.Dialect}

	for _, s := range data.Stops {
		w.exec("stops", `INSERT INTO stops (stop_id, label) VALUES (?, ?);`, s.StopID, s.Label)
	}
	for _, sm := range data.SupplyModes {
		isTransfer := 0
		if sm.SupplyMode == data.TransferSupplyMode {
			isTransfer = 1
		}
		w.exec("supply_modes", `INSERT INTO supply_modes (supply_mode, label, is_transfer) VALUES (?, ?, ?);`,
			sm.SupplyMode, sm.Label, isTransfer)
	}
	for _, t := range data.Trips {
		w.exec("trips", `INSERT INTO trips (trip_id, label, supply_mode) VALUES (?, ?, ?);`, t.TripID, t.Label, t.SupplyMode)
		for _, name := range t.Attributes.Names() {
			w.exec("trip_attributes", `INSERT INTO trip_attributes (trip_id, name, value) VALUES (?, ?, ?);`,
				t.TripID, name, t.Attributes[name])
		}
	}
	for _, st := range data.StopTimes {
		w.exec("stop_times", `
		INSERT INTO stop_times (trip_id, seq, stop_id, arrive_min, depart_min, overcap)
		VALUES (?, ?, ?, ?, ?, ?);
		`, st.TripID, st.Seq, st.StopID, st.Arrive, st.Depart, st.Overcap)
	}
	for _, a := range data.AccessLinks {
		for _, name := range a.Attributes.Names() {
			w.exec("access_link_attributes", `
			INSERT INTO access_link_attributes (taz_id, supply_mode, stop_id, name, value)
			VALUES (?, ?, ?, ?, ?);
			`, a.TAZID, a.SupplyMode, a.StopID, name, a.Attributes[name])
		}
	}
	for _, t := range data.Transfers {
		for _, name := range t.Attributes.Names() {
			w.exec("transfer_attributes", `
			INSERT INTO transfer_attributes (from_stop, to_stop, name, value)
			VALUES (?, ?, ?, ?);
			`, t.FromStop, t.ToStop, name, t.Attributes[name])
		}
	}
	for _, wt := range data.Weights {
		w.exec("weights", `
		INSERT INTO weights (user_class, purpose, mode_type, demand_mode, supply_mode, name, value)
		VALUES (?, ?, ?, ?, ?, ?, ?);
		`, wt.Key.UserClass, wt.Key.Purpose, wt.Key.ModeType.String(), wt.Key.DemandMode, wt.Key.SupplyMode, wt.Name, wt.Value)
	}
	if w.err != nil {
		return fmt.Errorf("save network: %w", w.err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save network: commit tx: %w", err)
	}

	return nil
}

// txWriter keeps the first insert error so a long run of inserts reads
// without per-statement checks.
type txWriter struct {
	ctx     context.Context
	tx      *sql.Tx
	dialect Dialect
	err     error
}

func (w *txWriter) exec(table, q string, args ...any) {
	if w.err != nil {
		return
	}
	if _, err := w.tx.ExecContext(w.ctx, w.dialect.rebind(q), args...); err != nil {
		w.err = fmt.Errorf("insert into %s: %w", table, err)
	}
}
