package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"transit-pathset-service/internal/adapters/network"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "network.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func assertSameNetwork(t *testing.T, want, got *domain.NetworkData) {
	t.Helper()
	assert.Equal(t, want.TransferSupplyMode, got.TransferSupplyMode)
	assert.ElementsMatch(t, want.Stops, got.Stops)
	assert.ElementsMatch(t, want.SupplyModes, got.SupplyModes)
	assert.ElementsMatch(t, want.Trips, got.Trips)
	assert.ElementsMatch(t, want.StopTimes, got.StopTimes)
	assert.ElementsMatch(t, want.AccessLinks, got.AccessLinks)
	assert.ElementsMatch(t, want.Transfers, got.Transfers)
	assert.ElementsMatch(t, want.Weights, got.Weights)
}

func TestSaveAndLoadNetwork(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLNetworkRepository(openTestDB(t), SQLite, nil)

	want := network.SampleData()
	require.NoError(t, repo.SaveNetwork(ctx, want))

	got, err := repo.LoadNetwork(ctx)
	require.NoError(t, err)
	assertSameNetwork(t, want, got)

	// Saving again replaces rather than duplicates.
	smaller := network.SampleData()
	smaller.Transfers = nil
	require.NoError(t, repo.SaveNetwork(ctx, smaller))
	got, err = repo.LoadNetwork(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Transfers)
	assert.Len(t, got.Stops, len(want.Stops))
}

func TestInitSchemaIsRepeatable(t *testing.T) {
	conn := openTestDB(t)
	assert.NoError(t, InitSchema(context.Background(), conn))
	assert.Error(t, InitSchema(context.Background(), nil))
}

func TestLoadNetworkRequiresTransferMode(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLNetworkRepository(openTestDB(t), SQLite, nil)

	data := network.SampleData()
	data.TransferSupplyMode = 99 // not among the supply modes, so nothing is flagged
	require.NoError(t, repo.SaveNetwork(ctx, data))

	_, err := repo.LoadNetwork(ctx)
	assert.ErrorContains(t, err, "no supply mode flagged as transfer")
}

func TestSeedFileMatchesSampleNetwork(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLNetworkRepository(openTestDB(t), SQLite, nil)

	require.NoError(t, SeedFromJSON(ctx, repo, filepath.Join("..", "..", "..", "data", "seeds", "network.json")))

	got, err := repo.LoadNetwork(ctx)
	require.NoError(t, err)
	assertSameNetwork(t, network.SampleData(), got)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLNetworkRepository(openTestDB(t), SQLite, nil)
	seed := filepath.Join("..", "..", "..", "data", "seeds", "network.json")

	empty, err := repo.Empty(ctx)
	require.NoError(t, err)
	assert.True(t, empty)

	seeded, err := SeedIfEmpty(ctx, repo, seed)
	require.NoError(t, err)
	assert.True(t, seeded)

	// A saved network is left alone.
	custom := network.SampleData()
	custom.Transfers = nil
	require.NoError(t, repo.SaveNetwork(ctx, custom))
	seeded, err = SeedIfEmpty(ctx, repo, seed)
	require.NoError(t, err)
	assert.False(t, seeded)

	got, err := repo.LoadNetwork(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Transfers)
}

func TestSeedFromJSONRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLNetworkRepository(openTestDB(t), SQLite, nil)
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"stops": [`, "parse json"},
		{"undeclared transfer mode", `{"transfer_supply_mode": 3, "supply_modes": [{"supply_mode": 1}]}`, "transfer_supply_mode 3"},
		{"bad stop", `{"supply_modes": [{"supply_mode": 0}], "stops": [{"stop_id": 0}]}`, "invalid stop_id"},
		{"bad mode type", `{"supply_modes": [{"supply_mode": 0}], "weights": [{"mode_type": "ferry", "name": "x"}]}`, `unknown mode "ferry"`},
		{"backwards stop time", `{"supply_modes": [{"supply_mode": 0}], "stop_times": [{"trip_id": 1, "seq": 1, "arrive_min": 10, "depart_min": 9}]}`, "departs before it arrives"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			assert.ErrorContains(t, SeedFromJSON(ctx, repo, path), tt.want)
		})
	}

	assert.ErrorContains(t, SeedFromJSON(ctx, repo, filepath.Join(dir, "missing.json")), "read")
}

func TestRebind(t *testing.T) {
	q := `INSERT INTO stops (stop_id, label) VALUES (?, ?);`
	assert.Equal(t, q, SQLite.rebind(q))
	assert.Equal(t, `INSERT INTO stops (stop_id, label) VALUES ($1, $2);`, Postgres.rebind(q))
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}
