package repositories

import (
	"context"
	"testing"
	"transit-pathset-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePublishAndLookup(t *testing.T) {
	ctx := context.Background()
	archive := NewSQLPathSetArchive(openTestDB(t), SQLite, nil)

	first := ports.PathSetSummary{
		PathID: 7, Iteration: 1, Outbound: true, Chosen: "1 A 5",
		Paths: []ports.PathSummary{
			{Compact: "1 A 5", Cost: 10, Probability: 0.75, Count: 2},
			{Compact: "1 B 5", Cost: 12, Probability: 0.25, Count: 1},
		},
	}
	require.NoError(t, archive.Publish(ctx, first))

	got, ok, err := archive.Lookup(ctx, 7, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first, got)

	// Republishing the same iteration replaces it.
	replaced := first
	replaced.Chosen = "1 B 5"
	replaced.Paths = first.Paths[1:]
	require.NoError(t, archive.Publish(ctx, replaced))
	got, _, err = archive.Lookup(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, replaced, got)

	second := ports.PathSetSummary{PathID: 7, Iteration: 2, Chosen: "no_path", Paths: []ports.PathSummary{}}
	require.NoError(t, archive.Publish(ctx, second))
	got, ok, err = archive.Lookup(ctx, 7, -1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, got, "negative iteration selects the latest")

	_, ok, err = archive.Lookup(ctx, 8, -1)
	require.NoError(t, err)
	assert.False(t, ok)
}
