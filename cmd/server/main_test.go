package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"transit-pathset-service/internal/adapters/network"
	"transit-pathset-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	data *domain.NetworkData
	err  error
}

func (r stubRepo) LoadNetwork(context.Context) (*domain.NetworkData, error) { return r.data, r.err }

func TestNewPathContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pc, err := newPathContext(context.Background(), stubRepo{data: network.SampleData()}, logger)
	require.NoError(t, err)
	assert.Equal(t, "CENTRAL", pc.StopLabel(5))
	dep, ok := pc.ScheduledDeparture(11, 1, 1)
	require.True(t, ok)
	assert.Equal(t, 60.0, dep)

	_, err = newPathContext(context.Background(), stubRepo{err: errors.New("db down")}, logger)
	assert.EqualError(t, err, "db down")

	bad := network.SampleData()
	bad.Weights = append(bad.Weights, bad.Weights[0])
	_, err = newPathContext(context.Background(), stubRepo{data: bad}, logger)
	assert.ErrorContains(t, err, "load network")
}
