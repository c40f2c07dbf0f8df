package ports

import (
	"context"
	"transit-pathset-service/internal/domain"
)

// Port: a boundary for retrieving the transit network from a data source.
type NetworkRepository interface {
	// Retrieve every network table needed to serve path requests.
	LoadNetwork(ctx context.Context) (*domain.NetworkData, error)
}
