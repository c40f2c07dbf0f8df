package ports

import "context"

// Summary of one ranked alternative, as announced to other services.
type PathSummary struct {
	Compact     string  `json:"compact"`
	Cost        float64 `json:"cost"`
	Probability float64 `json:"probability"`
	Count       int     `json:"count"`
}

// Summary of an evaluated path set.
type PathSetSummary struct {
	PathID    int           `json:"path_id"`
	Iteration int           `json:"iteration"`
	Outbound  bool          `json:"outbound"`
	Chosen    string        `json:"chosen"`
	Paths     []PathSummary `json:"paths"`
}

// Port: an optional sink announcing evaluated path sets.
type PathSetPublisher interface {
	Publish(ctx context.Context, summary PathSetSummary) error
}

// Port: durable storage of evaluated path sets.
type PathSetArchive interface {
	PathSetPublisher
	// Lookup returns the stored path set for pathID and iteration; a
	// negative iteration selects the latest one. ok is false when none is stored.
	Lookup(ctx context.Context, pathID, iteration int) (summary PathSetSummary, ok bool, err error)
}
