package publisher

import (
	"context"
	"errors"
	"transit-pathset-service/internal/ports"
)

// Fanout publishes to every sink in order. All sinks are tried; their
// errors are joined.
type Fanout []ports.PathSetPublisher

func (f Fanout) Publish(ctx context.Context, summary ports.PathSetSummary) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
