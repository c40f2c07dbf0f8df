package services

import "time"

// Metrics receives evaluation counters. Implementations must be safe for
// concurrent use.
type Metrics interface {
	LegAppended(feasible bool)
	PathFinalized(d time.Duration)
	PathSetEvaluated(paths, rejected, truncated int)
}

type nopMetrics struct{}

func (nopMetrics) LegAppended(bool)               {}
func (nopMetrics) PathFinalized(time.Duration)    {}
func (nopMetrics) PathSetEvaluated(int, int, int) {}
