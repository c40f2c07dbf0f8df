package services

import "errors"

// Lookup failures while scoring a completed path. They are wrapped with the
// path and leg they occurred on.
var (
	ErrNoWeights         = errors.New("no weights for traveler segment")
	ErrNoAttributes      = errors.New("no link attributes")
	ErrUnknownTrip       = errors.New("unknown trip")
	ErrNoStopTime        = errors.New("no stop time")
	ErrDirectionMismatch = errors.New("request direction does not match path direction")
)
