package domain

// CostState says whether a Leg's cost fields came from assembly (provisional)
// or from the finalization pass (final).
type CostState int

const (
	CostProvisional CostState = iota
	CostFinal
)

// Represents one segment of an itinerary: an access walk, a ride on a trip,
// a transfer walk or an egress walk.
//
// The two clock times are stored as a raw pair whose meaning flips with the
// travel direction of the request: for outbound requests the first value is
// the departure, for inbound requests it is the arrival. Callers read and
// write them only through Depart/Arrive with the direction flag.
type Leg struct {
	Mode Mode

	// TripID is the vehicle trip for ModeTrip legs.
	TripID int
	// SupplyMode is the access/egress supply mode (walk, bike, PNR...) for
	// ModeAccess and ModeEgress legs.
	SupplyMode int

	// Seq is the stop sequence on the trip at the Path entry's stop.
	Seq int
	// SuccPredStop and SuccPredSeq identify the other end of the leg. They are
	// the successor for outbound requests and the predecessor for inbound ones.
	SuccPredStop int
	SuccPredSeq  int

	// Duration is the link time. For finalized trip legs it includes the wait
	// before boarding.
	Duration float64

	// LinkCost is this leg's contribution and CumulativeCost the running total
	// through this leg. Both are provisional until the Path is finalized.
	LinkCost       float64
	CumulativeCost float64

	// AltContinuation is a search hint about a cheaper competing continuation.
	// It is dropped when the leg is committed to a Path.
	AltContinuation *Path

	deparrTime float64
	arrdepTime float64
	costState  CostState
}

// Build a leg for the given direction with its departure and arrival times.
func NewLeg(mode Mode, outbound bool, depart, arrive float64) Leg {
	l := Leg{Mode: mode}
	l.SetDepart(outbound, depart)
	l.SetArrive(outbound, arrive)
	return l
}

func (l Leg) Depart(outbound bool) float64 {
	if outbound {
		return l.deparrTime
	}
	return l.arrdepTime
}

func (l Leg) Arrive(outbound bool) float64 {
	if outbound {
		return l.arrdepTime
	}
	return l.deparrTime
}

func (l *Leg) SetDepart(outbound bool, t float64) {
	if outbound {
		l.deparrTime = t
	} else {
		l.arrdepTime = t
	}
}

func (l *Leg) SetArrive(outbound bool, t float64) {
	if outbound {
		l.arrdepTime = t
	} else {
		l.deparrTime = t
	}
}

// InVehicleTime is arrival minus departure. It is only meaningful for trips.
func (l Leg) InVehicleTime(outbound bool) float64 {
	dir := 1.0
	if !outbound {
		dir = -1.0
	}
	return (l.arrdepTime - l.deparrTime) * dir
}

func (l Leg) CostState() CostState { return l.costState }

// IsTrip reports whether the leg is a ride on a vehicle.
func (l Leg) IsTrip() bool { return l.Mode == ModeTrip }

// ident is the mode-specific identifier used for ordering: the trip for
// rides, the supply mode for access and egress, zero for transfers.
func (l Leg) ident() int {
	switch l.Mode {
	case ModeTrip:
		return l.TripID
	case ModeAccess, ModeEgress:
		return l.SupplyMode
	case ModeTransfer:
		return 0
	default:
		panic(unknownMode(l.Mode))
	}
}
