package domain

import (
	"maps"
	"slices"
)

// Attribute names the cost evaluator sets on top of collaborator-supplied
// attribute sets.
const (
	AttrPreferredDelay = "preferred_delay_min"
	AttrInVehicleTime  = "in_vehicle_time_min"
	AttrWaitTime       = "wait_time_min"
	AttrOvercap        = "overcap"
	AttrAtCapacity     = "at_capacity"
	AttrWalkTime       = "walk_time_min"
	AttrTransferPen    = "transfer_penalty"
	AttrElevationGain  = "elevation_gain"
)

// Attributes are named numeric properties of a link that a utility function
// weighs, e.g. walk time or in-vehicle time.
type Attributes map[string]float64

// Clone returns an independent copy, so shared lookup tables are never
// written to.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}
	return maps.Clone(a)
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// NamedWeights are the utility coefficients applied to attributes by name.
type NamedWeights map[string]float64

// Names returns the weight names in sorted order.
func (w NamedWeights) Names() []string {
	return slices.Sorted(maps.Keys(w))
}

// Static information about one vehicle trip.
type TripInfo struct {
	SupplyMode int
	Attributes Attributes
}

// WeightKey selects a set of named weights.
type WeightKey struct {
	UserClass  string
	Purpose    string
	ModeType   Mode
	DemandMode string
	SupplyMode int
}
