package ports

import "transit-pathset-service/internal/domain"

// Contract for read-only lookups against the transit network.
// Implementations must be safe for concurrent use by many workers.
type NetworkProvider interface {
	domain.DepartureLookup

	// Return the attributes of the access or egress link between a zone and a stop.
	AccessAttributes(tazID, supplyMode, stopID int) (domain.Attributes, bool)
	// Return the attributes of the walk transfer between two stops.
	TransferAttributes(originStop, destStop int) (domain.Attributes, bool)
	// Return the static information of a trip.
	TripInfo(tripID int) (domain.TripInfo, bool)
	// Return the raw overcap of a trip at a stop sequence. Negative means no
	// overcap was observed.
	Overcap(tripID, seq int) (float64, bool)
	// The supply mode number used for transfer links.
	TransferSupplyMode() int
}
