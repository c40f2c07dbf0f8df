package ports

import "transit-pathset-service/internal/domain"

// Contract for the pluggable utility function that turns link attributes
// into a generalized cost.
type CostModel interface {
	// Return the weights for a traveler segment and mode.
	NamedWeights(key domain.WeightKey) (domain.NamedWeights, bool)
	// Return the weighted tally of attributes.
	Tally(supplyMode int, weights domain.NamedWeights, attrs domain.Attributes) float64
}
