package costmodel

import (
	"fmt"
	"log/slog"
	"transit-pathset-service/internal/domain"
)

// Linear is a weighted-sum utility function: the cost of a link is the sum
// of weight times attribute over every named weight. It implements
// ports.CostModel and is read-only after construction.
type Linear struct {
	weights map[domain.WeightKey]domain.NamedWeights
	logger  *slog.Logger
}

func NewLinear(rows []domain.Weight, logger *slog.Logger) (*Linear, error) {
	if logger == nil {
		logger = slog.Default()
	}

	weights := make(map[domain.WeightKey]domain.NamedWeights)
	for i, w := range rows {
		if w.Name == "" {
			return nil, fmt.Errorf("new linear cost model: weight #%d has no name", i+1)
		}
		named, ok := weights[w.Key]
		if !ok {
			named = domain.NamedWeights{}
			weights[w.Key] = named
		}
		if _, dup := named[w.Name]; dup {
			return nil, fmt.Errorf("new linear cost model: duplicate weight %q for %+v", w.Name, w.Key)
		}
		named[w.Name] = w.Value
	}

	return &Linear{weights: weights, logger: logger}, nil
}

func (l *Linear) NamedWeights(key domain.WeightKey) (domain.NamedWeights, bool) {
	w, ok := l.weights[key]
	return w, ok
}

// Tally sums weight times attribute in weight-name order, so equal inputs
// always produce bit-identical costs. A weight without a matching attribute
// is reported and contributes nothing.
func (l *Linear) Tally(supplyMode int, weights domain.NamedWeights, attrs domain.Attributes) float64 {
	var cost float64
	for _, name := range weights.Names() {
		v, ok := attrs[name]
		if !ok {
			l.logger.Warn("cost model: attribute missing for weight",
				"supply_mode", supplyMode,
				"attribute", name,
			)
			continue
		}
		cost += weights[name] * v
	}
	return cost
}
