package services

import (
	"fmt"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/ports"
)

// CostEvaluator computes the authoritative generalized cost of completed
// paths. It holds no per-path state and may be shared by workers.
type CostEvaluator struct {
	network ports.NetworkProvider
	model   ports.CostModel
}

func NewCostEvaluator(network ports.NetworkProvider, model ports.CostModel) *CostEvaluator {
	return &CostEvaluator{network: network, model: model}
}

// Finalize rescores every leg of p in travel-time order, replacing the
// provisional costs from assembly. Running it again on an unchanged path
// gives the same result. An empty path is left alone.
func (e *CostEvaluator) Finalize(p *domain.Path, spec domain.PathSpec, tr *Trace) error {
	if p.Empty() {
		return nil
	}
	if spec.Outbound != p.Outbound() {
		return fmt.Errorf("finalize path %d: %w", spec.PathID, ErrDirectionMismatch)
	}

	tr.Printf("finalize path %d: (chrono? %t)", spec.PathID, p.Chronological())

	err := p.Rescore(func(stopID int, leg domain.Leg) (float64, error) {
		key, supplyMode, attrs, err := e.linkAttributes(stopID, leg, spec)
		if err != nil {
			return 0, fmt.Errorf("%s leg at stop %d: %w", leg.Mode, stopID, err)
		}
		weights, ok := e.model.NamedWeights(key)
		if !ok {
			return 0, fmt.Errorf("%s leg at stop %d: %+v: %w", leg.Mode, stopID, key, ErrNoWeights)
		}
		cost := e.model.Tally(supplyMode, weights, attrs)
		if tr.Enabled() {
			for _, name := range weights.Names() {
				tr.Printf("  %-24s weight %10.4f x attr %10.4f", name, weights[name], attrs[name])
			}
			tr.Printf(" %s at stop %d: link cost %.4f", leg.Mode, stopID, cost)
		}
		return cost, nil
	})
	if err != nil {
		_ = tr.Flush()
		return fmt.Errorf("finalize path %d: %w", spec.PathID, err)
	}

	tr.Printf(" ==================================================> cost: %g", p.Cost())
	_ = tr.Flush()
	return nil
}

// linkAttributes gathers what the cost model weighs for one leg, plus the
// key selecting its weights and the supply mode reported to the tally.
func (e *CostEvaluator) linkAttributes(
	stopID int,
	leg domain.Leg,
	spec domain.PathSpec,
) (domain.WeightKey, int, domain.Attributes, error) {
	out := spec.Outbound
	key := domain.WeightKey{UserClass: spec.UserClass, Purpose: spec.Purpose, ModeType: leg.Mode}

	switch leg.Mode {
	case domain.ModeAccess:
		// Inbound travelers want to leave as late as they can.
		origDepart, delay, stop := leg.Depart(out), 0.0, leg.SuccPredStop
		if !out {
			origDepart = leg.Arrive(out) - leg.Duration
			delay = origDepart - spec.PreferredTime
			stop = stopID
		}
		attrs, ok := e.network.AccessAttributes(spec.OriginTAZ, leg.SupplyMode, stop)
		if !ok {
			return key, 0, nil, fmt.Errorf("taz %d stop %d: %w", spec.OriginTAZ, stop, ErrNoAttributes)
		}
		attrs = attrs.Clone()
		attrs[domain.AttrPreferredDelay] = delay
		key.DemandMode, key.SupplyMode = spec.AccessMode, leg.SupplyMode
		return key, leg.SupplyMode, attrs, nil

	case domain.ModeEgress:
		// Outbound travelers want to arrive as early as they can.
		destArrive, delay, stop := leg.Arrive(out), 0.0, leg.SuccPredStop
		if out {
			destArrive = leg.Depart(out) + leg.Duration
			delay = spec.PreferredTime - destArrive
			stop = stopID
		}
		attrs, ok := e.network.AccessAttributes(spec.DestinationTAZ, leg.SupplyMode, stop)
		if !ok {
			return key, 0, nil, fmt.Errorf("taz %d stop %d: %w", spec.DestinationTAZ, stop, ErrNoAttributes)
		}
		attrs = attrs.Clone()
		attrs[domain.AttrPreferredDelay] = delay
		key.DemandMode, key.SupplyMode = spec.EgressMode, leg.SupplyMode
		return key, leg.SupplyMode, attrs, nil

	case domain.ModeTransfer:
		orig, dest := stopID, leg.SuccPredStop
		if !out {
			orig, dest = dest, orig
		}
		attrs, ok := e.network.TransferAttributes(orig, dest)
		if !ok {
			return key, 0, nil, fmt.Errorf("transfer %d to %d: %w", orig, dest, ErrNoAttributes)
		}
		supplyMode := e.network.TransferSupplyMode()
		key.DemandMode, key.SupplyMode = "transfer", supplyMode
		return key, supplyMode, attrs.Clone(), nil

	case domain.ModeTrip:
		info, ok := e.network.TripInfo(leg.TripID)
		if !ok {
			return key, 0, nil, fmt.Errorf("trip %d: %w", leg.TripID, ErrUnknownTrip)
		}
		overcap, ok := e.network.Overcap(leg.TripID, leg.Seq)
		if !ok {
			return key, 0, nil, fmt.Errorf("trip %d seq %d: %w", leg.TripID, leg.Seq, ErrNoStopTime)
		}
		attrs := tripAttributes(info.Attributes, leg.InVehicleTime(out), leg.Duration, overcap)
		key.DemandMode, key.SupplyMode = spec.TransitMode, info.SupplyMode
		return key, info.SupplyMode, attrs, nil

	default:
		panic(fmt.Sprintf("services: leg has unrecognized mode %d", int(leg.Mode)))
	}
}

// tripAttributes adds the time-dependent ride attributes to the static trip
// attributes. Wait is whatever part of the link time is not spent riding.
// The at-capacity flag follows the raw overcap; overcap itself never goes
// below zero, since a missing figure is no evidence of crowding.
func tripAttributes(static domain.Attributes, ivt, linkTime, overcap float64) domain.Attributes {
	attrs := static.Clone()
	attrs[domain.AttrInVehicleTime] = ivt
	attrs[domain.AttrWaitTime] = linkTime - ivt
	attrs[domain.AttrOvercap] = overcap
	attrs[domain.AttrAtCapacity] = 0
	if overcap >= 0 {
		attrs[domain.AttrAtCapacity] = 1
	}
	if overcap < 0 {
		attrs[domain.AttrOvercap] = 0
	}
	return attrs
}
