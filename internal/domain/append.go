package domain

// DepartureLookup resolves the scheduled departure of a trip from a stop.
// A negative seq matches any sequence. ok is false when the trip does not
// serve that stop.
type DepartureLookup interface {
	ScheduledDeparture(tripID, stopID, seq int) (dep float64, ok bool)
}

// Append reconciles leg against the path built so far and adds it.
//
// Hyperpath legs carry timing uncertainty which is resolved here: access legs
// are shifted to just catch the first trip, transfers and egress start right
// after the previous arrival, and trip legs pick up the wait before boarding.
// It returns false when the leg cannot follow (or precede) the legs already
// in the path in real time. On false the leg is not added and the path cost
// is unchanged, but adjustments already made to earlier legs are not rolled
// back: the caller must discard the path.
func (p *Path) Append(stopID int, leg Leg, sched DepartureLookup) bool {
	leg.AltContinuation = nil
	leg.costState = CostProvisional

	if len(p.links) > 0 {
		var feasible bool
		if p.Chronological() {
			feasible = p.reconcileForward(stopID, &leg, sched)
		} else {
			feasible = p.reconcileReverse(&leg, sched)
		}
		if !feasible {
			return false
		}
	}

	p.cost += leg.LinkCost
	leg.CumulativeCost = p.cost
	p.links = append(p.links, Link{StopID: stopID, Leg: leg})
	return true
}

// lookBack returns the leg k positions behind the end of the path, so that
// lookBack(1) is the last leg. The pointer is only valid until the next
// append.
func (p *Path) lookBack(k int) (*Leg, bool) {
	i := len(p.links) - k
	if k < 1 || i < 0 {
		return nil, false
	}
	return &p.links[i].Leg, true
}

// reconcileForward handles appends that move forward in real time.
func (p *Path) reconcileForward(stopID int, leg *Leg, sched DepartureLookup) bool {
	out := p.outbound
	prev, _ := p.lookBack(1)

	// Leave the origin as late as possible: the access walk ends exactly
	// when the first trip departs, so no wait is charged to access.
	if prev.Mode == ModeAccess && leg.Mode == ModeTrip {
		boardStop, boardSeq := stopID, leg.Seq
		if !out {
			boardStop, boardSeq = leg.SuccPredStop, leg.SuccPredSeq
		}
		dep, ok := sched.ScheduledDeparture(leg.TripID, boardStop, boardSeq)
		if !ok {
			return false
		}
		prev.SetArrive(out, dep)
		prev.SetDepart(out, dep-prev.Duration)
		leg.Duration = leg.Arrive(out) - leg.Depart(out)
		return true
	}

	switch leg.Mode {
	case ModeTrip:
		// Link time runs from the previous arrival, so it includes the wait.
		prevArrive := prev.Arrive(out)
		leg.Duration = leg.Arrive(out) - prevArrive
		if leg.Duration < 0 || leg.Depart(out) < prevArrive {
			return false
		}
	case ModeTransfer, ModeEgress:
		// Start walking immediately.
		leg.SetDepart(out, prev.Arrive(out))
		leg.SetArrive(out, leg.Depart(out)+leg.Duration)
	case ModeAccess:
		// Access only ever starts a chronological path.
	default:
		panic(unknownMode(leg.Mode))
	}
	return true
}

// reconcileReverse handles appends that move backward in real time:
// egress, trip, [transfer, trip]*, access.
func (p *Path) reconcileReverse(leg *Leg, sched DepartureLookup) bool {
	out := p.outbound
	prev, _ := p.lookBack(1)
	feasible := true

	switch leg.Mode {
	case ModeAccess:
		// Arrive at the boarding stop exactly when the first trip departs.
		boardStop, boardSeq := leg.SuccPredStop, prev.Seq
		if !out {
			boardStop, boardSeq = prev.SuccPredStop, prev.SuccPredSeq
		}
		dep, ok := sched.ScheduledDeparture(prev.TripID, boardStop, boardSeq)
		if !ok {
			return false
		}
		leg.SetArrive(out, dep)
		leg.SetDepart(out, dep-leg.Duration)
		// No wait for the first trip.
		prev.Duration = prev.Arrive(out) - prev.Depart(out)

	case ModeTrip:
		// Assume no wait until the transfer into the next trip is known.
		leg.Duration = leg.Arrive(out) - leg.Depart(out)
		if prev.Mode != ModeTransfer {
			break
		}
		// The transfer now starts as soon as this trip arrives, and the time
		// between its end and the next trip's departure is that trip's wait.
		prev.SetDepart(out, leg.Arrive(out))
		prev.SetArrive(out, leg.Arrive(out)+prev.Duration)

		next, ok := p.lookBack(2)
		if !ok {
			return false
		}
		if next.Depart(out) < prev.Arrive(out) {
			feasible = false
		}
		next.Duration = next.Arrive(out) - prev.Arrive(out)
		if next.Duration < 0 {
			feasible = false
		}

	case ModeTransfer:
		// Transfer as late as possible to keep options open for earlier trips.
		leg.SetArrive(out, prev.Depart(out))
		leg.SetDepart(out, leg.Arrive(out)-leg.Duration)

	case ModeEgress:
		// Egress only ever starts a reverse path.
	default:
		panic(unknownMode(leg.Mode))
	}

	// Get to the destination as early as possible.
	if prev.Mode == ModeEgress {
		prev.SetDepart(out, leg.Arrive(out))
		prev.SetArrive(out, prev.Depart(out)+prev.Duration)
	}
	return feasible
}
