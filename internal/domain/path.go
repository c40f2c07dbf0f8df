package domain

import "fmt"

// Link pairs a Leg with the stop it was proposed at.
type Link struct {
	StopID int
	Leg    Leg
}

// Represents one candidate itinerary: an ordered sequence of legs plus its
// running generalized cost.
//
// Links are kept in construction order, which is not necessarily travel
// order; see Chronological. A Path owns its legs exclusively.
type Path struct {
	outbound bool
	phase    BuildPhase
	links    []Link
	cost     float64

	// CapacityProblem is set by collaborators when a leg is capacity
	// infeasible. It is carried, not interpreted.
	CapacityProblem bool
}

func NewPath(outbound bool, phase BuildPhase) *Path {
	return &Path{outbound: outbound, phase: phase}
}

func (p *Path) Outbound() bool    { return p.outbound }
func (p *Path) Phase() BuildPhase { return p.phase }
func (p *Path) Len() int          { return len(p.links) }
func (p *Path) Cost() float64     { return p.cost }
func (p *Path) Empty() bool       { return len(p.links) == 0 }
func (p *Path) Finalized() bool   { return len(p.links) > 0 && p.links[0].Leg.costState == CostFinal }

// Chronological reports whether appending moves forward in real time.
// It holds for inbound labeling and for outbound enumerating.
func (p *Path) Chronological() bool {
	return (!p.outbound && p.phase == PhaseLabeling) || (p.outbound && p.phase == PhaseEnumerating)
}

// At returns a copy of the n-th link in construction order.
// n must be in range.
func (p *Path) At(n int) Link {
	if n < 0 || n >= len(p.links) {
		panic(fmt.Sprintf("domain: path link index %d out of range [0,%d)", n, len(p.links)))
	}
	return p.links[n]
}

// Back returns a copy of the most recently appended link.
// The path must not be empty.
func (p *Path) Back() Link {
	if len(p.links) == 0 {
		panic("domain: Back called on empty path")
	}
	return p.links[len(p.links)-1]
}

// Reset the path to empty, keeping its direction and phase.
func (p *Path) Clear() {
	p.links = p.links[:0]
	p.cost = 0
	p.CapacityProblem = false
}

// ChronologicalIndices lists link positions in true travel order.
func (p *Path) ChronologicalIndices() []int {
	idx := make([]int, len(p.links))
	for i := range idx {
		if p.Chronological() {
			idx[i] = i
		} else {
			idx[i] = len(p.links) - 1 - i
		}
	}
	return idx
}

// Rescore recomputes every leg's cost in true chronological order using
// costFn, overwriting the provisional values from assembly. The running total
// restarts at zero. On error the path is left partially rescored.
func (p *Path) Rescore(costFn func(stopID int, leg Leg) (float64, error)) error {
	if len(p.links) == 0 {
		return nil
	}
	p.cost = 0
	for _, i := range p.ChronologicalIndices() {
		l := &p.links[i]
		c, err := costFn(l.StopID, l.Leg)
		if err != nil {
			return err
		}
		l.Leg.LinkCost = c
		p.cost += c
		l.Leg.CumulativeCost = p.cost
		l.Leg.costState = CostFinal
	}
	return nil
}
