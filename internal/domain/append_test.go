package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tripStop struct{ trip, stop, seq int }

type fakeSchedule map[tripStop]float64

func (s fakeSchedule) ScheduledDeparture(tripID, stopID, seq int) (float64, bool) {
	dep, ok := s[tripStop{tripID, stopID, seq}]
	return dep, ok
}

const (
	tripA     = 11
	tripB     = 12
	originTAZ = 100
	destTAZ   = 200
	walk      = 1
)

var schedule = fakeSchedule{
	{tripA, 1, 1}: 60,
	{tripB, 6, 2}: 90,
}

// Outbound itinerary origin -> stop 1 -(A)-> stop 5 -walk-> stop 6 -(B)-> stop 9 -> destination,
// in travel order. Times are the rough values the search proposed.
func outboundCandidates() []Link {
	const out = true
	access := NewLeg(ModeAccess, out, 40, 47)
	access.SupplyMode, access.SuccPredStop, access.Duration, access.LinkCost = walk, 1, 7, 1.5

	a := NewLeg(ModeTrip, out, 60, 80)
	a.TripID, a.Seq, a.SuccPredStop, a.SuccPredSeq, a.Duration, a.LinkCost = tripA, 1, 5, 4, 30, 10

	xfer := NewLeg(ModeTransfer, out, 80, 85)
	xfer.SuccPredStop, xfer.Duration, xfer.LinkCost = 6, 5, 2

	b := NewLeg(ModeTrip, out, 90, 100)
	b.TripID, b.Seq, b.SuccPredStop, b.SuccPredSeq, b.Duration, b.LinkCost = tripB, 2, 9, 5, 12, 6

	egress := NewLeg(ModeEgress, out, 104, 108)
	egress.SupplyMode, egress.SuccPredStop, egress.Duration, egress.LinkCost = walk, destTAZ, 4, 1

	return []Link{
		{StopID: originTAZ, Leg: access},
		{StopID: 1, Leg: a},
		{StopID: 5, Leg: xfer},
		{StopID: 6, Leg: b},
		{StopID: 9, Leg: egress},
	}
}

func build(t *testing.T, p *Path, links []Link) {
	t.Helper()
	for i, l := range links {
		require.Truef(t, p.Append(l.StopID, l.Leg, schedule), "append %d (%s) infeasible", i, l.Leg.Mode)
	}
}

func reversed(links []Link) []Link {
	out := make([]Link, len(links))
	for i, l := range links {
		out[len(links)-1-i] = l
	}
	return out
}

func TestAppendEmptyPathAcceptsLeg(t *testing.T) {
	p := NewPath(true, PhaseEnumerating)
	leg := NewLeg(ModeAccess, true, 10, 20)
	leg.LinkCost = 3.5
	leg.AltContinuation = NewPath(true, PhaseLabeling)

	require.True(t, p.Append(originTAZ, leg, schedule))
	require.Equal(t, 1, p.Len())

	got := p.Back()
	assert.Equal(t, originTAZ, got.StopID)
	assert.Nil(t, got.Leg.AltContinuation)
	assert.Equal(t, 3.5, got.Leg.CumulativeCost)
	assert.Equal(t, 3.5, p.Cost())
	assert.Equal(t, 10.0, got.Leg.Depart(true))
	assert.Equal(t, 20.0, got.Leg.Arrive(true))
	assert.Equal(t, CostProvisional, got.Leg.CostState())
}

func TestAppendForwardResolvesTiming(t *testing.T) {
	p := NewPath(true, PhaseEnumerating)
	require.True(t, p.Chronological())
	build(t, p, outboundCandidates())

	access := p.At(0).Leg
	assert.Equal(t, 53.0, access.Depart(true), "access leaves just in time")
	assert.Equal(t, 60.0, access.Arrive(true), "access arrives at scheduled departure")

	a := p.At(1).Leg
	assert.Equal(t, 20.0, a.Duration, "first trip carries no wait")

	xfer := p.At(2).Leg
	assert.Equal(t, 80.0, xfer.Depart(true))
	assert.Equal(t, 85.0, xfer.Arrive(true))

	b := p.At(3).Leg
	assert.Equal(t, 15.0, b.Duration, "second trip includes 5 minutes wait")

	egress := p.At(4).Leg
	assert.Equal(t, 100.0, egress.Depart(true))
	assert.Equal(t, 104.0, egress.Arrive(true))

	assert.InDelta(t, 20.5, p.Cost(), 1e-9)
	assert.InDelta(t, 20.5, egress.CumulativeCost, 1e-9)
	assert.InDelta(t, 11.5, a.CumulativeCost, 1e-9)
}

func TestAppendForwardRejectsTripBeforePreviousArrival(t *testing.T) {
	p := NewPath(true, PhaseEnumerating)
	links := outboundCandidates()
	build(t, p, links[:3])
	before := p.Cost()
	xfer := p.Back().Leg

	late := links[3].Leg
	late.SetDepart(true, 84) // transfer only arrives at 85
	assert.False(t, p.Append(links[3].StopID, late, schedule))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, before, p.Cost())
	assert.Equal(t, xfer, p.Back().Leg, "previous leg untouched")

	neg := links[3].Leg
	neg.SetDepart(true, 70)
	neg.SetArrive(true, 75) // arrives before the transfer ends
	assert.False(t, p.Append(links[3].StopID, neg, schedule))
	assert.Equal(t, 3, p.Len())
}

func TestAppendForwardAccessNeedsScheduledDeparture(t *testing.T) {
	p := NewPath(true, PhaseEnumerating)
	links := outboundCandidates()
	build(t, p, links[:1])

	unknown := links[1].Leg
	unknown.TripID = 99
	assert.False(t, p.Append(links[1].StopID, unknown, schedule))
	assert.Equal(t, 1, p.Len())
}

func TestAppendReverseRedistributesWait(t *testing.T) {
	p := NewPath(true, PhaseLabeling)
	require.False(t, p.Chronological())
	links := reversed(outboundCandidates())

	build(t, p, links[:2]) // egress, trip B
	egress := p.At(0).Leg
	assert.Equal(t, 100.0, egress.Depart(true), "egress pinned to trip B arrival")
	assert.Equal(t, 104.0, egress.Arrive(true))
	assert.Equal(t, 10.0, p.At(1).Leg.Duration, "no wait assumed yet")

	build(t, p, links[2:3]) // transfer
	xfer := p.At(2).Leg
	assert.Equal(t, 90.0, xfer.Arrive(true), "transfer arrives for trip B")
	assert.Equal(t, 85.0, xfer.Depart(true))

	build(t, p, links[3:4]) // trip A arrives at 80
	xfer = p.At(2).Leg
	assert.Equal(t, 80.0, xfer.Depart(true), "transfer starts when trip A arrives")
	assert.Equal(t, 85.0, xfer.Arrive(true))
	assert.Equal(t, 15.0, p.At(1).Leg.Duration, "wait moved onto trip B")
	assert.Equal(t, 20.0, p.At(3).Leg.Duration)

	build(t, p, links[4:]) // access
	access := p.At(4).Leg
	assert.Equal(t, 60.0, access.Arrive(true))
	assert.Equal(t, 53.0, access.Depart(true))
	assert.Equal(t, 20.0, p.At(3).Leg.Duration)
}

func TestAppendReverseRejectsMissedConnection(t *testing.T) {
	p := NewPath(true, PhaseLabeling)
	links := reversed(outboundCandidates())
	build(t, p, links[:3])
	before := p.Cost()

	a := links[3].Leg
	a.SetDepart(true, 67)
	a.SetArrive(true, 87) // transfer would reach stop 6 at 92, trip B leaves at 90
	assert.False(t, p.Append(links[3].StopID, a, schedule))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, before, p.Cost())

	// the look-back adjustments stay in place
	xfer := p.At(2).Leg
	assert.Equal(t, 87.0, xfer.Depart(true))
	assert.Equal(t, 92.0, xfer.Arrive(true))
}

func TestAppendReverseRejectsNegativeWait(t *testing.T) {
	p := NewPath(true, PhaseLabeling)
	links := reversed(outboundCandidates())
	build(t, p, links[:3])

	a := links[3].Leg
	a.SetDepart(true, 85)
	a.SetArrive(true, 97) // transfer ends at 102, after trip B arrives
	assert.False(t, p.Append(links[3].StopID, a, schedule))
	assert.Equal(t, -2.0, p.At(1).Leg.Duration)
}

func TestAppendDirectionSymmetry(t *testing.T) {
	forward := NewPath(true, PhaseEnumerating)
	build(t, forward, outboundCandidates())

	reverse := NewPath(true, PhaseLabeling)
	build(t, reverse, reversed(outboundCandidates()))

	require.Equal(t, forward.Len(), reverse.Len())
	n := forward.Len()
	for i := 0; i < n; i++ {
		f := forward.At(i).Leg
		r := reverse.At(n - 1 - i).Leg
		assert.InDeltaf(t, f.Depart(true), r.Depart(true), 1e-9, "leg %d depart", i)
		assert.InDeltaf(t, f.Arrive(true), r.Arrive(true), 1e-9, "leg %d arrive", i)
		assert.InDeltaf(t, f.Duration, r.Duration, 1e-9, "leg %d duration", i)
	}
	assert.InDelta(t, forward.Cost(), reverse.Cost(), 1e-9)
}

func TestAppendInboundLabelingIsChronological(t *testing.T) {
	const out = false
	p := NewPath(out, PhaseLabeling)
	require.True(t, p.Chronological())

	// Inbound links are keyed by the downstream stop; SuccPred is the upstream one.
	access := NewLeg(ModeAccess, out, 40, 47)
	access.SupplyMode, access.SuccPredStop, access.Duration = walk, originTAZ, 7

	a := NewLeg(ModeTrip, out, 60, 80)
	a.TripID, a.Seq, a.SuccPredStop, a.SuccPredSeq = tripA, 4, 1, 1

	require.True(t, p.Append(1, access, schedule))
	require.True(t, p.Append(5, a, schedule))

	got := p.At(0).Leg
	assert.Equal(t, 60.0, got.Arrive(out))
	assert.Equal(t, 53.0, got.Depart(out))
	assert.Equal(t, 20.0, p.At(1).Leg.Duration)
	assert.Equal(t, 20.0, p.At(1).Leg.InVehicleTime(out))
}

func TestAppendPanicsOnUnknownMode(t *testing.T) {
	p := NewPath(true, PhaseEnumerating)
	build(t, p, outboundCandidates()[:2])
	assert.Panics(t, func() {
		p.Append(5, Leg{Mode: Mode(42)}, schedule)
	})
}

func TestBackOnEmptyPathPanics(t *testing.T) {
	p := NewPath(false, PhaseEnumerating)
	assert.Panics(t, func() { p.Back() })
	assert.Panics(t, func() { p.At(0) })
}

func TestRescoreWalksChronologically(t *testing.T) {
	p := NewPath(true, PhaseLabeling)
	build(t, p, reversed(outboundCandidates()))

	var order []Mode
	err := p.Rescore(func(_ int, leg Leg) (float64, error) {
		order = append(order, leg.Mode)
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Mode{ModeAccess, ModeTrip, ModeTransfer, ModeTrip, ModeEgress}, order)

	// cumulative cost follows travel order, not assembly order
	assert.Equal(t, 1.0, p.At(4).Leg.CumulativeCost)
	assert.Equal(t, 5.0, p.At(0).Leg.CumulativeCost)
	assert.Equal(t, 5.0, p.Cost())
	assert.True(t, p.Finalized())
	assert.Equal(t, CostFinal, p.At(2).Leg.CostState())
}
