package services

import (
	"io"
	"log/slog"
	"strconv"
	"testing"
	"transit-pathset-service/internal/adapters/costmodel"
	"transit-pathset-service/internal/adapters/network"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/ports"

	"github.com/stretchr/testify/require"
)

const (
	tripA = 11
	tripB = 12
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func contextFrom(t *testing.T, data *domain.NetworkData) ports.PathContext {
	t.Helper()
	store, err := network.NewStore(data)
	require.NoError(t, err)
	model, err := costmodel.NewLinear(data.Weights, quietLogger)
	require.NoError(t, err)
	return JoinPathContext(store, store, model)
}

func sampleContext(t *testing.T) ports.PathContext {
	return contextFrom(t, network.SampleData())
}

func sampleSpec(outbound bool) domain.PathSpec {
	return domain.PathSpec{
		PathID:         7,
		Outbound:       outbound,
		OriginTAZ:      100,
		DestinationTAZ: 200,
		PreferredTime:  110,
		UserClass:      "all",
		Purpose:        "work",
		AccessMode:     "walk",
		EgressMode:     "walk",
		TransitMode:    "transit",
	}
}

// Outbound legs of the sample itinerary in travel order: zone 100 walks to
// stop 1, trip A to stop 5, walk to stop 6, trip B to stop 9, walk to zone 200.
func outboundLinks() []domain.Link {
	const out = true
	access := domain.NewLeg(domain.ModeAccess, out, 30, 37)
	access.SupplyMode, access.SuccPredStop, access.Duration = network.SampleWalk, 1, 7

	a := domain.NewLeg(domain.ModeTrip, out, 60, 80)
	a.TripID, a.Seq, a.SuccPredStop, a.SuccPredSeq, a.Duration = tripA, 1, 5, 4, 23

	xfer := domain.NewLeg(domain.ModeTransfer, out, 80, 85)
	xfer.SuccPredStop, xfer.Duration = 6, 5

	b := domain.NewLeg(domain.ModeTrip, out, 90, 100)
	b.TripID, b.Seq, b.SuccPredStop, b.SuccPredSeq, b.Duration = tripB, 2, 9, 5, 10

	egress := domain.NewLeg(domain.ModeEgress, out, 100, 104)
	egress.SupplyMode, egress.SuccPredStop, egress.Duration = network.SampleWalk, 200, 4

	return []domain.Link{
		{StopID: 100, Leg: access},
		{StopID: 1, Leg: a},
		{StopID: 5, Leg: xfer},
		{StopID: 6, Leg: b},
		{StopID: 9, Leg: egress},
	}
}

// The same itinerary for an inbound request: links are keyed by their
// downstream end and point back upstream.
func inboundLinks() []domain.Link {
	const out = false
	access := domain.NewLeg(domain.ModeAccess, out, 30, 37)
	access.SupplyMode, access.SuccPredStop, access.Duration = network.SampleWalk, 100, 7

	a := domain.NewLeg(domain.ModeTrip, out, 60, 80)
	a.TripID, a.Seq, a.SuccPredStop, a.SuccPredSeq = tripA, 4, 1, 1

	xfer := domain.NewLeg(domain.ModeTransfer, out, 80, 85)
	xfer.SuccPredStop, xfer.Duration = 5, 5

	b := domain.NewLeg(domain.ModeTrip, out, 90, 100)
	b.TripID, b.Seq, b.SuccPredStop, b.SuccPredSeq = tripB, 5, 6, 2

	egress := domain.NewLeg(domain.ModeEgress, out, 100, 104)
	egress.SupplyMode, egress.SuccPredStop, egress.Duration = network.SampleWalk, 9, 4

	return []domain.Link{
		{StopID: 1, Leg: access},
		{StopID: 5, Leg: a},
		{StopID: 6, Leg: xfer},
		{StopID: 9, Leg: b},
		{StopID: 200, Leg: egress},
	}
}

func reversedLinks(links []domain.Link) []domain.Link {
	out := make([]domain.Link, len(links))
	for i, l := range links {
		out[len(links)-1-i] = l
	}
	return out
}

func buildPath(t *testing.T, pc ports.PathContext, outbound bool, phase domain.BuildPhase, links []domain.Link) *domain.Path {
	t.Helper()
	p := domain.NewPath(outbound, phase)
	for i, l := range links {
		require.Truef(t, p.Append(l.StopID, l.Leg, pc), "append %d (%s) infeasible", i, l.Leg.Mode)
	}
	return p
}

// numericLabels shows stops by id and trips 11 and 12 as A and B.
type numericLabels struct{}

func (numericLabels) StopLabel(id int) string { return strconv.Itoa(id) }
func (numericLabels) ModeLabel(id int) string { return strconv.Itoa(id) }
func (numericLabels) TripLabel(id int) string {
	switch id {
	case tripA:
		return "A"
	case tripB:
		return "B"
	}
	return strconv.Itoa(id)
}
