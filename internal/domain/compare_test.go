package domain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathOf(legs ...Link) *Path {
	p := NewPath(true, PhaseEnumerating)
	for _, l := range legs {
		p.links = append(p.links, l)
		p.cost += l.Leg.LinkCost
	}
	return p
}

func trip(stop, tripID int, cost float64) Link {
	return Link{StopID: stop, Leg: Leg{Mode: ModeTrip, TripID: tripID, LinkCost: cost}}
}

func access(stop, supply int, cost float64) Link {
	return Link{StopID: stop, Leg: Leg{Mode: ModeAccess, SupplyMode: supply, LinkCost: cost}}
}

func TestCompareOrdersByCostThenLength(t *testing.T) {
	cheap := pathOf(access(1, walk, 1), trip(1, tripA, 1))
	dear := pathOf(access(1, walk, 1), trip(1, tripA, 5))
	assert.Equal(t, -1, Compare(cheap, dear))
	assert.Equal(t, 1, Compare(dear, cheap))

	short := pathOf(access(1, walk, 2))
	long := pathOf(access(1, walk, 1), trip(1, tripA, 1))
	assert.True(t, short.Less(long), "same cost, fewer legs first")
}

func TestCompareBreaksTiesOnLegs(t *testing.T) {
	base := pathOf(access(1, walk, 1), trip(1, tripA, 1))

	tests := []struct {
		name  string
		other *Path
		want  int
	}{
		{"identical", pathOf(access(1, walk, 1), trip(1, tripA, 1)), 0},
		{"later stop", pathOf(access(2, walk, 1), trip(1, tripA, 1)), -1},
		{"later trip", pathOf(access(1, walk, 1), trip(1, tripB, 1)), -1},
		{"earlier trip", pathOf(access(1, walk, 1), trip(1, 3, 1)), 1},
		{"other supply mode", pathOf(access(1, 2, 1), trip(1, tripA, 1)), -1},
		{"mode before id", pathOf(Link{StopID: 1, Leg: Leg{Mode: ModeTransfer, LinkCost: 1}}, trip(1, tripA, 1)), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(base, tt.other))
			assert.Equal(t, -tt.want, Compare(tt.other, base))
		})
	}
}

func TestCompareIsStrictWeakOrder(t *testing.T) {
	paths := []*Path{
		pathOf(access(1, walk, 1), trip(1, tripA, 1)),
		pathOf(access(1, walk, 1), trip(1, tripB, 1)),
		pathOf(access(2, walk, 1), trip(2, tripA, 1)),
		pathOf(access(1, walk, 2)),
		pathOf(access(1, walk, 0.5), trip(1, tripA, 3)),
		pathOf(access(1, walk, 1), trip(1, tripA, 1)),
	}
	for _, a := range paths {
		assert.False(t, a.Less(a), "irreflexive")
		for _, b := range paths {
			if a.Less(b) {
				assert.False(t, b.Less(a), "asymmetric")
			}
			for _, c := range paths {
				if a.Less(b) && b.Less(c) {
					assert.True(t, a.Less(c), "transitive")
				}
			}
		}
	}

	sorted := slices.Clone(paths)
	slices.SortFunc(sorted, Compare)
	require.Len(t, sorted, len(paths))
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, Compare(sorted[i-1], sorted[i]), 0)
	}
}
