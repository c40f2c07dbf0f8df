package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"transit-pathset-service/internal/domain"
)

// ErrEmptyPathSet is returned when no path in a set has any probability.
var ErrEmptyPathSet = errors.New("path set has no usable paths")

// probabilityScale integerizes probabilities for cumulative draws.
const probabilityScale = 1_000_000

// Parameters of the logit path choice model.
type ChoiceParams struct {
	// Dispersion scales costs in the logit: larger values concentrate
	// probability on the cheapest paths.
	Dispersion float64
	// MaxPaths caps the set once paths become improbable. Zero disables it.
	MaxPaths       int
	MinProbability float64
}

// One distinct path in a PathSet.
type PathSetEntry struct {
	Path *domain.Path
	// Count is how many times the search produced this path.
	Count       int
	Probability float64
	// CumulativeProbability is the running integerized probability through
	// this entry, in rank order.
	CumulativeProbability int
}

// PathSet ranks the distinct alternatives found for one request, cheapest
// first. Paths that compare equal are duplicates and only counted. A PathSet
// is confined to one worker.
type PathSet struct {
	entries []*PathSetEntry
}

func NewPathSet() *PathSet { return &PathSet{} }

// Add inserts a finalized path, or counts it again if an equal path is
// already present. It reports whether p was new.
func (s *PathSet) Add(p *domain.Path) bool {
	i, found := slices.BinarySearchFunc(s.entries, p, func(e *PathSetEntry, p *domain.Path) int {
		return domain.Compare(e.Path, p)
	})
	if found {
		s.entries[i].Count++
		return false
	}
	s.entries = slices.Insert(s.entries, i, &PathSetEntry{Path: p, Count: 1})
	return true
}

func (s *PathSet) Len() int { return len(s.entries) }

// Entries returns the entries in rank order.
func (s *PathSet) Entries() []PathSetEntry {
	out := make([]PathSetEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

// ComputeProbabilities assigns logit choice probabilities over the distinct
// paths. Costs are taken relative to the cheapest path, so only cost
// differences matter. Once more than MaxPaths paths have been seen, the first
// path below MinProbability and everything ranked after it are dropped. It
// returns the number of paths dropped.
func (s *PathSet) ComputeProbabilities(params ChoiceParams, exporter *Exporter, tr *Trace) (int, error) {
	if len(s.entries) == 0 {
		return 0, fmt.Errorf("compute probabilities: %w", ErrEmptyPathSet)
	}
	minCost := math.Inf(1)
	for _, e := range s.entries {
		c := e.Path.Cost()
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return 0, fmt.Errorf("compute probabilities: cost %g: %w", c, ErrEmptyPathSet)
		}
		minCost = min(minCost, c)
	}

	// The cheapest path contributes exp(0), so logsum >= 1.
	var logsum float64
	for _, e := range s.entries {
		logsum += math.Exp(-params.Dispersion * (e.Path.Cost() - minCost))
	}

	cum := 0
	trunc := -1
	for i, e := range s.entries {
		e.Probability = math.Exp(-params.Dispersion*(e.Path.Cost()-minCost)) / logsum
		if trunc < 0 && e.Probability < params.MinProbability && params.MaxPaths > 0 && i+1 > params.MaxPaths {
			trunc = i
		}
		cum += int(probabilityScale * e.Probability)
		e.CumulativeProbability = cum

		if tr.Enabled() {
			compact := ""
			if exporter != nil {
				compact = exporter.Compact(e.Path)
			}
			tr.Printf("-> probability %8.6f; prob_i %8d; count %4d; cost %8.4f   %s",
				e.Probability, e.CumulativeProbability, e.Count, e.Path.Cost(), compact)
		}
	}
	if cum == 0 {
		_ = tr.Flush()
		return 0, fmt.Errorf("compute probabilities: %w", ErrEmptyPathSet)
	}

	dropped := 0
	if trunc >= 0 {
		dropped = len(s.entries) - trunc
		s.entries = s.entries[:trunc]
		tr.Printf("truncating %d improbable paths", dropped)
	}
	_ = tr.Flush()
	return dropped, nil
}

// Choose draws one path by its cumulative probability. The draw is seeded
// with the path id, so the same request always makes the same choice.
func (s *PathSet) Choose(pathID int) (*domain.Path, error) {
	if len(s.entries) == 0 {
		return nil, fmt.Errorf("choose path %d: %w", pathID, ErrEmptyPathSet)
	}
	maxProb := s.entries[len(s.entries)-1].CumulativeProbability
	if maxProb <= 0 {
		return nil, fmt.Errorf("choose path %d: probabilities not computed: %w", pathID, ErrEmptyPathSet)
	}

	rng := rand.New(rand.NewPCG(uint64(pathID), 0))
	draw := rng.IntN(maxProb)
	for _, e := range s.entries {
		if e.CumulativeProbability == 0 {
			continue
		}
		if draw <= e.CumulativeProbability {
			return e.Path, nil
		}
	}
	return nil, fmt.Errorf("choose path %d: draw %d past cumulative %d", pathID, draw, maxProb)
}
