package services

import (
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/ports"
)

// Assembler grows paths leg by leg through the reconciler, tracing each
// step. It is stateless and shared by workers.
type Assembler struct {
	network  ports.NetworkProvider
	exporter *Exporter
	format   LegFormatter
	metrics  Metrics
}

func NewAssembler(pc ports.PathContext, exporter *Exporter, metrics Metrics) *Assembler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Assembler{
		network:  pc,
		exporter: exporter,
		format:   LegFormatter{Labels: pc, Network: pc},
		metrics:  metrics,
	}
}

// AddLeg appends leg to p. On false the path must be discarded.
func (a *Assembler) AddLeg(p *domain.Path, stopID int, leg domain.Leg, tr *Trace) bool {
	out := p.Outbound()
	if tr.Enabled() && !p.Empty() {
		dir, chrono := "inbound", "not chrono"
		if out {
			dir = "outbound"
		}
		if p.Chronological() {
			chrono = "chrono"
		}
		tr.Printf("%s, %s, %s, size %d, prev mode %s",
			dir, p.Phase(), chrono, p.Len(), a.format.ModeLabel(p.Back().Leg))
		tr.Printf("path_req %s", a.format.Row(stopID, leg, out))
		_ = tr.Flush()
		a.exporter.Trace(tr, "path_before", p)
	}

	feasible := p.Append(stopID, leg, a.network)
	a.metrics.LegAppended(feasible)

	if tr.Enabled() {
		if feasible {
			tr.Printf("path_add %s", a.format.Row(stopID, p.Back().Leg, out))
		} else {
			tr.Printf("path_rej %s", a.format.Row(stopID, leg, out))
		}
		_ = tr.Flush()
		if p.Len() > 1 {
			title := "path so far (feasible)"
			if !feasible {
				title = "path so far (infeasible)"
			}
			a.exporter.Trace(tr, title, p)
		}
	}
	return feasible
}

// Build assembles links, given in assembly order, into a new path. It
// returns false as soon as a leg is infeasible, or for an empty sequence.
func (a *Assembler) Build(outbound bool, phase domain.BuildPhase, links []domain.Link, tr *Trace) (*domain.Path, bool) {
	if len(links) == 0 {
		return nil, false
	}
	p := domain.NewPath(outbound, phase)
	for _, l := range links {
		if !a.AddLeg(p, l.StopID, l.Leg, tr) {
			return p, false
		}
	}
	return p, true
}
