package services

import (
	"fmt"
	"io"
	"strings"
	"transit-pathset-service/internal/domain"
	"transit-pathset-service/internal/ports"
)

// NoPath is the compact export of an empty path.
const NoPath = "no_path"

// Renders paths for people and for downstream consumers.
type Exporter struct {
	labels ports.Labeler
	format LegFormatter
}

func NewExporter(labels ports.Labeler, network ports.NetworkProvider) *Exporter {
	return &Exporter{labels: labels, format: LegFormatter{Labels: labels, Network: network}}
}

// Print writes a header line and one row per leg in stored order.
func (e *Exporter) Print(w io.Writer, p *domain.Path) error {
	if _, err := fmt.Fprintln(w, e.format.Header(p.Outbound())); err != nil {
		return fmt.Errorf("print path: %w", err)
	}
	for i := 0; i < p.Len(); i++ {
		l := p.At(i)
		if _, err := fmt.Fprintln(w, e.format.Row(l.StopID, l.Leg, p.Outbound())); err != nil {
			return fmt.Errorf("print path: leg %d: %w", i, err)
		}
	}
	return nil
}

// Trace prints p to tr as one line group.
func (e *Exporter) Trace(tr *Trace, title string, p *domain.Path) {
	if !tr.Enabled() {
		return
	}
	tr.Printf("--------------- %s ---- (cost %g)", title, p.Cost())
	tr.Printf("%s", e.format.Header(p.Outbound()))
	for i := 0; i < p.Len(); i++ {
		l := p.At(i)
		tr.Printf("%s", e.format.Row(l.StopID, l.Leg, p.Outbound()))
	}
	tr.Printf("--------------------------------")
	_ = tr.Flush()
}

// Compact renders the trips of p in travel order as
// "<board stops> <trips> <alight stops>", each field comma-joined. Paths
// assembled in either direction export the same way.
func (e *Exporter) Compact(p *domain.Path) string {
	if p.Empty() {
		return NoPath
	}

	var board, trips, alight []string
	out := p.Outbound()
	for _, i := range p.ChronologicalIndices() {
		l := p.At(i)
		if !l.Leg.IsTrip() {
			continue
		}
		from, to := l.StopID, l.Leg.SuccPredStop
		if !out {
			from, to = to, from
		}
		board = append(board, e.labels.StopLabel(from))
		trips = append(trips, e.labels.TripLabel(l.Leg.TripID))
		alight = append(alight, e.labels.StopLabel(to))
	}

	return strings.Join(board, ",") + " " + strings.Join(trips, ",") + " " + strings.Join(alight, ",")
}

// ModeLabel names the mode of leg as the printed rows do.
func (e *Exporter) ModeLabel(leg domain.Leg) string { return e.format.ModeLabel(leg) }
