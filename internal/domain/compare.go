package domain

import "cmp"

// Compare orders paths for ranking within a path set: lower cost first, then
// fewer legs, then the first differing (stop, mode, trip) in stored order.
// It returns 0 only for paths that are duplicates of one another.
func Compare(a, b *Path) int {
	if c := cmp.Compare(a.cost, b.cost); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.links), len(b.links)); c != 0 {
		return c
	}
	for i := range a.links {
		la, lb := a.links[i], b.links[i]
		if c := cmp.Compare(la.StopID, lb.StopID); c != 0 {
			return c
		}
		if c := cmp.Compare(la.Leg.Mode, lb.Leg.Mode); c != 0 {
			return c
		}
		if c := cmp.Compare(la.Leg.ident(), lb.Leg.ident()); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether p ranks before q.
func (p *Path) Less(q *Path) bool { return Compare(p, q) < 0 }
