package ports

// PathContext is everything path reconciliation, scoring and export need from
// the outside world.
type PathContext interface {
	NetworkProvider
	Labeler
	CostModel
}
