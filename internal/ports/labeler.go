package ports

// Contract for turning network ids into the labels shown to people.
type Labeler interface {
	StopLabel(stopID int) string
	TripLabel(tripID int) string
	ModeLabel(supplyMode int) string
}
