package domain

// Represents a single origin/destination/time path request and the traveler
// segment it is evaluated for.
//
// Outbound requests are anchored on the departure side: the traveler gives a
// desired departure and the path runs stop-sequence-forward. Inbound requests
// are anchored on the arrival side.
type PathSpec struct {
	PathID    int
	Iteration int
	Outbound  bool
	Trace     bool

	OriginTAZ      int
	DestinationTAZ int
	// PreferredTime is in minutes after midnight.
	PreferredTime float64

	UserClass   string
	Purpose     string
	AccessMode  string
	EgressMode  string
	TransitMode string
}
