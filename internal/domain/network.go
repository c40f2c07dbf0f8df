package domain

// The rows of the transit network as stored. NetworkData is loaded once per
// assignment and read concurrently afterwards; nothing mutates it.
type NetworkData struct {
	Stops              []Stop
	SupplyModes        []SupplyMode
	Trips              []Trip
	StopTimes          []StopTime
	AccessLinks        []AccessLink
	Transfers          []Transfer
	Weights            []Weight
	TransferSupplyMode int
}

type Stop struct {
	StopID int
	Label  string
}

type SupplyMode struct {
	SupplyMode int
	Label      string
}

type Trip struct {
	TripID     int
	Label      string
	SupplyMode int
	Attributes Attributes
}

// A scheduled call of a trip at a stop. Times are minutes after midnight.
type StopTime struct {
	TripID int
	Seq    int
	StopID int
	Arrive float64
	Depart float64
	// Overcap is how far the vehicle exceeds capacity leaving this stop.
	// Negative means no overcap was observed.
	Overcap float64
}

// An access or egress link between a zone and a stop.
type AccessLink struct {
	TAZID      int
	SupplyMode int
	StopID     int
	Attributes Attributes
}

// A walk transfer between two stops.
type Transfer struct {
	FromStop   int
	ToStop     int
	Attributes Attributes
}

// One utility coefficient.
type Weight struct {
	Key   WeightKey
	Name  string
	Value float64
}
