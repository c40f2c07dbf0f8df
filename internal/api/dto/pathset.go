package dto

// Times are minutes after midnight.

type LegRequest struct {
	StopID       int     `json:"stop_id"`
	Mode         string  `json:"mode"`
	TripID       int     `json:"trip_id,omitempty"`
	SupplyMode   int     `json:"supply_mode,omitempty"`
	Seq          int     `json:"seq,omitempty"`
	SuccPredStop int     `json:"succ_pred_stop"`
	SuccPredSeq  int     `json:"succ_pred_seq,omitempty"`
	Depart       float64 `json:"depart"`
	Arrive       float64 `json:"arrive"`
	Duration     float64 `json:"duration"`
	LinkCost     float64 `json:"link_cost"`
}

type PathSetRequest struct {
	PathID         int     `json:"path_id"`
	Iteration      int     `json:"iteration"`
	Outbound       bool    `json:"outbound"`
	Trace          bool    `json:"trace"`
	OriginTAZ      int     `json:"origin_taz"`
	DestinationTAZ int     `json:"destination_taz"`
	PreferredTime  float64 `json:"preferred_time"`
	UserClass      string  `json:"user_class"`
	Purpose        string  `json:"purpose"`
	AccessMode     string  `json:"access_mode"`
	EgressMode     string  `json:"egress_mode"`
	TransitMode    string  `json:"transit_mode"`
	// Phase is "labeling" or "enumerating" (the default).
	Phase string `json:"phase"`
	// Candidates are leg sequences in assembly order.
	Candidates [][]LegRequest `json:"candidates"`
}

type EvaluatePathSetsRequest struct {
	Requests []PathSetRequest `json:"requests"`
}

type LegResponse struct {
	StopID         int     `json:"stop_id"`
	Mode           string  `json:"mode"`
	Label          string  `json:"label"`
	TripID         int     `json:"trip_id,omitempty"`
	SupplyMode     int     `json:"supply_mode,omitempty"`
	Seq            int     `json:"seq,omitempty"`
	SuccPredStop   int     `json:"succ_pred_stop"`
	SuccPredSeq    int     `json:"succ_pred_seq,omitempty"`
	Depart         float64 `json:"depart"`
	Arrive         float64 `json:"arrive"`
	DepartAt       string  `json:"depart_at"`
	ArriveAt       string  `json:"arrive_at"`
	Duration       float64 `json:"duration"`
	LinkCost       float64 `json:"link_cost"`
	CumulativeCost float64 `json:"cumulative_cost"`
}

type PathResponse struct {
	Compact               string        `json:"compact"`
	Cost                  float64       `json:"cost"`
	Count                 int           `json:"count"`
	Probability           float64       `json:"probability"`
	CumulativeProbability int           `json:"cumulative_probability"`
	Legs                  []LegResponse `json:"legs"`
}

type PathSetResponse struct {
	PathID    int            `json:"path_id"`
	Chosen    string         `json:"chosen"`
	Rejected  int            `json:"rejected"`
	Truncated int            `json:"truncated"`
	Paths     []PathResponse `json:"paths"`
	Trace     string         `json:"trace,omitempty"`
}

type EvaluatePathSetsResponse struct {
	PathSets []PathSetResponse `json:"path_sets"`
}
