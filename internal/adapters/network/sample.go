package network

import "transit-pathset-service/internal/domain"

// Supply modes of the sample network.
const (
	SampleTransferMode = 0
	SampleWalk         = 1
	SampleLocalBus     = 10
	SampleExpressBus   = 11
)

// SampleData returns a small network with two bus trips joined by a walk
// transfer: zone 100 walks to stop 1, trip 11 ("A") runs 1 to 5, a transfer
// walks 5 to 6, trip 12 ("B") runs 6 to 9, and zone 200 is reached from 9.
// It backs the demo seed file and tests.
func SampleData() *domain.NetworkData {
	walkWeights := func(mode domain.Mode) []domain.Weight {
		key := domain.WeightKey{UserClass: "all", Purpose: "work", ModeType: mode, DemandMode: "walk", SupplyMode: SampleWalk}
		return []domain.Weight{
			{Key: key, Name: domain.AttrWalkTime, Value: 2},
			{Key: key, Name: domain.AttrPreferredDelay, Value: 1},
		}
	}
	tripWeights := func(supplyMode int) []domain.Weight {
		key := domain.WeightKey{UserClass: "all", Purpose: "work", ModeType: domain.ModeTrip, DemandMode: "transit", SupplyMode: supplyMode}
		return []domain.Weight{
			{Key: key, Name: domain.AttrInVehicleTime, Value: 1},
			{Key: key, Name: domain.AttrWaitTime, Value: 1.5},
			{Key: key, Name: domain.AttrOvercap, Value: 0.5},
			{Key: key, Name: domain.AttrAtCapacity, Value: 10},
			{Key: key, Name: "fare", Value: 0.3},
		}
	}
	xferKey := domain.WeightKey{UserClass: "all", Purpose: "work", ModeType: domain.ModeTransfer, DemandMode: "transfer", SupplyMode: SampleTransferMode}

	weights := walkWeights(domain.ModeAccess)
	weights = append(weights, walkWeights(domain.ModeEgress)...)
	weights = append(weights, tripWeights(SampleLocalBus)...)
	weights = append(weights, tripWeights(SampleExpressBus)...)
	weights = append(weights,
		domain.Weight{Key: xferKey, Name: domain.AttrWalkTime, Value: 2},
		domain.Weight{Key: xferKey, Name: domain.AttrTransferPen, Value: 5},
		domain.Weight{Key: xferKey, Name: domain.AttrElevationGain, Value: 0.1},
	)

	return &domain.NetworkData{
		Stops: []domain.Stop{
			{StopID: 1, Label: "MAIN"},
			{StopID: 2, Label: "DEPOT"},
			{StopID: 3, Label: "LIBRARY"},
			{StopID: 4, Label: "MARKET"},
			{StopID: 5, Label: "CENTRAL"},
			{StopID: 6, Label: "CENTRAL_E"},
			{StopID: 7, Label: "STADIUM"},
			{StopID: 8, Label: "DOCKS"},
			{StopID: 9, Label: "HARBOR"},
		},
		SupplyModes: []domain.SupplyMode{
			{SupplyMode: SampleTransferMode, Label: "transfer"},
			{SupplyMode: SampleWalk, Label: "walk"},
			{SupplyMode: SampleLocalBus, Label: "local_bus"},
			{SupplyMode: SampleExpressBus, Label: "express_bus"},
		},
		Trips: []domain.Trip{
			{TripID: 11, Label: "A", SupplyMode: SampleLocalBus, Attributes: domain.Attributes{"fare": 2}},
			{TripID: 12, Label: "B", SupplyMode: SampleExpressBus, Attributes: domain.Attributes{"fare": 2}},
		},
		StopTimes: []domain.StopTime{
			{TripID: 11, Seq: 1, StopID: 1, Arrive: 60, Depart: 60, Overcap: -3},
			{TripID: 11, Seq: 2, StopID: 3, Arrive: 69, Depart: 70, Overcap: -1},
			{TripID: 11, Seq: 3, StopID: 4, Arrive: 75, Depart: 75, Overcap: 0},
			{TripID: 11, Seq: 4, StopID: 5, Arrive: 80, Depart: 80, Overcap: -1},
			{TripID: 12, Seq: 1, StopID: 2, Arrive: 84, Depart: 84, Overcap: -1},
			{TripID: 12, Seq: 2, StopID: 6, Arrive: 90, Depart: 90, Overcap: 4.5},
			{TripID: 12, Seq: 3, StopID: 7, Arrive: 94, Depart: 94, Overcap: 2},
			{TripID: 12, Seq: 4, StopID: 8, Arrive: 97, Depart: 97, Overcap: -1},
			{TripID: 12, Seq: 5, StopID: 9, Arrive: 100, Depart: 100, Overcap: -1},
		},
		AccessLinks: []domain.AccessLink{
			{TAZID: 100, SupplyMode: SampleWalk, StopID: 1, Attributes: domain.Attributes{domain.AttrWalkTime: 7}},
			{TAZID: 200, SupplyMode: SampleWalk, StopID: 9, Attributes: domain.Attributes{domain.AttrWalkTime: 4}},
		},
		Transfers: []domain.Transfer{
			{FromStop: 5, ToStop: 6, Attributes: domain.Attributes{
				domain.AttrWalkTime:      5,
				domain.AttrTransferPen:   1,
				domain.AttrElevationGain: 0,
			}},
		},
		Weights:            weights,
		TransferSupplyMode: SampleTransferMode,
	}
}
