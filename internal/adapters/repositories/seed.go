package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"transit-pathset-service/internal/domain"
)

type StopSeed struct {
	StopID int    `json:"stop_id"`
	Label  string `json:"label"`
}

type SupplyModeSeed struct {
	SupplyMode int    `json:"supply_mode"`
	Label      string `json:"label"`
}

type TripSeed struct {
	TripID     int                `json:"trip_id"`
	Label      string             `json:"label"`
	SupplyMode int                `json:"supply_mode"`
	Attributes map[string]float64 `json:"attributes"`
}

type StopTimeSeed struct {
	TripID  int      `json:"trip_id"`
	Seq     int      `json:"seq"`
	StopID  int      `json:"stop_id"`
	Arrive  float64  `json:"arrive_min"`
	Depart  float64  `json:"depart_min"`
	Overcap *float64 `json:"overcap"`
}

type AccessLinkSeed struct {
	TAZID      int                `json:"taz_id"`
	SupplyMode int                `json:"supply_mode"`
	StopID     int                `json:"stop_id"`
	Attributes map[string]float64 `json:"attributes"`
}

type TransferSeed struct {
	FromStop   int                `json:"from_stop"`
	ToStop     int                `json:"to_stop"`
	Attributes map[string]float64 `json:"attributes"`
}

type WeightSeed struct {
	UserClass  string  `json:"user_class"`
	Purpose    string  `json:"purpose"`
	ModeType   string  `json:"mode_type"`
	DemandMode string  `json:"demand_mode"`
	SupplyMode int     `json:"supply_mode"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
}

// NetworkSeed is the JSON layout of a network seed file.
type NetworkSeed struct {
	TransferSupplyMode int              `json:"transfer_supply_mode"`
	Stops              []StopSeed       `json:"stops"`
	SupplyModes        []SupplyModeSeed `json:"supply_modes"`
	Trips              []TripSeed       `json:"trips"`
	StopTimes          []StopTimeSeed   `json:"stop_times"`
	AccessLinks        []AccessLinkSeed `json:"access_links"`
	Transfers          []TransferSeed   `json:"transfers"`
	Weights            []WeightSeed     `json:"weights"`
}

// ToNetwork validates the seed and converts it to network rows. A stop time
// without an overcap figure gets -1, i.e. none observed.
func (s NetworkSeed) ToNetwork() (*domain.NetworkData, error) {
	data := &domain.NetworkData{TransferSupplyMode: s.TransferSupplyMode}

	for i, st := range s.Stops {
		if st.StopID <= 0 {
			return nil, fmt.Errorf("invalid stop_id at index %d: %d", i+1, st.StopID)
		}
		data.Stops = append(data.Stops, domain.Stop{StopID: st.StopID, Label: strings.TrimSpace(st.Label)})
	}

	transferDeclared := false
	for _, sm := range s.SupplyModes {
		if sm.SupplyMode == s.TransferSupplyMode {
			transferDeclared = true
		}
		data.SupplyModes = append(data.SupplyModes, domain.SupplyMode{SupplyMode: sm.SupplyMode, Label: strings.TrimSpace(sm.Label)})
	}
	if !transferDeclared {
		return nil, fmt.Errorf("transfer_supply_mode %d is not a declared supply mode", s.TransferSupplyMode)
	}

	for i, t := range s.Trips {
		if t.TripID <= 0 {
			return nil, fmt.Errorf("invalid trip_id at index %d: %d", i+1, t.TripID)
		}
		data.Trips = append(data.Trips, domain.Trip{
			TripID:     t.TripID,
			Label:      strings.TrimSpace(t.Label),
			SupplyMode: t.SupplyMode,
			Attributes: domain.Attributes(t.Attributes).Clone(),
		})
	}

	for i, st := range s.StopTimes {
		if st.Depart < st.Arrive {
			return nil, fmt.Errorf("stop time at index %d: trip_id=%d seq=%d departs before it arrives", i+1, st.TripID, st.Seq)
		}
		overcap := -1.0
		if st.Overcap != nil {
			overcap = *st.Overcap
		}
		data.StopTimes = append(data.StopTimes, domain.StopTime{
			TripID: st.TripID, Seq: st.Seq, StopID: st.StopID,
			Arrive: st.Arrive, Depart: st.Depart, Overcap: overcap,
		})
	}

	for i, a := range s.AccessLinks {
		if len(a.Attributes) == 0 {
			return nil, fmt.Errorf("access link at index %d: attributes cannot be empty", i+1)
		}
		data.AccessLinks = append(data.AccessLinks, domain.AccessLink{
			TAZID: a.TAZID, SupplyMode: a.SupplyMode, StopID: a.StopID,
			Attributes: domain.Attributes(a.Attributes).Clone(),
		})
	}

	for i, t := range s.Transfers {
		if len(t.Attributes) == 0 {
			return nil, fmt.Errorf("transfer at index %d: attributes cannot be empty", i+1)
		}
		data.Transfers = append(data.Transfers, domain.Transfer{
			FromStop: t.FromStop, ToStop: t.ToStop,
			Attributes: domain.Attributes(t.Attributes).Clone(),
		})
	}

	for i, w := range s.Weights {
		mode, err := domain.ParseMode(w.ModeType)
		if err != nil {
			return nil, fmt.Errorf("weight at index %d: %w", i+1, err)
		}
		name := strings.TrimSpace(w.Name)
		if name == "" {
			return nil, fmt.Errorf("weight at index %d: name cannot be empty", i+1)
		}
		data.Weights = append(data.Weights, domain.Weight{
			Key: domain.WeightKey{
				UserClass:  w.UserClass,
				Purpose:    w.Purpose,
				ModeType:   mode,
				DemandMode: w.DemandMode,
				SupplyMode: w.SupplyMode,
			},
			Name:  name,
			Value: w.Value,
		})
	}

	return data, nil
}

// Populate the database with the network in a JSON seed file.
func SeedFromJSON(ctx context.Context, repo *SQLNetworkRepository, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed network: read %q: %w", jsonPath, err)
	}

	var seed NetworkSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed network: parse json: %w", err)
	}

	data, err := seed.ToNetwork()
	if err != nil {
		return fmt.Errorf("seed network: %w", err)
	}

	if err := repo.SaveNetwork(ctx, data); err != nil {
		return fmt.Errorf("seed network: %w", err)
	}

	return nil
}

// SeedIfEmpty seeds from jsonPath only when the database holds no network.
// It reports whether it seeded.
func SeedIfEmpty(ctx context.Context, repo *SQLNetworkRepository, jsonPath string) (bool, error) {
	empty, err := repo.Empty(ctx)
	if err != nil {
		return false, fmt.Errorf("seed network: %w", err)
	}
	if !empty {
		return false, nil
	}
	if err := SeedFromJSON(ctx, repo, jsonPath); err != nil {
		return false, err
	}
	return true, nil
}
