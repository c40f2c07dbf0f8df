package network

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"transit-pathset-service/internal/domain"
)

type accessKey struct {
	taz, supplyMode, stop int
}

type transferKey struct {
	from, to int
}

// Store is an immutable in-memory snapshot of the transit network.
// It implements ports.NetworkProvider and ports.Labeler and is safe for
// concurrent use: nothing is written after NewStore returns.
//
// Attribute maps handed out by the lookups are shared with the store and
// must not be modified by callers.
type Store struct {
	stops       map[int]string
	supplyModes map[int]string
	trips       map[int]domain.TripInfo
	tripLabels  map[int]string
	// stop times per trip, sorted by sequence
	stopTimes map[int][]domain.StopTime
	access    map[accessKey]domain.Attributes
	transfers map[transferKey]domain.Attributes

	transferSupplyMode int
}

// Build a Store from loaded network rows.
func NewStore(data *domain.NetworkData) (*Store, error) {
	if data == nil {
		return nil, errors.New("new network store: data is nil")
	}

	s := &Store{
		stops:              make(map[int]string, len(data.Stops)),
		supplyModes:        make(map[int]string, len(data.SupplyModes)),
		trips:              make(map[int]domain.TripInfo, len(data.Trips)),
		tripLabels:         make(map[int]string, len(data.Trips)),
		stopTimes:          make(map[int][]domain.StopTime, len(data.Trips)),
		access:             make(map[accessKey]domain.Attributes, len(data.AccessLinks)),
		transfers:          make(map[transferKey]domain.Attributes, len(data.Transfers)),
		transferSupplyMode: data.TransferSupplyMode,
	}

	for _, st := range data.Stops {
		s.stops[st.StopID] = st.Label
	}
	for _, sm := range data.SupplyModes {
		s.supplyModes[sm.SupplyMode] = sm.Label
	}
	for _, t := range data.Trips {
		if _, dup := s.trips[t.TripID]; dup {
			return nil, fmt.Errorf("new network store: duplicate trip_id=%d", t.TripID)
		}
		s.trips[t.TripID] = domain.TripInfo{SupplyMode: t.SupplyMode, Attributes: t.Attributes.Clone()}
		s.tripLabels[t.TripID] = t.Label
	}
	for _, st := range data.StopTimes {
		if _, ok := s.trips[st.TripID]; !ok {
			return nil, fmt.Errorf("new network store: stop time for unknown trip_id=%d", st.TripID)
		}
		s.stopTimes[st.TripID] = append(s.stopTimes[st.TripID], st)
	}
	for tripID, times := range s.stopTimes {
		slices.SortFunc(times, func(a, b domain.StopTime) int { return cmp.Compare(a.Seq, b.Seq) })
		for i := 1; i < len(times); i++ {
			if times[i].Seq == times[i-1].Seq {
				return nil, fmt.Errorf("new network store: duplicate stop time trip_id=%d seq=%d", tripID, times[i].Seq)
			}
		}
	}
	for _, a := range data.AccessLinks {
		s.access[accessKey{a.TAZID, a.SupplyMode, a.StopID}] = a.Attributes.Clone()
	}
	for _, t := range data.Transfers {
		s.transfers[transferKey{t.FromStop, t.ToStop}] = t.Attributes.Clone()
	}

	return s, nil
}

// ScheduledDeparture returns the departure of tripID from stopID. A negative
// seq matches the first call at that stop.
func (s *Store) ScheduledDeparture(tripID, stopID, seq int) (float64, bool) {
	for _, st := range s.stopTimes[tripID] {
		if st.StopID == stopID && (seq < 0 || st.Seq == seq) {
			return st.Depart, true
		}
	}
	return 0, false
}

func (s *Store) AccessAttributes(tazID, supplyMode, stopID int) (domain.Attributes, bool) {
	attrs, ok := s.access[accessKey{tazID, supplyMode, stopID}]
	return attrs, ok
}

// TransferAttributes returns the walk transfer between two stops. Staying at
// the same stop is always possible and costs only the transfer penalty.
func (s *Store) TransferAttributes(originStop, destStop int) (domain.Attributes, bool) {
	if originStop == destStop {
		return domain.Attributes{
			domain.AttrWalkTime:      0,
			domain.AttrTransferPen:   1,
			domain.AttrElevationGain: 0,
		}, true
	}
	attrs, ok := s.transfers[transferKey{originStop, destStop}]
	return attrs, ok
}

func (s *Store) TripInfo(tripID int) (domain.TripInfo, bool) {
	info, ok := s.trips[tripID]
	return info, ok
}

func (s *Store) Overcap(tripID, seq int) (float64, bool) {
	times := s.stopTimes[tripID]
	i, found := slices.BinarySearchFunc(times, seq, func(st domain.StopTime, seq int) int {
		return cmp.Compare(st.Seq, seq)
	})
	if !found {
		return 0, false
	}
	return times[i].Overcap, true
}

func (s *Store) TransferSupplyMode() int { return s.transferSupplyMode }

// Labels fall back to the numeric id for unknown rows.

func (s *Store) StopLabel(stopID int) string {
	if l, ok := s.stops[stopID]; ok && l != "" {
		return l
	}
	return strconv.Itoa(stopID)
}

func (s *Store) TripLabel(tripID int) string {
	if l, ok := s.tripLabels[tripID]; ok && l != "" {
		return l
	}
	return strconv.Itoa(tripID)
}

func (s *Store) ModeLabel(supplyMode int) string {
	if l, ok := s.supplyModes[supplyMode]; ok && l != "" {
		return l
	}
	return strconv.Itoa(supplyMode)
}
