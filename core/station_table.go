package core

import (
	"math"
	"sort"

	"github.com/signalsfoundry/wellpath/model"
)

// StationTable is an ordered, validated directional survey. It is read-only
// after LoadStationTable returns and safe for concurrent use.
type StationTable struct {
	stations []model.Station
}

// LoadStationTable validates records and copies them into a new table.
func LoadStationTable(records []model.Station) (*StationTable, error) {
	if len(records) < 2 {
		return nil, &ValidationError{
			Index:  -1,
			Reason: "at least 2 stations are required",
		}
	}

	stations := make([]model.Station, len(records))
	for i, st := range records {
		if err := validateStation(i, st); err != nil {
			return nil, err
		}
		if i > 0 && st.MD <= records[i-1].MD {
			return nil, &ValidationError{
				Index:  i,
				Field:  "md",
				Value:  st.MD,
				Reason: "measured depth must be strictly increasing",
			}
		}
		stations[i] = st
	}

	return &StationTable{stations: stations}, nil
}

func validateStation(i int, st model.Station) error {
	checks := []struct {
		field string
		value float64
		ok    bool
		why   string
	}{
		{"md", st.MD, st.MD >= 0, "must be >= 0"},
		{"inc", st.Inclination, st.Inclination >= 0 && st.Inclination <= 180, "must be in [0, 180]"},
		{"azi", st.Azimuth, st.Azimuth >= 0 && st.Azimuth < 360, "must be in [0, 360)"},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &ValidationError{Index: i, Field: c.field, Value: c.value, Reason: "must be finite"}
		}
		if !c.ok {
			return &ValidationError{Index: i, Field: c.field, Value: c.value, Reason: c.why}
		}
	}
	return nil
}

// Len returns the number of stations.
func (t *StationTable) Len() int { return len(t.stations) }

// MinMD is the measured depth of the first station.
func (t *StationTable) MinMD() float64 { return t.stations[0].MD }

// MaxMD is the measured depth of the last station.
func (t *StationTable) MaxMD() float64 { return t.stations[len(t.stations)-1].MD }

// StationAt returns the station at index i.
func (t *StationTable) StationAt(i int) (model.Station, error) {
	if i < 0 || i >= len(t.stations) {
		return model.Station{}, ErrStationIndex
	}
	return t.stations[i], nil
}

// Stations returns a copy of the ordered stations.
func (t *StationTable) Stations() []model.Station {
	out := make([]model.Station, len(t.stations))
	copy(out, t.stations)
	return out
}

// Bracket returns the indices (lo, lo+1) of the course containing md, such
// that stations[lo].MD <= md <= stations[lo+1].MD.
func (t *StationTable) Bracket(md float64) (int, int, error) {
	minMD, maxMD := t.MinMD(), t.MaxMD()
	if math.IsNaN(md) || md < minMD || md > maxMD {
		return 0, 0, &OutOfRangeError{MD: md, Min: minMD, Max: maxMD}
	}

	// First station strictly deeper than md; the course starts one before it.
	hi := sort.Search(len(t.stations), func(i int) bool {
		return t.stations[i].MD > md
	})
	if hi == len(t.stations) {
		// md == last station: report the final course.
		hi = len(t.stations) - 1
	}
	return hi - 1, hi, nil
}
