package core

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/wellpath/model"
)

func exampleStations() []model.Station {
	return []model.Station{
		{MD: 0, Inclination: 0, Azimuth: 359.8653226},
		{MD: 22, Inclination: 0.11, Azimuth: 217.3553226},
		{MD: 30, Inclination: 0.23, Azimuth: 177.1053226},
	}
}

func mustTable(t *testing.T, stations []model.Station) *StationTable {
	t.Helper()
	table, err := LoadStationTable(stations)
	if err != nil {
		t.Fatalf("LoadStationTable: %v", err)
	}
	return table
}

func TestLoadStationTable_Valid(t *testing.T) {
	in := exampleStations()
	table := mustTable(t, in)

	if table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", table.Len())
	}
	if table.MinMD() != 0 || table.MaxMD() != 30 {
		t.Fatalf("bounds = [%v, %v], want [0, 30]", table.MinMD(), table.MaxMD())
	}

	// The table owns a private copy.
	in[1].MD = 999
	if st, _ := table.StationAt(1); st.MD != 22 {
		t.Fatalf("table mutated through caller slice: md=%v", st.MD)
	}
	out := table.Stations()
	out[0].Azimuth = 1
	if st, _ := table.StationAt(0); st.Azimuth != 359.8653226 {
		t.Fatalf("table mutated through Stations() copy")
	}
}

func TestLoadStationTable_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		stations  []model.Station
		wantIndex int
		wantField string
	}{
		{
			name:      "empty",
			stations:  nil,
			wantIndex: -1,
		},
		{
			name:      "single station",
			stations:  []model.Station{{MD: 0}},
			wantIndex: -1,
		},
		{
			name:      "duplicate md",
			stations:  []model.Station{{MD: 0}, {MD: 10}, {MD: 10}},
			wantIndex: 2,
			wantField: "md",
		},
		{
			name:      "decreasing md",
			stations:  []model.Station{{MD: 10}, {MD: 5}},
			wantIndex: 1,
			wantField: "md",
		},
		{
			name:      "negative md",
			stations:  []model.Station{{MD: -1}, {MD: 5}},
			wantIndex: 0,
			wantField: "md",
		},
		{
			name:      "inclination above 180",
			stations:  []model.Station{{MD: 0}, {MD: 5, Inclination: 180.5}},
			wantIndex: 1,
			wantField: "inc",
		},
		{
			name:      "negative inclination",
			stations:  []model.Station{{MD: 0, Inclination: -0.1}, {MD: 5}},
			wantIndex: 0,
			wantField: "inc",
		},
		{
			name:      "azimuth 360",
			stations:  []model.Station{{MD: 0}, {MD: 5, Azimuth: 360}},
			wantIndex: 1,
			wantField: "azi",
		},
		{
			name:      "negative azimuth",
			stations:  []model.Station{{MD: 0}, {MD: 5, Azimuth: -3}},
			wantIndex: 1,
			wantField: "azi",
		},
		{
			name:      "NaN inclination",
			stations:  []model.Station{{MD: 0}, {MD: 5, Inclination: math.NaN()}},
			wantIndex: 1,
			wantField: "inc",
		},
		{
			name:      "infinite md",
			stations:  []model.Station{{MD: 0}, {MD: math.Inf(1)}},
			wantIndex: 1,
			wantField: "md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStationTable(tt.stations)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err %T is not *ValidationError", err)
			}
			if verr.Index != tt.wantIndex || verr.Field != tt.wantField {
				t.Fatalf("ValidationError{Index:%d Field:%q}, want {Index:%d Field:%q}",
					verr.Index, verr.Field, tt.wantIndex, tt.wantField)
			}
		})
	}
}

func TestStationAt_OutOfBounds(t *testing.T) {
	table := mustTable(t, exampleStations())
	for _, i := range []int{-1, 3, 100} {
		if _, err := table.StationAt(i); !errors.Is(err, ErrStationIndex) {
			t.Errorf("StationAt(%d) err = %v, want ErrStationIndex", i, err)
		}
	}
}

func TestBracket(t *testing.T) {
	table := mustTable(t, exampleStations())

	tests := []struct {
		md     float64
		lo, hi int
	}{
		{0, 0, 1},
		{10, 0, 1},
		{22, 1, 2},
		{25.5, 1, 2},
		{30, 1, 2},
	}
	for _, tt := range tests {
		lo, hi, err := table.Bracket(tt.md)
		if err != nil {
			t.Fatalf("Bracket(%v) error: %v", tt.md, err)
		}
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Bracket(%v) = (%d, %d), want (%d, %d)", tt.md, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestBracket_OutOfRange(t *testing.T) {
	table := mustTable(t, exampleStations())

	for _, md := range []float64{-0.001, 30.0001, 1e9, math.NaN(), math.Inf(-1)} {
		_, _, err := table.Bracket(md)
		if !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("Bracket(%v) err = %v, want ErrOutOfRange", md, err)
		}
		var oor *OutOfRangeError
		if !errors.As(err, &oor) || oor.Min != 0 || oor.Max != 30 {
			t.Fatalf("Bracket(%v) err = %#v, want bounds [0, 30]", md, err)
		}
	}
}
