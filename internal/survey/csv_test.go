package survey

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/signalsfoundry/wellpath/model"
)

func TestReadStations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []model.Station
	}{
		{
			name: "canonical order",
			in:   "md,inc,azi\n0,0,359.8653226\n22,0.11,217.3553226\n30,0.23,177.1053226\n",
			want: []model.Station{
				{MD: 0, Inclination: 0, Azimuth: 359.8653226},
				{MD: 22, Inclination: 0.11, Azimuth: 217.3553226},
				{MD: 30, Inclination: 0.23, Azimuth: 177.1053226},
			},
		},
		{
			name: "reordered columns, extra columns, mixed case and spaces",
			in:   "\ufeffWell, AZI ,TVD,Inc,MD\nA-1, 10,0,1.5,0\nA-1,12,99.9,2.5,100\n",
			want: []model.Station{
				{MD: 0, Inclination: 1.5, Azimuth: 10},
				{MD: 100, Inclination: 2.5, Azimuth: 12},
			},
		},
		{
			name: "blank lines skipped",
			in:   "md,inc,azi\n\n0,0,0\n,,\n10,1,2\n",
			want: []model.Station{
				{MD: 0},
				{MD: 10, Inclination: 1, Azimuth: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadStations(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("ReadStations: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ReadStations = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadStations_MissingColumns(t *testing.T) {
	_, err := ReadStations(strings.NewReader("md,inclination\n0,0\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), "azi, inc") {
		t.Fatalf("err %q should name the missing columns", err)
	}
}

func TestReadStations_Empty(t *testing.T) {
	if _, err := ReadStations(strings.NewReader("")); !errors.Is(err, ErrEmptySurvey) {
		t.Fatalf("err = %v, want ErrEmptySurvey", err)
	}
}

func TestReadStations_BadNumberNamesLine(t *testing.T) {
	_, err := ReadStations(strings.NewReader("md,inc,azi\n0,0,0\n10,abc,5\n"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "line 3") || !strings.Contains(err.Error(), `"inc"`) {
		t.Fatalf("err %q should name line 3 and column inc", err)
	}
}

func TestReadStations_ShortRow(t *testing.T) {
	_, err := ReadStations(strings.NewReader("md,inc,azi\n0,0\n"))
	if err == nil || !strings.Contains(err.Error(), `"azi"`) {
		t.Fatalf("err = %v, want missing azi value", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	if err := os.WriteFile(path, []byte("md,inc,azi\n0,0,0\n5,1,90\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 || got[1].Azimuth != 90 {
		t.Fatalf("ReadFile = %+v", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v, want os.ErrNotExist", err)
	}
}
