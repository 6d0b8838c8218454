// Package survey reads directional survey tables from delimited text.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/signalsfoundry/wellpath/model"
)

// Required column names, matched case-insensitively.
const (
	ColumnMD          = "md"
	ColumnInclination = "inc"
	ColumnAzimuth     = "azi"
)

var (
	ErrMissingColumns = errors.New("survey is missing required columns")
	ErrEmptySurvey    = errors.New("survey has no header row")
)

// ReadFile opens path and reads its stations.
func ReadFile(path string) ([]model.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey %q: %w", path, err)
	}
	defer f.Close()

	stations, err := ReadStations(f)
	if err != nil {
		return nil, fmt.Errorf("read survey %q: %w", path, err)
	}
	return stations, nil
}

// ReadStations parses a comma-delimited survey with a header row. Columns may
// appear in any order; unknown columns are ignored. Stations are returned in
// file order and are not validated beyond parsing.
func ReadStations(r io.Reader) ([]model.Station, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySurvey
	}
	if err != nil {
		return nil, err
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var stations []model.Station
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(record) {
			continue
		}

		var st model.Station
		targets := []struct {
			name string
			dst  *float64
		}{
			{ColumnMD, &st.MD},
			{ColumnInclination, &st.Inclination},
			{ColumnAzimuth, &st.Azimuth},
		}
		for _, tgt := range targets {
			idx := cols[tgt.name]
			if idx >= len(record) {
				return nil, fmt.Errorf("line %d: missing value for column %q", line, tgt.name)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, tgt.name, err)
			}
			*tgt.dst = v
		}
		stations = append(stations, st)
	}
	return stations, nil
}

func locateColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, 3)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	var missing []string
	for _, want := range []string{ColumnMD, ColumnInclination, ColumnAzimuth} {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
