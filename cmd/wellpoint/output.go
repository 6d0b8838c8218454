package main

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/signalsfoundry/wellpath/core"
	"github.com/signalsfoundry/wellpath/internal/trajectory"
)

// pointJSON is one element of the output array. X, Y and Z are null for
// points that could not be interpolated.
type pointJSON struct {
	MD    float64  `json:"md"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Error string   `json:"error,omitempty"`
}

// geoPointJSON adds lat/lon, which are null when projection failed.
type geoPointJSON struct {
	MD    float64  `json:"md"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Z     *float64 `json:"z"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Error string   `json:"error,omitempty"`
}

func writeBatch(w io.Writer, batch *trajectory.Batch) error {
	enc := json.NewEncoder(w)
	if batch.Geographic {
		out := make([]geoPointJSON, 0, len(batch.Results))
		for _, r := range batch.Results {
			p := toPointJSON(r)
			g := geoPointJSON{MD: p.MD, X: p.X, Y: p.Y, Z: p.Z, Error: p.Error}
			if geo := r.Point.Geo; geo != nil {
				g.Lat, g.Lon = &geo.Lat, &geo.Lon
			}
			out = append(out, g)
		}
		return enc.Encode(out)
	}

	out := make([]pointJSON, 0, len(batch.Results))
	for _, r := range batch.Results {
		out = append(out, toPointJSON(r))
	}
	return enc.Encode(out)
}

func toPointJSON(r trajectory.Result) pointJSON {
	p := pointJSON{MD: r.MD}
	if r.Err != nil {
		p.Error = r.Err.Error()
	}
	// An out-of-range result carries only its md; a projection failure
	// still has valid coordinates.
	if !errors.Is(r.Err, core.ErrOutOfRange) {
		x, y, z := r.Point.X, r.Point.Y, r.Point.Z
		p.X, p.Y, p.Z = &x, &y, &z
	}
	return p
}
