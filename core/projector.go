package core

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/signalsfoundry/wellpath/model"
)

// CRS is a coordinate reference system resolved by a CRSProvider.
type CRS interface {
	ID() string
}

// CRSProvider resolves CRS identifiers and converts projected coordinates
// in a resolved CRS to WGS84.
type CRSProvider interface {
	Resolve(id string) (CRS, error)
	ToWGS84(src CRS, x, y float64) (model.LatLon, error)
}

// NormalizeCRSID canonicalises a CRS identifier. Bare integers are taken to
// be EPSG codes.
func NormalizeCRSID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", &UnknownCRSError{ID: id, Err: errors.New("empty identifier")}
	}
	if code, err := strconv.Atoi(id); err == nil {
		if code <= 0 {
			return "", &UnknownCRSError{ID: id, Err: errors.New("EPSG code must be positive")}
		}
		return "EPSG:" + strconv.Itoa(code), nil
	}
	authority, code, ok := strings.Cut(id, ":")
	if !ok || strings.TrimSpace(authority) == "" || strings.TrimSpace(code) == "" {
		return "", &UnknownCRSError{ID: id, Err: errors.New("expected AUTHORITY:CODE")}
	}
	return strings.ToUpper(strings.TrimSpace(authority)) + ":" + strings.TrimSpace(code), nil
}

// GeodeticProjector converts absolute projected coordinates in one source
// CRS to WGS84 latitude/longitude.
type GeodeticProjector struct {
	provider CRSProvider
	crs      CRS
}

// NewGeodeticProjector resolves id against provider.
func NewGeodeticProjector(provider CRSProvider, id string) (*GeodeticProjector, error) {
	norm, err := NormalizeCRSID(id)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, &UnknownCRSError{ID: norm, Err: errors.New("no CRS provider configured")}
	}
	crs, err := provider.Resolve(norm)
	if err != nil {
		var unknown *UnknownCRSError
		if errors.As(err, &unknown) {
			return nil, err
		}
		return nil, &UnknownCRSError{ID: norm, Err: err}
	}
	return &GeodeticProjector{provider: provider, crs: crs}, nil
}

// CRSID returns the identifier of the source CRS.
func (g *GeodeticProjector) CRSID() string { return g.crs.ID() }

// Project converts (x, y) to WGS84.
func (g *GeodeticProjector) Project(x, y float64) (model.LatLon, error) {
	ll, err := g.provider.ToWGS84(g.crs, x, y)
	if err != nil {
		return model.LatLon{}, &ProjectionError{ID: g.crs.ID(), X: x, Y: y, Err: err}
	}
	if !validLatLon(ll) {
		return model.LatLon{}, &ProjectionError{
			ID:  g.crs.ID(),
			X:   x,
			Y:   y,
			Err: errors.New("provider returned coordinates outside the WGS84 domain"),
		}
	}
	return ll, nil
}

// Project is a one-shot form of NewGeodeticProjector followed by Project.
func Project(provider CRSProvider, x, y float64, id string) (model.LatLon, error) {
	g, err := NewGeodeticProjector(provider, id)
	if err != nil {
		return model.LatLon{}, err
	}
	return g.Project(x, y)
}

func validLatLon(ll model.LatLon) bool {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lon) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lon, 0) {
		return false
	}
	return ll.Lat >= -90 && ll.Lat <= 90 && ll.Lon >= -180 && ll.Lon <= 180
}
