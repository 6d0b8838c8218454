// Package geodesy resolves coordinate reference systems and transforms
// projected coordinates to WGS84 using the PROJ library.
package geodesy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/twpayne/go-proj/v10"

	"github.com/signalsfoundry/wellpath/core"
	"github.com/signalsfoundry/wellpath/model"
)

// WGS84 is the geographic target of every transformation.
const WGS84 = "EPSG:4326"

var errForeignCRS = errors.New("CRS was not resolved by this provider")

type projCRS struct {
	id string
	pj *proj.PJ
}

func (c *projCRS) ID() string { return c.id }

// Provider implements core.CRSProvider on top of PROJ. Resolved
// transformations are cached per identifier; PJ handles are not safe for
// concurrent use, so every call goes through mu.
type Provider struct {
	mu    sync.Mutex
	cache map[string]*projCRS
}

var _ core.CRSProvider = (*Provider)(nil)

// NewProvider returns an empty Provider. Call Close to release PROJ handles.
func NewProvider() *Provider {
	return &Provider{cache: make(map[string]*projCRS)}
}

// Resolve builds (or returns the cached) transformation from id to WGS84.
// The transformation is normalised so input is always easting/northing and
// output longitude/latitude, whatever the CRS axis order.
func (p *Provider) Resolve(id string) (core.CRS, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.cache[id]; ok {
		return c, nil
	}

	pj, err := proj.NewCRSToCRS(id, WGS84, nil)
	if err != nil {
		return nil, &core.UnknownCRSError{ID: id, Err: err}
	}
	norm, err := pj.NormalizeForVisualization()
	pj.Destroy()
	if err != nil {
		return nil, &core.UnknownCRSError{ID: id, Err: fmt.Errorf("normalize axis order: %w", err)}
	}

	c := &projCRS{id: id, pj: norm}
	p.cache[id] = c
	return c, nil
}

// ToWGS84 transforms (x, y) in src to WGS84.
func (p *Provider) ToWGS84(src core.CRS, x, y float64) (model.LatLon, error) {
	c, ok := src.(*projCRS)
	if !ok {
		return model.LatLon{}, errForeignCRS
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cache[c.id] != c {
		return model.LatLon{}, errForeignCRS
	}
	out, err := c.pj.Forward(proj.NewCoord(x, y, 0, 0))
	if err != nil {
		return model.LatLon{}, err
	}
	return model.LatLon{Lat: out.Y(), Lon: out.X()}, nil
}

// Close releases every cached PROJ handle. The provider must not be used
// afterwards.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.cache {
		c.pj.Destroy()
		delete(p.cache, id)
	}
}
