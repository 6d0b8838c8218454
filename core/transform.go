package core

import (
	"math"

	"github.com/signalsfoundry/wellpath/model"
)

// Transformer turns solver offsets into absolute Cartesian coordinates.
// The azimuth adjustment rotates the horizontal offsets about the vertical
// axis, which for minimum curvature is the same as adding it to every
// station azimuth before solving.
type Transformer struct {
	azimuthAdjustment float64 // degrees, normalised into [0, 360)
	sinAdj, cosAdj    float64
	origin            model.Origin
}

// NewTransformer builds a Transformer. Any finite adjustment is accepted and
// wrapped into [0, 360).
func NewTransformer(azimuthAdjustment float64, origin model.Origin) Transformer {
	adj := NormalizeAzimuth(azimuthAdjustment)
	rad := degToRad(adj)
	return Transformer{
		azimuthAdjustment: adj,
		sinAdj:            math.Sin(rad),
		cosAdj:            math.Cos(rad),
		origin:            origin,
	}
}

// NormalizeAzimuth wraps deg into [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// AzimuthAdjustment returns the normalised adjustment in degrees.
func (t Transformer) AzimuthAdjustment() float64 { return t.azimuthAdjustment }

// Rotate applies the azimuth adjustment to an offset's horizontal components.
func (t Transformer) Rotate(off Offset) Offset {
	if t.azimuthAdjustment == 0 {
		return off
	}
	return Offset{
		North: off.North*t.cosAdj - off.East*t.sinAdj,
		East:  off.North*t.sinAdj + off.East*t.cosAdj,
		TVD:   off.TVD,
	}
}

// Apply rotates and translates off into an absolute point at md.
func (t Transformer) Apply(md float64, off Offset) model.Point {
	r := t.Rotate(off)
	return model.Point{
		MD: md,
		X:  t.origin.X + r.East,
		Y:  t.origin.Y + r.North,
		Z:  t.origin.Z - r.TVD,
	}
}
