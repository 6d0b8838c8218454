// Package config loads the optional well header file that carries the
// georeferencing parameters of a survey.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/signalsfoundry/wellpath/model"
)

// WellHeader holds per-well georeferencing parameters. Nil fields are unset.
type WellHeader struct {
	WKID              string   `yaml:"wkid,omitempty"`
	X0                *float64 `yaml:"x0,omitempty"`
	Y0                *float64 `yaml:"y0,omitempty"`
	Z0                *float64 `yaml:"z0,omitempty"`
	AzimuthAdjustment *float64 `yaml:"azimuth_adjustment,omitempty"`
}

// Load reads a YAML well header from path.
func Load(path string) (*WellHeader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read well header %q: %w", path, err)
	}
	var h WellHeader
	if err := yaml.UnmarshalStrict(data, &h); err != nil {
		return nil, fmt.Errorf("parse well header %q: %w", path, err)
	}
	return &h, nil
}

// Merge returns a copy of h with every field set in override replacing
// the corresponding field of h.
func (h WellHeader) Merge(override WellHeader) WellHeader {
	if override.WKID != "" {
		h.WKID = override.WKID
	}
	if override.X0 != nil {
		h.X0 = override.X0
	}
	if override.Y0 != nil {
		h.Y0 = override.Y0
	}
	if override.Z0 != nil {
		h.Z0 = override.Z0
	}
	if override.AzimuthAdjustment != nil {
		h.AzimuthAdjustment = override.AzimuthAdjustment
	}
	return h
}

// Origin returns the origin with unset coordinates defaulting to 0.
func (h WellHeader) Origin() model.Origin {
	return model.Origin{X: deref(h.X0), Y: deref(h.Y0), Z: deref(h.Z0)}
}

// HasHorizontalOrigin reports whether both x0 and y0 were supplied.
func (h WellHeader) HasHorizontalOrigin() bool {
	return h.X0 != nil && h.Y0 != nil
}

// Adjustment returns the azimuth adjustment, 0 when unset.
func (h WellHeader) Adjustment() float64 { return deref(h.AzimuthAdjustment) }

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
