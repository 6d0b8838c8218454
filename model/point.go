package model

// LatLon is a WGS84 geographic position in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Point is an interpolated position along the wellbore.
// Z decreases with depth. Geo is only set when geographic output was requested.
type Point struct {
	MD float64
	X  float64
	Y  float64
	Z  float64

	Geo *LatLon
}
