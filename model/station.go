package model

// Station is a single directional survey observation.
// Angles are in degrees; MD uses whatever length unit the survey was recorded in.
type Station struct {
	MD          float64 // measured depth along the wellbore
	Inclination float64 // 0 = vertical, 90 = horizontal
	Azimuth     float64 // clockwise from the reference north
}

// Origin is the absolute position of the first survey station in a projected
// coordinate system. The zero value yields coordinates relative to that station.
type Origin struct {
	X float64 // easting
	Y float64 // northing
	Z float64 // elevation, positive up
}
