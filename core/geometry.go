package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// doglegEpsilon is the dogleg angle (radians) below which a course is
// treated as a straight line and the ratio factor collapses to 1.
const doglegEpsilon = 1e-6

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// DirectionVector returns the unit tangent of the wellbore for the given
// inclination and azimuth in degrees. X is north, Y is east, Z is vertical
// (positive down).
func DirectionVector(incDeg, aziDeg float64) r3.Vec {
	inc := degToRad(incDeg)
	azi := degToRad(aziDeg)
	sinInc := math.Sin(inc)
	return r3.Vec{
		X: sinInc * math.Cos(azi),
		Y: sinInc * math.Sin(azi),
		Z: math.Cos(inc),
	}
}

// DoglegAngle returns the angle in radians between two unit direction vectors.
func DoglegAngle(a, b r3.Vec) float64 {
	cos := r3.Dot(a, b)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// RatioFactor is the minimum-curvature weighting 2/β·tan(β/2).
func RatioFactor(beta float64) float64 {
	if beta <= doglegEpsilon {
		return 1
	}
	return 2 / beta * math.Tan(beta/2)
}

// slerp interpolates along the great circle from a to b. beta is the angle
// between them and f the fraction travelled, in [0, 1].
func slerp(a, b r3.Vec, beta, f float64) r3.Vec {
	if beta <= doglegEpsilon {
		// Nearly parallel: a normalised linear blend is indistinguishable.
		v := r3.Add(a, r3.Scale(f, r3.Sub(b, a)))
		if n := r3.Norm(v); n > 0 {
			return r3.Scale(1/n, v)
		}
		return a
	}
	sinBeta := math.Sin(beta)
	wa := math.Sin((1-f)*beta) / sinBeta
	wb := math.Sin(f*beta) / sinBeta
	return r3.Add(r3.Scale(wa, a), r3.Scale(wb, b))
}
