package core

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/signalsfoundry/wellpath/model"
)

// Offset is a displacement relative to the first survey station.
// TVD is true vertical depth, positive down.
type Offset struct {
	North float64
	East  float64
	TVD   float64
}

// Add returns o + other.
func (o Offset) Add(other Offset) Offset {
	return Offset{
		North: o.North + other.North,
		East:  o.East + other.East,
		TVD:   o.TVD + other.TVD,
	}
}

func offsetFromVec(v r3.Vec) Offset {
	return Offset{North: v.X, East: v.Y, TVD: v.Z}
}

// Course is the circular arc between two adjacent survey stations.
type Course struct {
	From model.Station
	To   model.Station

	Length      float64 // ΔMD
	Dogleg      float64 // radians
	RatioFactor float64

	dirFrom r3.Vec
	dirTo   r3.Vec
}

// NewCourse derives the course between stations a and b. The caller
// guarantees b.MD > a.MD.
func NewCourse(a, b model.Station) Course {
	dirA := DirectionVector(a.Inclination, a.Azimuth)
	dirB := DirectionVector(b.Inclination, b.Azimuth)
	beta := DoglegAngle(dirA, dirB)
	return Course{
		From:        a,
		To:          b,
		Length:      b.MD - a.MD,
		Dogleg:      beta,
		RatioFactor: RatioFactor(beta),
		dirFrom:     dirA,
		dirTo:       dirB,
	}
}

// DoglegDegrees returns the dogleg angle in degrees.
func (c Course) DoglegDegrees() float64 { return radToDeg(c.Dogleg) }

// Displacement is the full-course displacement from From to To.
func (c Course) Displacement() Offset {
	sum := r3.Add(c.dirFrom, c.dirTo)
	return offsetFromVec(r3.Scale(c.Length/2*c.RatioFactor, sum))
}

// DisplacementTo is the displacement from From to the point at measured
// depth md along the arc. md is clamped to the course.
func (c Course) DisplacementTo(md float64) Offset {
	if md <= c.From.MD {
		return Offset{}
	}
	if md >= c.To.MD {
		return c.Displacement()
	}

	f := (md - c.From.MD) / c.Length
	dirT := slerp(c.dirFrom, c.dirTo, c.Dogleg, f)
	l := md - c.From.MD
	rf := RatioFactor(c.Dogleg * f)
	return offsetFromVec(r3.Scale(l/2*rf, r3.Add(c.dirFrom, dirT)))
}

// Solver evaluates minimum-curvature positions along a StationTable.
// Cumulative offsets at every station are computed once in NewSolver, so
// each query costs one bracket lookup and at most one truncated course.
// A Solver is immutable and safe for concurrent use.
type Solver struct {
	table      *StationTable
	courses    []Course
	cumulative []Offset // cumulative[i] is the offset of station i
}

// NewSolver precomputes the courses and station offsets for table.
func NewSolver(table *StationTable) *Solver {
	n := table.Len()
	s := &Solver{
		table:      table,
		courses:    make([]Course, n-1),
		cumulative: make([]Offset, n),
	}
	for i := 0; i < n-1; i++ {
		c := NewCourse(table.stations[i], table.stations[i+1])
		s.courses[i] = c
		s.cumulative[i+1] = s.cumulative[i].Add(c.Displacement())
	}
	return s
}

// Courses returns a copy of the derived courses, in station order.
func (s *Solver) Courses() []Course {
	out := make([]Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// OffsetAt returns the offset from the first station at measured depth md.
func (s *Solver) OffsetAt(md float64) (Offset, error) {
	lo, hi, err := s.table.Bracket(md)
	if err != nil {
		return Offset{}, err
	}
	switch md {
	case s.table.stations[lo].MD:
		return s.cumulative[lo], nil
	case s.table.stations[hi].MD:
		return s.cumulative[hi], nil
	}
	return s.cumulative[lo].Add(s.courses[lo].DisplacementTo(md)), nil
}
