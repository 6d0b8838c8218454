package core

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("invalid survey")
	ErrOutOfRange   = errors.New("measured depth out of survey range")
	ErrStationIndex = errors.New("station index out of range")
	ErrUnknownCRS   = errors.New("unknown coordinate reference system")
	ErrProjection   = errors.New("projection failed")
)

// ValidationError describes a malformed or out-of-domain survey record.
// Index is -1 when the problem concerns the table as a whole.
type ValidationError struct {
	Index  int
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%v: station[%d] %s=%v: %s", ErrValidation, e.Index, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// OutOfRangeError is returned when a measured depth falls outside the
// [Min, Max] span of the station table.
type OutOfRangeError struct {
	MD  float64
	Min float64
	Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%v: md=%v not in [%v, %v]", ErrOutOfRange, e.MD, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// UnknownCRSError is returned when a CRS identifier cannot be resolved.
type UnknownCRSError struct {
	ID  string
	Err error
}

func (e *UnknownCRSError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %q", ErrUnknownCRS, e.ID)
	}
	return fmt.Sprintf("%v: %q: %v", ErrUnknownCRS, e.ID, e.Err)
}

func (e *UnknownCRSError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnknownCRS}
	}
	return []error{ErrUnknownCRS, e.Err}
}

// ProjectionError is returned when the CRS provider rejects a coordinate.
type ProjectionError struct {
	ID  string
	X   float64
	Y   float64
	Err error
}

func (e *ProjectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: (%v, %v) in %s", ErrProjection, e.X, e.Y, e.ID)
	}
	return fmt.Sprintf("%v: (%v, %v) in %s: %v", ErrProjection, e.X, e.Y, e.ID, e.Err)
}

func (e *ProjectionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrProjection}
	}
	return []error{ErrProjection, e.Err}
}
