package field

import (
	"errors"
	"fmt"
)

// Domain errors for effect construction and runs.
var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("field: parameter out of valid bounds")

	// ErrUnknownEffect indicates a registry lookup for an effect that does not exist.
	ErrUnknownEffect = errors.New("field: unknown effect")

	// ErrUnknownScript indicates a registry lookup for a pointer script that does not exist.
	ErrUnknownScript = errors.New("field: unknown pointer script")

	// ErrEmptyRun indicates a recorded run without any frames.
	ErrEmptyRun = errors.New("field: run has no frames")
)

// ParamError reports which parameter failed validation.
type ParamError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %s", e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}

// CheckRange returns a *ParamError when v is outside [lo, hi].
func CheckRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return &ParamError{Name: name, Value: v, Reason: fmt.Sprintf("must be in [%g, %g]", lo, hi)}
	}
	return nil
}

// CheckOpen returns a *ParamError when v is outside (lo, hi).
func CheckOpen(name string, v, lo, hi float64) error {
	if v <= lo || v >= hi {
		return &ParamError{Name: name, Value: v, Reason: fmt.Sprintf("must be in (%g, %g)", lo, hi)}
	}
	return nil
}

// CheckPositive returns a *ParamError when v is not strictly positive.
func CheckPositive(name string, v float64) error {
	if v <= 0 {
		return &ParamError{Name: name, Value: v, Reason: "must be positive"}
	}
	return nil
}
