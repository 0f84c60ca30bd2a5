package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid construction and addressing.
var (
	// ErrConfiguration indicates invalid construction or step parameters.
	ErrConfiguration = errors.New("grid: invalid configuration")

	// ErrOutOfRange indicates a cell addressed outside the domain.
	ErrOutOfRange = errors.New("grid: cell out of range")
)

// ConfigurationError names the offending parameter.
type ConfigurationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("grid: invalid %s (%v): %s", e.Param, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// OutOfRangeError reports the requested cell and the domain extent.
type OutOfRangeError struct {
	IX, IY int
	NX, NY int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("grid: cell (%d,%d) outside [0,%d)x[0,%d)", e.IX, e.IY, e.NX, e.NY)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}
