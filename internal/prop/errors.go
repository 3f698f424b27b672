package prop

import (
	"errors"
	"fmt"
)

// ResolutionError represents a failure while resolving a keyframe set or
// blending two keyframe values.
//
// Resolution errors include:
//   - No lower keyframe: no entry at or before the requested time
//   - No upper keyframe: interpolation required but no entry at or after time
//   - Type mismatch: lower and upper values have different runtime types
//   - Shape mismatch: composite values with different structural shapes
//
// ResolutionError includes structured fields for diagnostics.
type ResolutionError struct {
	// Code identifies the error category.
	Code ResolutionErrorCode

	// Message is a human-readable description.
	Message string

	// Time is the resolution time the failure occurred at.
	Time float64
}

// ResolutionErrorCode categorizes resolution errors.
type ResolutionErrorCode string

const (
	// ErrCodeNoLowerKeyframe indicates no keyframe exists at or before the time.
	ErrCodeNoLowerKeyframe ResolutionErrorCode = "NO_LOWER_KEYFRAME"

	// ErrCodeNoUpperKeyframe indicates interpolation was required but no
	// keyframe exists at or after the time.
	ErrCodeNoUpperKeyframe ResolutionErrorCode = "NO_UPPER_KEYFRAME"

	// ErrCodeTypeMismatch indicates the bounding keyframe values have
	// different runtime types.
	ErrCodeTypeMismatch ResolutionErrorCode = "TYPE_MISMATCH"

	// ErrCodeShapeMismatch indicates two composite values do not share the
	// same structural shape.
	ErrCodeShapeMismatch ResolutionErrorCode = "SHAPE_MISMATCH"
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s (time=%v)", e.Code, e.Message, e.Time)
}

// IsNoLowerKeyframe returns true if the error is a missing-lower-keyframe error.
// Uses errors.As to handle wrapped errors.
func IsNoLowerKeyframe(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoLowerKeyframe
	}
	return false
}

// IsNoUpperKeyframe returns true if the error is a missing-upper-keyframe error.
// Uses errors.As to handle wrapped errors.
func IsNoUpperKeyframe(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoUpperKeyframe
	}
	return false
}

// IsTypeMismatch returns true if the error is a type mismatch error.
func IsTypeMismatch(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code == ErrCodeTypeMismatch
	}
	return false
}

// IsShapeMismatch returns true if the error is a shape mismatch error.
func IsShapeMismatch(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code == ErrCodeShapeMismatch
	}
	return false
}

// NewNoLowerKeyframeError creates a ResolutionError for a missing lower keyframe.
func NewNoLowerKeyframeError(time float64) *ResolutionError {
	return &ResolutionError{
		Code:    ErrCodeNoLowerKeyframe,
		Message: "no keyframe at or before the requested time",
		Time:    time,
	}
}

// NewNoUpperKeyframeError creates a ResolutionError for a missing upper keyframe.
func NewNoUpperKeyframeError(time float64) *ResolutionError {
	return &ResolutionError{
		Code:    ErrCodeNoUpperKeyframe,
		Message: "no keyframe at or after the requested time",
		Time:    time,
	}
}

// NewTypeMismatchError creates a ResolutionError for mismatched value types.
func NewTypeMismatchError(time float64, lower, upper any) *ResolutionError {
	return &ResolutionError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("keyframe values have different types (%T vs %T)", lower, upper),
		Time:    time,
	}
}

// NewShapeMismatchError creates a ResolutionError for mismatched composite shapes.
func NewShapeMismatchError(a, b any) *ResolutionError {
	return &ResolutionError{
		Code:    ErrCodeShapeMismatch,
		Message: fmt.Sprintf("composite values have different shapes (%T vs %T)", a, b),
	}
}
