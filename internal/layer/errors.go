package layer

import (
	"errors"
	"fmt"
)

// ConfigurationError represents an invalid layer configuration detected at
// construction time.
//
// Configuration errors include:
//   - Unknown option: an option name no default recognizes
//   - Invalid duration: a negative explicit or derived duration
//   - Invalid value: an option value of an unusable type
type ConfigurationError struct {
	// Code identifies the error category.
	Code ConfigurationErrorCode

	// Message is a human-readable description.
	Message string

	// Layer identifies the layer kind being configured.
	Layer string

	// Option names the offending option, when one exists.
	Option string
}

// ConfigurationErrorCode categorizes configuration errors.
type ConfigurationErrorCode string

const (
	// ErrCodeUnknownOption indicates an unrecognized option name.
	ErrCodeUnknownOption ConfigurationErrorCode = "UNKNOWN_OPTION"

	// ErrCodeInvalidDuration indicates a negative explicit or derived duration.
	ErrCodeInvalidDuration ConfigurationErrorCode = "INVALID_DURATION"

	// ErrCodeInvalidValue indicates an option value of an unusable type.
	ErrCodeInvalidValue ConfigurationErrorCode = "INVALID_VALUE"
)

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("%s: %s (layer=%s, option=%s)", e.Code, e.Message, e.Layer, e.Option)
	}
	return fmt.Sprintf("%s: %s (layer=%s)", e.Code, e.Message, e.Layer)
}

// IsUnknownOption returns true if the error is an unknown-option error.
// Uses errors.As to handle wrapped errors.
func IsUnknownOption(err error) bool {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnknownOption
	}
	return false
}

// IsInvalidDuration returns true if the error is an invalid-duration error.
func IsInvalidDuration(err error) bool {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidDuration
	}
	return false
}

// NewUnknownOptionError creates a ConfigurationError for an unrecognized option.
func NewUnknownOptionError(layerKind, option string) *ConfigurationError {
	return &ConfigurationError{
		Code:    ErrCodeUnknownOption,
		Message: "unrecognized option name",
		Layer:   layerKind,
		Option:  option,
	}
}

// NewInvalidDurationError creates a ConfigurationError for a negative duration.
func NewInvalidDurationError(layerKind string, duration float64) *ConfigurationError {
	return &ConfigurationError{
		Code:    ErrCodeInvalidDuration,
		Message: fmt.Sprintf("duration must be non-negative, got %g", duration),
		Layer:   layerKind,
		Option:  "duration",
	}
}

// NewInvalidValueError creates a ConfigurationError for an unusable option value.
func NewInvalidValueError(layerKind, option, reason string) *ConfigurationError {
	return &ConfigurationError{
		Code:    ErrCodeInvalidValue,
		Message: reason,
		Layer:   layerKind,
		Option:  option,
	}
}

// MediaError represents a failure of the media binding: the bound resource
// reports a state that makes the required computation impossible.
type MediaError struct {
	// Code identifies the error category.
	Code MediaErrorCode

	// Message is a human-readable description.
	Message string

	// Layer identifies the owning layer kind.
	Layer string
}

// MediaErrorCode categorizes media binding errors.
type MediaErrorCode string

const (
	// ErrCodeNegativeDerivedDuration indicates the resource duration minus
	// the media start offset is negative.
	ErrCodeNegativeDerivedDuration MediaErrorCode = "NEGATIVE_DERIVED_DURATION"
)

// Error implements the error interface.
func (e *MediaError) Error() string {
	return fmt.Sprintf("%s: %s (layer=%s)", e.Code, e.Message, e.Layer)
}

// IsNegativeDerivedDuration returns true if the error reports a negative
// derived media duration.
func IsNegativeDerivedDuration(err error) bool {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Code == ErrCodeNegativeDerivedDuration
	}
	return false
}

// NewNegativeDerivedDurationError creates a MediaError for an impossible
// derived duration.
func NewNegativeDerivedDurationError(layerKind string, derived float64) *MediaError {
	return &MediaError{
		Code:    ErrCodeNegativeDerivedDuration,
		Message: fmt.Sprintf("resource duration minus media start yields %g", derived),
		Layer:   layerKind,
	}
}
