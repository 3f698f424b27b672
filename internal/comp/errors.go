package comp

import (
	"errors"
	"fmt"
)

// Document error codes.
const (
	ErrCodeParseFailed      = "PARSE_FAILED"
	ErrCodeSchemaViolation  = "SCHEMA_VIOLATION"
	ErrCodeUnknownLayerType = "UNKNOWN_LAYER_TYPE"
	ErrCodeMediaUnavailable = "MEDIA_UNAVAILABLE"
)

// DocumentError is a failure loading, validating, or building a
// composition document.
type DocumentError struct {
	Code    string
	Message string

	// Path locates the failing element ("layers[2].type") when known.
	Path string
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsSchemaViolation reports whether err is a schema validation failure.
func IsSchemaViolation(err error) bool {
	var de *DocumentError
	return errors.As(err, &de) && de.Code == ErrCodeSchemaViolation
}

// IsUnknownLayerType reports whether err names an unrecognized layer type.
func IsUnknownLayerType(err error) bool {
	var de *DocumentError
	return errors.As(err, &de) && de.Code == ErrCodeUnknownLayerType
}

// NewParseError constructs a PARSE_FAILED error.
func NewParseError(message string) *DocumentError {
	return &DocumentError{Code: ErrCodeParseFailed, Message: message}
}

// NewSchemaError constructs a SCHEMA_VIOLATION error.
func NewSchemaError(path, message string) *DocumentError {
	return &DocumentError{Code: ErrCodeSchemaViolation, Path: path, Message: message}
}

// NewUnknownLayerTypeError constructs an UNKNOWN_LAYER_TYPE error.
func NewUnknownLayerTypeError(path, typ string) *DocumentError {
	return &DocumentError{
		Code:    ErrCodeUnknownLayerType,
		Path:    path,
		Message: fmt.Sprintf("unrecognized layer type %q", typ),
	}
}

// NewMediaError constructs a MEDIA_UNAVAILABLE error.
func NewMediaError(path, message string) *DocumentError {
	return &DocumentError{Code: ErrCodeMediaUnavailable, Path: path, Message: message}
}
