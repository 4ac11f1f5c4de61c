package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidSessionCount = errors.New("session count must be at least 1")
	ErrImageDecode         = errors.New("unsupported or corrupt image")
	ErrSurfaceNotReady     = errors.New("surface has no image loaded")
	ErrMarkerNotFound      = errors.New("marker not found")
	ErrSlotNotFound        = errors.New("image slot not found")
	ErrStaleLoad           = errors.New("image load completed for a slot that no longer exists")
	ErrForbidden           = errors.New("operation requires an administrator")
)

// NoticeSelectTreatment is shown when the user clicks the surface with no
// treatment armed.
const NoticeSelectTreatment = "select a treatment first"

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError groups the field errors of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}
