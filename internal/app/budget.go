package app

import (
	"github.com/dentalmark/dentalmark/internal/domain"
)

// ImageInput is one image attached to the visit, in upload order.
type ImageInput struct {
	Name string
	Data []byte
}

// MarkOp places the named treatment at surface coordinates (X, Y) of the
// image at position Image in AnnotateRequest.Images.
type MarkOp struct {
	Image     int
	Treatment string
	X, Y      float64
}

// SelectOp clicks at (X, Y) and, when Delete is set, removes the marker it hit.
type SelectOp struct {
	Image  int
	X, Y   float64
	Delete bool
}

type AnnotateRequest struct {
	CompanyID string
	Patient   domain.Patient
	Images    []ImageInput
	Marks     []MarkOp
	Selects   []SelectOp
	// ClearImages lists image positions whose markers are all removed after
	// the marks and selections ran.
	ClearImages []int
	// SessionCount overrides the suggested number of payment sessions when > 0.
	SessionCount int
	Snapshots    bool
}

// MarkResult reports what a MarkOp did: placed a new marker, or selected an
// existing one under the pointer.
type MarkResult struct {
	Op       MarkOp
	MarkerID string
	Selected bool
}

type AnnotateResponse struct {
	Patient      domain.Patient
	Summary      domain.Summary
	Doctor       domain.DoctorInfo
	Observations string
	Images       int
	Marks        []MarkResult
	Deleted      []domain.Marker
	// Snapshots holds PNG renders keyed by image position, when requested.
	Snapshots map[int][]byte
	Warnings  []string
}
