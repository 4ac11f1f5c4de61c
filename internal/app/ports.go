package app

import (
	"context"
)

// AnnotateUseCase replays a visit's image annotations and prices the result.
type AnnotateUseCase interface {
	Annotate(ctx context.Context, req AnnotateRequest) (*AnnotateResponse, error)
}
