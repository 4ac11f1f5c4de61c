package service

import (
	"context"
	"testing"

	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/dentalmark/dentalmark/internal/testutil"
	"github.com/dentalmark/dentalmark/internal/validation"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (repository.Store, Validator) {
	t.Helper()
	db := testutil.NewTestDB(t)
	v, err := newTestValidator()
	require.NoError(t, err)
	return repository.NewSQLiteStore(db), v
}

func newTestValidator() (Validator, error) {
	return validation.New()
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
