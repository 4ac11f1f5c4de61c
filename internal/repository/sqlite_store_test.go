package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/dentalmark/dentalmark/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_WithinTxCommits(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewSQLiteStoreWithUoW(db, testutil.NewTestUoW(db))
	ctx := context.Background()

	c := testutil.NewTestCompany("Sonrisas")
	err := store.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Companies().Create(ctx, c); err != nil {
			return err
		}
		return tx.Treatments().Create(ctx, testutil.NewTestTreatment(c.ID, "Corona"))
	})
	require.NoError(t, err)

	list, err := store.Treatments().ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLiteStore_WithinTxRollsBackOnFailure(t *testing.T) {
	db := testutil.NewTestDB(t)
	errInjected := errors.New("injected")
	store := NewSQLiteStoreWithUoW(db, &testutil.FailingUoW{DB: db, FailOn: 2, Err: errInjected})
	ctx := context.Background()

	c := testutil.NewTestCompany("Sonrisas")
	err := store.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Companies().Create(ctx, c); err != nil {
			return err
		}
		return tx.Treatments().Create(ctx, testutil.NewTestTreatment(c.ID, "Corona"))
	})
	require.ErrorIs(t, err, errInjected)

	_, err = store.Companies().GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`)))
	assert.False(t, IsUniqueViolation(errors.New("no such table")))
	assert.False(t, IsUniqueViolation(nil))
}
