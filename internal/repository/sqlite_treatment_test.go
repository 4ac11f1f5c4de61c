package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCompany(t *testing.T, db *sql.DB, name string) *domain.Company {
	t.Helper()
	c := testutil.NewTestCompany(name)
	require.NoError(t, NewSQLiteCompanyRepo(db).Create(context.Background(), c))
	return c
}

func TestTreatmentRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)
	ctx := context.Background()
	company := seedCompany(t, db, "Sonrisas")

	tr := testutil.NewTestTreatment(company.ID, "Corona", testutil.WithCost("1800.50"), testutil.WithColor("#ef4444"))
	require.NoError(t, repo.Create(ctx, tr))

	fetched, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corona", fetched.Name)
	assert.Equal(t, company.ID, fetched.CompanyID)
	assert.True(t, fetched.Cost.Equal(decimal.RequireFromString("1800.5")))
	assert.Equal(t, "bg-[#ef4444]", fetched.BgClass)
	assert.True(t, fetched.IsActive)
	assert.True(t, tr.CreatedAt.Equal(fetched.CreatedAt))
}

func TestTreatmentRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreatmentRepo_GetByName_IsExact(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)
	ctx := context.Background()
	company := seedCompany(t, db, "Sonrisas")
	require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(company.ID, "Extracción")))

	fetched, err := repo.GetByName(ctx, company.ID, "Extracción")
	require.NoError(t, err)
	assert.Equal(t, "Extracción", fetched.Name)

	_, err = repo.GetByName(ctx, company.ID, "extracción")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreatmentRepo_DuplicateNamePerCompany(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)
	ctx := context.Background()
	a := seedCompany(t, db, "A")
	b := seedCompany(t, db, "B")

	require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(a.ID, "Corona")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(b.ID, "Corona")))

	err := repo.Create(ctx, testutil.NewTestTreatment(a.ID, "Corona"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTreatmentRepo_ListByCompany_SortedByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)
	ctx := context.Background()
	a := seedCompany(t, db, "A")
	b := seedCompany(t, db, "B")

	for _, name := range []string{"Resina", "Corona", "Limpieza"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(a.ID, name)))
	}
	require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(b.ID, "Amalgama")))

	list, err := repo.ListByCompany(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Corona", list[0].Name)
	assert.Equal(t, "Limpieza", list[1].Name)
	assert.Equal(t, "Resina", list[2].Name)
}

func TestTreatmentRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)
	ctx := context.Background()
	company := seedCompany(t, db, "Sonrisas")
	tr := testutil.NewTestTreatment(company.ID, "Corona")
	require.NoError(t, repo.Create(ctx, tr))

	tr.Cost = decimal.NewFromInt(2100)
	tr.IsActive = false
	tr.Description = "Corona de porcelana"
	require.NoError(t, repo.Update(ctx, tr))

	fetched, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Cost.Equal(decimal.NewFromInt(2100)))
	assert.False(t, fetched.IsActive)
	assert.Equal(t, "Corona de porcelana", fetched.Description)

	missing := testutil.NewTestTreatment(company.ID, "Fantasma")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestTreatmentRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTreatmentRepo(db)
	ctx := context.Background()
	company := seedCompany(t, db, "Sonrisas")
	tr := testutil.NewTestTreatment(company.ID, "Corona")
	require.NoError(t, repo.Create(ctx, tr))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(company.ID, "Resina")))

	require.NoError(t, repo.Delete(ctx, tr.ID))
	_, err := repo.GetByID(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, tr.ID), ErrNotFound)

	n, err := repo.DeleteByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
