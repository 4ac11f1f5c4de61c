package gormrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/dentalmark/dentalmark/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCompany(t *testing.T, s *Store, name string) *domain.Company {
	t.Helper()
	c := testutil.NewTestCompany(name)
	require.NoError(t, s.Companies().Create(context.Background(), c))
	return c
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: "5432", Username: "dm", Password: "pw", Database: "dentalmark"}
	assert.Equal(t, "host=db port=5432 user=dm password=pw dbname=dentalmark sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestTreatmentRepo_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Sonrisas")
	repo := s.Treatments()

	tr := testutil.NewTestTreatment(c.ID, "Corona", testutil.WithCost("1800.5"))
	require.NoError(t, repo.Create(ctx, tr))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTreatment(c.ID, "Amalgama")))

	fetched, err := repo.GetByName(ctx, c.ID, "Corona")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, fetched.ID)
	assert.True(t, fetched.Cost.Equal(decimal.RequireFromString("1800.5")))

	list, err := repo.ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Amalgama", list[0].Name)

	tr.IsActive = false
	tr.Cost = decimal.NewFromInt(2000)
	require.NoError(t, repo.Update(ctx, tr))
	fetched, err = repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
	assert.True(t, fetched.Cost.Equal(decimal.NewFromInt(2000)))

	require.NoError(t, repo.Delete(ctx, tr.ID))
	_, err = repo.GetByID(ctx, tr.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, tr.ID), repository.ErrNotFound)
}

func TestTreatmentRepo_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Sonrisas")

	require.NoError(t, s.Treatments().Create(ctx, testutil.NewTestTreatment(c.ID, "Corona")))
	err := s.Treatments().Create(ctx, testutil.NewTestTreatment(c.ID, "Corona"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCompanyRepo_ListsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := testutil.NewTestCompany("Sonrisas", testutil.WithCertifications("Cédula 1", "Cédula 2"))
	require.NoError(t, s.Companies().Create(ctx, c))

	fetched, err := s.Companies().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cédula 1", "Cédula 2"}, fetched.Certifications)
	assert.Empty(t, fetched.Licenses)

	c.Licenses = []string{"Licencia sanitaria"}
	c.IsActive = false
	require.NoError(t, s.Companies().Update(ctx, c))
	fetched, err = s.Companies().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Licencia sanitaria"}, fetched.Licenses)
	assert.False(t, fetched.IsActive)

	_, err = s.Companies().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepo_CompanyAssignment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCompany(t, s, "Sonrisas")

	u := testutil.NewTestUser("Laura", testutil.WithCompany(c.ID))
	require.NoError(t, s.Users().Create(ctx, u))
	free := testutil.NewTestUser("Pedro")
	require.NoError(t, s.Users().Create(ctx, free))

	members, err := s.Users().ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, u.ID, members[0].ID)

	free.CompanyID = c.ID
	free.Role = domain.RoleAdmin
	require.NoError(t, s.Users().Update(ctx, free))
	fetched, err := s.Users().GetByEmail(ctx, free.Email)
	require.NoError(t, err)
	assert.Equal(t, c.ID, fetched.CompanyID)
	assert.Equal(t, domain.RoleAdmin, fetched.Role)

	n, err := s.Users().DeleteByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	c := testutil.NewTestCompany("Sonrisas")
	err := s.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Companies().Create(ctx, c); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.Companies().GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
