package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/dentalmark/dentalmark/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_CreateAndList(t *testing.T) {
	store, v := setupStore(t)
	svc := NewCompanyService(store, v, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.CompanyInput{Name: "Beta Dental", OwnerName: "Laura Méndez"})
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	_, err = svc.Create(ctx, domain.CompanyInput{Name: "Alfa Dental", Email: "hola@alfa.mx"})
	require.NoError(t, err)

	all, err := svc.List(ctx, domain.CompanyFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alfa Dental", all[0].Name)

	found, err := svc.List(ctx, domain.CompanyFilter{Search: "laura"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	_, err = svc.Create(ctx, domain.CompanyInput{Name: " ", Email: "nope"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCompanyService_UpdateAndToggle(t *testing.T) {
	store, v := setupStore(t)
	svc := NewCompanyService(store, v, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, domain.CompanyInput{Name: "Sonrisas"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, domain.CompanyInput{
		Name:           "Sonrisas Felices",
		Certifications: []string{"Cédula 1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sonrisas Felices", updated.Name)

	fetched, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cédula 1"}, fetched.Certifications)

	toggled, err := svc.ToggleStatus(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	inactive := false
	list, err := svc.List(ctx, domain.CompanyFilter{IsActive: &inactive})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompanyService_DeleteCascades(t *testing.T) {
	store, v := setupStore(t)
	svc := NewCompanyService(store, v, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, domain.CompanyInput{Name: "Sonrisas"})
	require.NoError(t, err)
	require.NoError(t, store.Treatments().Create(ctx, testutil.NewTestTreatment(c.ID, "Corona")))
	u := testutil.NewTestUser("Laura", testutil.WithCompany(c.ID))
	require.NoError(t, store.Users().Create(ctx, u))
	other := testutil.NewTestUser("Pedro")
	require.NoError(t, store.Users().Create(ctx, other))

	require.NoError(t, svc.Delete(ctx, c.ID))

	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	list, err := store.Treatments().ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = store.Users().GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.Users().GetByID(ctx, other.ID)
	assert.NoError(t, err, "users of other companies are kept")

	assert.ErrorIs(t, svc.Delete(ctx, c.ID), repository.ErrNotFound)
}

func TestCompanyService_DoctorInfo(t *testing.T) {
	store, v := setupStore(t)
	svc := NewCompanyService(store, v, nil)
	ctx := context.Background()

	assert.Equal(t, domain.DefaultDoctorInfo, svc.DoctorInfo(ctx, ""))
	assert.Equal(t, domain.DefaultDoctorInfo, svc.DoctorInfo(ctx, "missing"))

	c := testutil.NewTestCompany("Sonrisas",
		testutil.WithOwner("Laura Méndez", ""),
		testutil.WithCertifications("Consejo Mexicano de Ortodoncia"))
	c.Licenses = []string{"Cédula 123"}
	require.NoError(t, store.Companies().Create(ctx, c))

	info := svc.DoctorInfo(ctx, c.ID)
	assert.Equal(t, "Laura Méndez", info.Name)
	assert.Equal(t, "LM", info.Initials)
	assert.Equal(t, domain.DefaultDoctorInfo.Specialty, info.Specialty, "empty fields fall back individually")
	assert.Equal(t, []string{"Consejo Mexicano de Ortodoncia", "Cédula 123"}, info.Certifications)
}

func TestCompanyService_ImportantObservations(t *testing.T) {
	store, v := setupStore(t)
	svc := NewCompanyService(store, v, nil)
	ctx := context.Background()

	assert.Equal(t, domain.DefaultImportantObservations, svc.ImportantObservations(ctx, "missing"))

	plain := testutil.NewTestCompany("Sin notas")
	require.NoError(t, store.Companies().Create(ctx, plain))
	assert.Equal(t, domain.DefaultImportantObservations, svc.ImportantObservations(ctx, plain.ID))

	custom := testutil.NewTestCompany("Con notas", testutil.WithObservations("Ayuno de 4 horas."))
	require.NoError(t, store.Companies().Create(ctx, custom))
	assert.Equal(t, "Ayuno de 4 horas.", svc.ImportantObservations(ctx, custom.ID))
}

func TestCompanyService_DeleteRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	v, err := newTestValidator()
	require.NoError(t, err)
	errDisk := errors.New("disk full")
	store := repository.NewSQLiteStoreWithUoW(database, &testutil.FailingUoW{DB: database, FailOn: 2, Err: errDisk})
	svc := NewCompanyService(store, v, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, domain.CompanyInput{Name: "Sonrisas"})
	require.NoError(t, err)
	require.NoError(t, store.Treatments().Create(ctx, testutil.NewTestTreatment(c.ID, "Corona")))
	u := testutil.NewTestUser("Laura", testutil.WithCompany(c.ID))
	require.NoError(t, store.Users().Create(ctx, u))

	// Write 1 clears the catalog, write 2 (users) fails.
	require.ErrorIs(t, svc.Delete(ctx, c.ID), errDisk)

	_, err = svc.Get(ctx, c.ID)
	assert.NoError(t, err)
	list, err := store.Treatments().ListByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "catalog delete rolled back")
	_, err = store.Users().GetByID(ctx, u.ID)
	assert.NoError(t, err)
}
