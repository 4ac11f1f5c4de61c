package service

import (
	"context"
	"testing"

	"github.com/dentalmark/dentalmark/internal/budget"
	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/repository"
	"github.com/dentalmark/dentalmark/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ budget.CostLookup = (*Catalog)(nil)

func seedCompany(t *testing.T, store repository.Store) *domain.Company {
	t.Helper()
	c := testutil.NewTestCompany("Sonrisas")
	require.NoError(t, store.Companies().Create(context.Background(), c))
	return c
}

func input(name, color string, cost int64) domain.TreatmentInput {
	return domain.TreatmentInput{Name: name, Color: color, Cost: decimal.NewFromInt(cost)}
}

func TestTreatmentService_Add(t *testing.T) {
	store, v := setupStore(t)
	obs := &recordingObserver{}
	svc := NewTreatmentService(store, v, obs)
	ctx := context.Background()
	c := seedCompany(t, store)

	tr, err := svc.Add(ctx, c.ID, input("  Corona ", "#EF4444", 1800))
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID, "UUID should be generated")
	assert.Equal(t, "Corona", tr.Name)
	assert.Equal(t, "#ef4444", tr.Color)
	assert.Equal(t, "bg-[#ef4444]", tr.BgClass)
	assert.True(t, tr.IsActive, "new treatments start active")

	fetched, err := svc.GetByName(ctx, c.ID, "Corona")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, fetched.ID)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "add-treatment", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
}

func TestTreatmentService_Add_Invalid(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)
	c := seedCompany(t, store)

	_, err := svc.Add(context.Background(), c.ID, input("", "blue", -1))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestTreatmentService_Add_UnknownCompany(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)

	_, err := svc.Add(context.Background(), "missing", input("Corona", "#fff", 10))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTreatmentService_Add_Duplicate(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)
	ctx := context.Background()
	c := seedCompany(t, store)

	_, err := svc.Add(ctx, c.ID, input("Corona", "#fff", 10))
	require.NoError(t, err)
	_, err = svc.Add(ctx, c.ID, input("Corona", "#000", 20))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTreatmentService_UpdateAndToggle(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)
	ctx := context.Background()
	c := seedCompany(t, store)

	tr, err := svc.Add(ctx, c.ID, input("Corona", "#fff", 10))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, tr.ID, domain.TreatmentInput{
		Name: "Corona de porcelana", Color: "#ffffff", Cost: decimal.RequireFromString("2500.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Corona de porcelana", updated.Name)

	fetched, err := svc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Cost.Equal(decimal.RequireFromString("2500.5")))

	toggled, err := svc.ToggleStatus(ctx, tr.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	toggled, err = svc.ToggleStatus(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = svc.Update(ctx, "missing", input("X", "#fff", 1))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTreatmentService_ListFiltersAndSorts(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)
	ctx := context.Background()
	c := seedCompany(t, store)

	for _, in := range []domain.TreatmentInput{
		input("Resina", "#111", 700),
		input("Corona", "#222", 1800),
		input("Limpieza", "#333", 400),
	} {
		_, err := svc.Add(ctx, c.ID, in)
		require.NoError(t, err)
	}
	resina, err := svc.GetByName(ctx, c.ID, "Resina")
	require.NoError(t, err)
	_, err = svc.ToggleStatus(ctx, resina.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx, c.ID, domain.TreatmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Corona", "Limpieza", "Resina"}, names(all))

	active, err := svc.ListActive(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Corona", "Limpieza"}, names(active))

	minCost := decimal.NewFromInt(500)
	pricey, err := svc.List(ctx, c.ID, domain.TreatmentFilter{MinCost: &minCost})
	require.NoError(t, err)
	assert.Equal(t, []string{"Corona", "Resina"}, names(pricey))

	search, err := svc.List(ctx, c.ID, domain.TreatmentFilter{Search: "lim"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Limpieza"}, names(search))
}

func names(ts []*domain.Treatment) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func TestTreatmentService_Catalog(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)
	ctx := context.Background()
	c := seedCompany(t, store)

	_, err := svc.Add(ctx, c.ID, input("Extracción", "#f00", 1000))
	require.NoError(t, err)
	crown, err := svc.Add(ctx, c.ID, input("Corona", "#00f", 1800))
	require.NoError(t, err)
	retired, err := svc.Add(ctx, c.ID, input("Amalgama", "#999", 300))
	require.NoError(t, err)
	_, err = svc.ToggleStatus(ctx, retired.ID)
	require.NoError(t, err)

	cat, err := svc.Catalog(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.True(t, cat.TreatmentCost("Corona").Equal(crown.Cost))
	assert.True(t, cat.TreatmentCost("Extracción").Equal(decimal.NewFromInt(1000)))
	assert.True(t, cat.TreatmentCost("Amalgama").IsZero(), "inactive entries are not priced")
	assert.True(t, cat.TreatmentCost("Desconocido").IsZero())

	_, ok := cat.Lookup("Corona")
	assert.True(t, ok)
	assert.Equal(t, []string{"Corona", "Extracción"}, names(cat.Treatments()))
}

func TestTreatmentService_Delete(t *testing.T) {
	store, v := setupStore(t)
	svc := NewTreatmentService(store, v)
	ctx := context.Background()
	c := seedCompany(t, store)

	tr, err := svc.Add(ctx, c.ID, input("Corona", "#fff", 10))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, tr.ID))
	assert.ErrorIs(t, svc.Delete(ctx, tr.ID), repository.ErrNotFound)
}
