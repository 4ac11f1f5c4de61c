package budget

import (
	"testing"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/dentalmark/dentalmark/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func costs(prices map[string]int64) CostLookup {
	return CostFunc(func(name string) decimal.Decimal {
		if p, ok := prices[name]; ok {
			return decimal.NewFromInt(p)
		}
		return decimal.Zero
	})
}

func newEngine(t *testing.T, prices map[string]int64) (*Engine, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	e, err := New(costs(prices), rec, WithMeter(noop.Meter{}))
	require.NoError(t, err)
	return e, rec
}

func marker(id, name string, image int) domain.Marker {
	return domain.Marker{ID: id, TreatmentName: name, ImageIndex: image, Color: "#f00"}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLines_GroupsByNameInFirstSeenOrder(t *testing.T) {
	e, _ := newEngine(t, map[string]int64{"Extraction": 1000, "Crown": 1800})
	e.RecordMarker(marker("a", "Extraction", 0))
	e.RecordMarker(marker("b", "Crown", 0))
	e.RecordMarker(marker("c", "Extraction", 1))

	lines := e.ComputeLines()
	require.Len(t, lines, 2)

	assert.Equal(t, "Extraction", lines[0].TreatmentName)
	assert.Equal(t, 2, lines[0].Count)
	assert.True(t, lines[0].UnitCost.Equal(dec("1000")))
	assert.True(t, lines[0].LineTotal.Equal(dec("2000")))

	assert.Equal(t, "Crown", lines[1].TreatmentName)
	assert.Equal(t, 1, lines[1].Count)
	assert.True(t, lines[1].LineTotal.Equal(dec("1800")))

	assert.True(t, e.GrandTotal().Equal(dec("3800")))
	assert.Equal(t, 1, e.SuggestedSessionCount())
}

func TestComputeLines_UnknownTreatmentCostsZero(t *testing.T) {
	e, _ := newEngine(t, nil)
	e.RecordMarker(marker("a", "Unknown", 0))

	lines := e.ComputeLines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Count)
	assert.True(t, lines[0].UnitCost.IsZero())
	assert.True(t, lines[0].LineTotal.IsZero())
	assert.True(t, e.GrandTotal().IsZero())
}

func TestComputeLines_NamesAreExactKeys(t *testing.T) {
	e, _ := newEngine(t, map[string]int64{"Crown": 100})
	e.RecordMarker(marker("a", "Crown", 0))
	e.RecordMarker(marker("b", "crown", 0))

	lines := e.ComputeLines()
	require.Len(t, lines, 2)
	assert.True(t, lines[1].UnitCost.IsZero())
}

func TestLineInvariants(t *testing.T) {
	e, _ := newEngine(t, map[string]int64{"A": 250, "B": 999, "C": 1})
	names := []string{"A", "B", "A", "C", "B", "A"}
	for i, n := range names {
		e.RecordMarker(marker(string(rune('a'+i)), n, i%2))
	}

	lines := e.ComputeLines()
	count := 0
	sum := decimal.Zero
	for _, l := range lines {
		assert.True(t, l.LineTotal.Equal(l.UnitCost.Mul(decimal.NewFromInt(int64(l.Count)))))
		count += l.Count
		sum = sum.Add(l.LineTotal)
	}
	assert.Equal(t, e.Len(), count)
	assert.True(t, e.GrandTotal().Equal(sum))
}

func TestRecordMarker_IsIdempotent(t *testing.T) {
	e, rec := newEngine(t, map[string]int64{"Crown": 1800})
	m := marker("a", "Crown", 0)
	e.RecordMarker(m)
	e.RecordMarker(m)

	assert.Equal(t, 1, e.Len())
	assert.Len(t, rec.Events(), 1, "a duplicate record changes nothing")
}

func TestRemoveMarker_IsIdempotent(t *testing.T) {
	e, rec := newEngine(t, map[string]int64{"Crown": 1800})
	e.RecordMarker(marker("a", "Crown", 0))
	e.RecordMarker(marker("b", "Crown", 0))
	rec.Reset()

	e.RemoveMarker("a")
	e.RemoveMarker("a")
	e.RemoveMarker("missing")

	assert.Equal(t, []domain.Marker{marker("b", "Crown", 0)}, e.Markers())
	assert.Len(t, rec.Events(), 1)

	// The index still points at the right element after a removal.
	e.RemoveMarker("b")
	assert.Zero(t, e.Len())
}

func TestRemoveAllForImage(t *testing.T) {
	e, _ := newEngine(t, nil)
	e.RecordMarker(marker("a", "X", 0))
	e.RecordMarker(marker("b", "X", 1))
	e.RecordMarker(marker("c", "Y", 0))
	e.RecordMarker(marker("d", "Y", 2))
	before := e.Markers()

	removed := e.RemoveAllForImage(0)
	assert.Equal(t, 2, removed)

	var want []domain.Marker
	for _, m := range before {
		if m.ImageIndex != 0 {
			want = append(want, m)
		}
	}
	assert.ElementsMatch(t, want, e.Markers())
	assert.Empty(t, e.MarkersForImage(0))
	assert.Equal(t, []int{1, 2}, e.ImageIndexes())

	assert.Zero(t, e.RemoveAllForImage(7))
	e.RemoveMarker("b")
	assert.Equal(t, []domain.Marker{marker("d", "Y", 2)}, e.Markers())
}

func TestSuggestedSessionCount(t *testing.T) {
	tests := []struct {
		total string
		want  int
	}{
		{"0", 1},
		{"1", 1},
		{"4300", 1},
		{"4301", 2},
		{"8600", 2},
		{"9000", 3},
	}
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestSessions(dec(tt.total)))
		})
	}
}

func TestComputeSessionPlan(t *testing.T) {
	e, _ := newEngine(t, map[string]int64{"Implant": 9000})
	e.RecordMarker(marker("a", "Implant", 0))

	plan, err := e.ComputeSessionPlan(3)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.SessionCount)
	assert.True(t, plan.AmountPerSession.Equal(dec("3000")))
	assert.Equal(t, 3, e.SuggestedSessionCount())

	plan, err = e.ComputeSessionPlan(4)
	require.NoError(t, err)
	assert.True(t, plan.AmountPerSession.Equal(dec("2250")))

	_, err = e.ComputeSessionPlan(0)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionCount)
	_, err = e.ComputeSessionPlan(-2)
	assert.ErrorIs(t, err, domain.ErrInvalidSessionCount)
}

func TestPlanSessions_AmountTimesCountMatchesTotal(t *testing.T) {
	tolerance := dec("0.000000001")
	totals := []string{"0", "1", "999.99", "1000", "4300", "4301", "9000", "12345.67", "100000"}

	for _, total := range totals {
		for n := 1; n <= 7; n++ {
			plan, err := PlanSessions(dec(total), n)
			require.NoError(t, err)
			assert.Equal(t, n, plan.SessionCount)

			product := plan.AmountPerSession.Mul(decimal.NewFromInt(int64(n)))
			diff := product.Sub(dec(total)).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"total %s over %d sessions: %s * %d = %s", total, n, plan.AmountPerSession, n, product)
		}
	}
}

func TestComputeSessionPlan_SplitsEngineTotal(t *testing.T) {
	e, _ := newEngine(t, map[string]int64{"Extraction": 1000, "Crown": 1800, "Resin": 650})
	e.RecordMarker(marker("a", "Extraction", 0))
	e.RecordMarker(marker("b", "Crown", 0))
	e.RecordMarker(marker("c", "Resin", 1))
	e.RecordMarker(marker("d", "Resin", 2))
	total := e.GrandTotal()
	require.True(t, total.Equal(dec("4100")))

	for n := 1; n <= 7; n++ {
		plan, err := e.ComputeSessionPlan(n)
		require.NoError(t, err)
		product := plan.AmountPerSession.Mul(decimal.NewFromInt(int64(n)))
		assert.True(t, product.Sub(total).Abs().LessThanOrEqual(dec("0.000000001")), "n=%d", n)
	}
}

func TestPlanSessions_DoesNotRound(t *testing.T) {
	plan, err := PlanSessions(dec("1000"), 3)
	require.NoError(t, err)
	assert.Equal(t, "333.3333333333333333", plan.AmountPerSession.String())
}

func TestEmptyEngine(t *testing.T) {
	e, _ := newEngine(t, nil)
	assert.Empty(t, e.ComputeLines())
	assert.True(t, e.GrandTotal().IsZero())
	assert.Equal(t, 1, e.SuggestedSessionCount())

	s := e.Summary()
	assert.Equal(t, 1, s.Plan.SessionCount)
	assert.True(t, s.Plan.AmountPerSession.IsZero())
}

func TestSessionOverride(t *testing.T) {
	e, rec := newEngine(t, map[string]int64{"Implant": 9000})
	e.RecordMarker(marker("a", "Implant", 0))
	rec.Reset()

	require.NoError(t, e.SetSessionCount(2))
	assert.Equal(t, 2, e.SessionCount())

	ev, ok := rec.Last(events.BudgetChanged)
	require.True(t, ok)
	assert.Equal(t, 2, ev.Summary.Plan.SessionCount)
	assert.Equal(t, 3, ev.Summary.Suggested)
	assert.True(t, ev.Summary.Plan.AmountPerSession.Equal(dec("4500")))

	require.NoError(t, e.SetSessionCount(0))
	assert.Equal(t, 3, e.SessionCount())
	assert.ErrorIs(t, e.SetSessionCount(-1), domain.ErrInvalidSessionCount)
}

func TestBudgetChanged_CarriesSummary(t *testing.T) {
	e, rec := newEngine(t, map[string]int64{"Extraction": 1000, "Crown": 1800})
	e.RecordMarker(marker("a", "Extraction", 0))
	e.RecordMarker(marker("b", "Extraction", 0))
	e.RecordMarker(marker("c", "Crown", 0))

	ev, ok := rec.Last(events.BudgetChanged)
	require.True(t, ok)
	require.NotNil(t, ev.Summary)
	assert.Len(t, ev.Summary.Lines, 2)
	assert.True(t, ev.Summary.GrandTotal.Equal(dec("3800")))
	assert.Equal(t, 3, ev.Summary.MarkerCount())
}

func TestHandle_IgnoresUnrelatedKinds(t *testing.T) {
	e, rec := newEngine(t, nil)
	require.NoError(t, e.Handle(events.Noticef(events.LevelInfo, "hi")))
	assert.Empty(t, rec.Events())

	assert.Error(t, e.Handle(events.Event{Kind: events.MarkerPlaced}))
}
