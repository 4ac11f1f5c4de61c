package domain

import "github.com/shopspring/decimal"

// DefaultSessionAmount is the reference amount covered by one payment session.
const DefaultSessionAmount = 4300

type BudgetLine struct {
	TreatmentName string
	Count         int
	UnitCost      decimal.Decimal
	LineTotal     decimal.Decimal
}

type SessionPlan struct {
	SessionCount     int
	AmountPerSession decimal.Decimal
}

// Summary is the full derived budget at one point in time.
type Summary struct {
	Lines      []BudgetLine
	GrandTotal decimal.Decimal
	Suggested  int
	Plan       SessionPlan
}

// MarkerCount returns the number of markers behind the summary's lines.
func (s Summary) MarkerCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Count
	}
	return n
}
