package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Treatment struct {
	ID          string
	CompanyID   string
	Name        string
	Color       string
	BgClass     string
	Cost        decimal.Decimal
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TreatmentInput struct {
	Name        string          `json:"name" validate:"notblank,max=80"`
	Color       string          `json:"color" validate:"required,hexcolor"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Description string          `json:"description" validate:"max=500"`
}

// TreatmentFilter narrows catalog listings. Nil fields do not filter.
type TreatmentFilter struct {
	Search   string
	IsActive *bool
	MinCost  *decimal.Decimal
	MaxCost  *decimal.Decimal
}

// Matches reports whether t passes every set criterion.
func (f TreatmentFilter) Matches(t *Treatment) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if f.IsActive != nil && t.IsActive != *f.IsActive {
		return false
	}
	if f.MinCost != nil && t.Cost.LessThan(*f.MinCost) {
		return false
	}
	if f.MaxCost != nil && t.Cost.GreaterThan(*f.MaxCost) {
		return false
	}
	return true
}

// Apply copies the input fields onto t and refreshes the derived style class.
func (t *Treatment) Apply(in TreatmentInput, now time.Time) {
	t.Name = strings.TrimSpace(in.Name)
	t.Color = strings.ToLower(in.Color)
	t.BgClass = BgClassFor(t.Color)
	t.Cost = in.Cost
	t.Description = in.Description
	t.UpdatedAt = now
}

// BgClassFor derives the background style class used by list views from a
// hex color token.
func BgClassFor(color string) string {
	c := strings.TrimPrefix(strings.ToLower(color), "#")
	if c == "" {
		return "bg-gray"
	}
	return "bg-[#" + c + "]"
}
