package service

import (
	"sort"

	"github.com/dentalmark/dentalmark/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog is an immutable snapshot of a company's active treatments keyed
// by exact name. It prices budget lines.
type Catalog struct {
	byName  map[string]*domain.Treatment
	ordered []*domain.Treatment
}

// NewCatalog builds a catalog from ts, skipping inactive entries.
func NewCatalog(ts []*domain.Treatment) *Catalog {
	c := &Catalog{byName: make(map[string]*domain.Treatment, len(ts))}
	for _, t := range ts {
		if !t.IsActive {
			continue
		}
		cp := *t
		c.byName[cp.Name] = &cp
		c.ordered = append(c.ordered, &cp)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		return c.ordered[i].Name < c.ordered[j].Name
	})
	return c
}

// TreatmentCost returns the unit cost of name, zero when it is not listed.
func (c *Catalog) TreatmentCost(name string) decimal.Decimal {
	if t, ok := c.byName[name]; ok {
		return t.Cost
	}
	return decimal.Zero
}

func (c *Catalog) Lookup(name string) (*domain.Treatment, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Treatments returns the entries sorted by name.
func (c *Catalog) Treatments() []*domain.Treatment {
	out := make([]*domain.Treatment, len(c.ordered))
	copy(out, c.ordered)
	return out
}

func (c *Catalog) Len() int { return len(c.ordered) }
