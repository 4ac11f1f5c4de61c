package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dentalmark/dentalmark/internal/domain"
)

type record struct {
	id   string
	name string
}

// resolveID matches input against ids, then names (case-insensitive), then
// unique id prefixes.
func resolveID(kind, input string, records []record) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	for _, r := range records {
		if r.id == input {
			return r.id, nil
		}
	}
	for _, r := range records {
		if strings.EqualFold(r.name, input) {
			return r.id, nil
		}
	}

	var matches []string
	for _, r := range records {
		if strings.HasPrefix(r.id, input) {
			matches = append(matches, r.id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveCompanyID(ctx context.Context, a *App, input string) (string, error) {
	companies, err := a.Companies.List(ctx, domain.CompanyFilter{})
	if err != nil {
		return "", err
	}
	records := make([]record, len(companies))
	for i, c := range companies {
		records[i] = record{id: c.ID, name: c.Name}
	}
	return resolveID("company", input, records)
}

func resolveTreatmentID(ctx context.Context, a *App, input string) (string, error) {
	companyID, err := a.requireCompany(ctx)
	if err != nil {
		return "", err
	}
	ts, err := a.Treatments.List(ctx, companyID, domain.TreatmentFilter{})
	if err != nil {
		return "", err
	}
	records := make([]record, len(ts))
	for i, t := range ts {
		records[i] = record{id: t.ID, name: t.Name}
	}
	return resolveID("treatment", input, records)
}

// resolveUser accepts an email or an ID prefix.
func resolveUser(ctx context.Context, a *App, input string) (*domain.User, error) {
	if strings.Contains(input, "@") {
		return a.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input)))
	}
	users, err := a.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]record, len(users))
	for i, u := range users {
		records[i] = record{id: u.ID, name: u.Email}
	}
	id, err := resolveID("user", input, records)
	if err != nil {
		return nil, err
	}
	return a.Users.Get(ctx, id)
}
