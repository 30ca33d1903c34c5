package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

// resolveCompany accepts a company name (case-insensitive), a full ID or a
// unique ID prefix.
func resolveCompany(ctx context.Context, app *App, input string) (*domain.Company, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("company is required")
	}
	companies, err := app.Companies.List(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Exact ID
	for _, c := range companies {
		if c.ID == input {
			return c, nil
		}
	}

	// 2. Name
	for _, c := range companies {
		if strings.EqualFold(c.Name, input) {
			return c, nil
		}
	}

	// 3. ID prefix
	var matches []*domain.Company
	for _, c := range companies {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("company not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("company ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveShiftID accepts a full shift ID or a unique prefix.
func resolveShiftID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("shift ID is required")
	}
	shifts, err := app.Shifts.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, sh := range shifts {
		if sh.ID == input {
			return sh.ID, nil
		}
		if strings.HasPrefix(sh.ID, input) {
			matches = append(matches, sh.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("shift not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("shift ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// companyIndex maps company IDs to companies.
func companyIndex(companies []*domain.Company) map[string]*domain.Company {
	out := make(map[string]*domain.Company, len(companies))
	for _, c := range companies {
		out[c.ID] = c
	}
	return out
}
