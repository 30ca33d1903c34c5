package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

const companiesPath = "/rest/v1/companies"

// CompanyStore implements repository.CompanyRepo against the hosted
// companies table. The table has no color column, so colors are derived
// from the id on this backend.
type CompanyStore struct {
	client *Client
}

var _ repository.CompanyRepo = (*CompanyStore)(nil)

func NewCompanyStore(client *Client) *CompanyStore {
	return &CompanyStore{client: client}
}

type companyRow struct {
	ID         string      `json:"id,omitempty"`
	UserID     string      `json:"user_id"`
	Name       string      `json:"name"`
	HourlyWage json.Number `json:"hourly_wage"`
	CreatedAt  *time.Time  `json:"created_at,omitempty"`
}

func (r companyRow) toDomain() (*domain.Company, error) {
	wage, err := decimal.NewFromString(r.HourlyWage.String())
	if err != nil {
		return nil, fmt.Errorf("company %s has malformed wage %q: %w", r.ID, r.HourlyWage, err)
	}
	c := &domain.Company{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		HourlyWage: wage,
	}
	if r.CreatedAt != nil {
		c.CreatedAt = *r.CreatedAt
	}
	return c, nil
}

func (s *CompanyStore) List(ctx context.Context, ownerID string) ([]*domain.Company, error) {
	var rows []companyRow
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   companiesPath,
		query:  url.Values{"select": {"*"}, "user_id": {eq(ownerID)}, "order": {"name.asc"}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	return companiesFromRows(rows)
}

func (s *CompanyStore) GetByID(ctx context.Context, ownerID, id string) (*domain.Company, error) {
	var rows []companyRow
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   companiesPath,
		query:  url.Values{"select": {"*"}, "id": {eq(id)}, "user_id": {eq(ownerID)}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching company: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("company %s: %w", id, repository.ErrNotFound)
	}
	return rows[0].toDomain()
}

// errColorUnsupported rejects a company color, which the hosted schema has
// no column for. Remote companies always show their palette color.
var errColorUnsupported = &domain.ValidationError{
	Field:   "color",
	Message: "Company colors cannot be set on the remote backend",
}

func (s *CompanyStore) Create(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	if c.Color != "" {
		return nil, errColorUnsupported
	}
	row := companyRow{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		HourlyWage: json.Number(c.HourlyWage.String()),
	}
	var rows []companyRow
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   companiesPath,
		body:   []companyRow{row},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("inserting company: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("inserting company: no data returned")
	}
	created, err := rows[0].toDomain()
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CompanyStore) Update(ctx context.Context, ownerID, id string, patch domain.CompanyPatch) (*domain.Company, error) {
	if patch.Color != nil {
		return nil, errColorUnsupported
	}
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.HourlyWage != nil {
		fields["hourly_wage"] = json.Number(patch.HourlyWage.String())
	}
	if len(fields) == 0 {
		return s.GetByID(ctx, ownerID, id)
	}

	var rows []companyRow
	err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   companiesPath,
		query:  url.Values{"id": {eq(id)}, "user_id": {eq(ownerID)}},
		body:   fields,
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("updating company: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("company %s: %w", id, repository.ErrNotFound)
	}
	return rows[0].toDomain()
}

func (s *CompanyStore) Delete(ctx context.Context, ownerID, id string) error {
	var rows []struct {
		ID string `json:"id"`
	}
	err := s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   companiesPath,
		query:  url.Values{"id": {eq(id)}, "user_id": {eq(ownerID)}, "select": {"id"}},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("company %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func companiesFromRows(rows []companyRow) ([]*domain.Company, error) {
	companies := make([]*domain.Company, 0, len(rows))
	for _, r := range rows {
		c, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}
