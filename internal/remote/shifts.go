package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

const shiftsPath = "/rest/v1/shifts"

// ShiftStore implements repository.ShiftRepo against the hosted shifts table.
type ShiftStore struct {
	client *Client
}

var _ repository.ShiftRepo = (*ShiftStore)(nil)

func NewShiftStore(client *Client) *ShiftStore {
	return &ShiftStore{client: client}
}

type shiftRow struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	CompanyID string     `json:"company_id"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Memo      *string    `json:"memo"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (r shiftRow) toDomain() (*domain.Shift, error) {
	s := &domain.Shift{
		ID:        r.ID,
		UserID:    r.UserID,
		CompanyID: r.CompanyID,
	}
	// An unparseable date is kept as the zero day; the calendar skips it.
	if d, err := time.Parse(domain.DateLayout, r.Date); err == nil {
		s.Date = d
	}
	var err error
	if s.Start, err = domain.ParseClock(r.StartTime); err != nil {
		return nil, fmt.Errorf("shift %s start: %w", r.ID, err)
	}
	if s.End, err = domain.ParseClock(r.EndTime); err != nil {
		return nil, fmt.Errorf("shift %s end: %w", r.ID, err)
	}
	if r.Memo != nil {
		s.Memo = *r.Memo
	}
	if r.CreatedAt != nil {
		s.CreatedAt = *r.CreatedAt
	}
	return s, nil
}

func memoValue(memo string) *string {
	if memo == "" {
		return nil
	}
	return &memo
}

func (s *ShiftStore) List(ctx context.Context, ownerID string) ([]*domain.Shift, error) {
	var rows []shiftRow
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   shiftsPath,
		query: url.Values{
			"select":  {"*"},
			"user_id": {eq(ownerID)},
			"order":   {"date.desc,start_time.desc"},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}

	shifts := make([]*domain.Shift, 0, len(rows))
	for _, r := range rows {
		sh, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}

func (s *ShiftStore) GetByID(ctx context.Context, ownerID, id string) (*domain.Shift, error) {
	var rows []shiftRow
	err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   shiftsPath,
		query:  url.Values{"select": {"*"}, "id": {eq(id)}, "user_id": {eq(ownerID)}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetching shift: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("shift %s: %w", id, repository.ErrNotFound)
	}
	return rows[0].toDomain()
}

func (s *ShiftStore) Create(ctx context.Context, sh *domain.Shift) (*domain.Shift, error) {
	row := shiftRow{
		ID:        sh.ID,
		UserID:    sh.UserID,
		CompanyID: sh.CompanyID,
		Date:      sh.DateKey(),
		StartTime: sh.Start.String(),
		EndTime:   sh.End.String(),
		Memo:      memoValue(sh.Memo),
	}
	var rows []shiftRow
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   shiftsPath,
		body:   []shiftRow{row},
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("inserting shift: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("inserting shift: no data returned")
	}
	return rows[0].toDomain()
}

func (s *ShiftStore) Update(ctx context.Context, ownerID, id string, patch domain.ShiftPatch) (*domain.Shift, error) {
	fields := map[string]any{}
	if patch.CompanyID != nil {
		fields["company_id"] = *patch.CompanyID
	}
	if patch.Date != nil {
		fields["date"] = patch.Date.Format(domain.DateLayout)
	}
	if patch.Start != nil {
		fields["start_time"] = patch.Start.String()
	}
	if patch.End != nil {
		fields["end_time"] = patch.End.String()
	}
	if patch.Memo != nil {
		fields["memo"] = memoValue(*patch.Memo)
	}
	if len(fields) == 0 {
		return s.GetByID(ctx, ownerID, id)
	}

	var rows []shiftRow
	err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   shiftsPath,
		query:  url.Values{"id": {eq(id)}, "user_id": {eq(ownerID)}},
		body:   fields,
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("updating shift: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("shift %s: %w", id, repository.ErrNotFound)
	}
	return rows[0].toDomain()
}

func (s *ShiftStore) Delete(ctx context.Context, ownerID, id string) error {
	n, err := s.deleteWhere(ctx, url.Values{"id": {eq(id)}, "user_id": {eq(ownerID)}})
	if err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("shift %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (s *ShiftStore) DeleteByCompany(ctx context.Context, ownerID, companyID string) (int, error) {
	n, err := s.deleteWhere(ctx, url.Values{"company_id": {eq(companyID)}, "user_id": {eq(ownerID)}})
	if err != nil {
		return 0, fmt.Errorf("deleting shifts for company: %w", err)
	}
	return n, nil
}

func (s *ShiftStore) deleteWhere(ctx context.Context, filter url.Values) (int, error) {
	filter.Set("select", "id")
	var rows []struct {
		ID string `json:"id"`
	}
	err := s.client.do(ctx, request{
		method: http.MethodDelete,
		path:   shiftsPath,
		query:  filter,
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
