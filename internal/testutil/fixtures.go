package testutil

import (
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company options
type CompanyOption func(*domain.Company)

func WithWage(w int64) CompanyOption {
	return func(c *domain.Company) {
		c.HourlyWage = decimal.NewFromInt(w)
	}
}

func WithWageString(w string) CompanyOption {
	return func(c *domain.Company) {
		c.HourlyWage = decimal.RequireFromString(w)
	}
}

func WithColor(color string) CompanyOption {
	return func(c *domain.Company) {
		c.Color = color
	}
}

func WithCompanyID(id string) CompanyOption {
	return func(c *domain.Company) {
		c.ID = id
	}
}

// NewTestCompany returns a company paying 1000 per hour.
func NewTestCompany(ownerID, name string, opts ...CompanyOption) *domain.Company {
	c := &domain.Company{
		ID:         uuid.New().String(),
		UserID:     ownerID,
		Name:       name,
		HourlyWage: decimal.NewFromInt(1000),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Shift options
type ShiftOption func(*domain.Shift)

func WithTimes(start, end string) ShiftOption {
	return func(s *domain.Shift) {
		s.Start = domain.MustParseClock(start)
		s.End = domain.MustParseClock(end)
	}
}

func WithMemo(memo string) ShiftOption {
	return func(s *domain.Shift) {
		s.Memo = memo
	}
}

func WithShiftID(id string) ShiftOption {
	return func(s *domain.Shift) {
		s.ID = id
	}
}

// NewTestShift returns a 09:00-17:00 shift on date (YYYY-MM-DD).
func NewTestShift(ownerID, companyID, date string, opts ...ShiftOption) *domain.Shift {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	s := &domain.Shift{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		CompanyID: companyID,
		Date:      d,
		Start:     domain.MustParseClock("09:00"),
		End:       domain.MustParseClock("17:00"),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestUser returns a signed-in user value; it is not persisted.
func NewTestUser(email string) *domain.User {
	return &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Date parses a YYYY-MM-DD literal for tests.
func Date(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
