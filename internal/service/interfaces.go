package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/payroll"
)

// All services act on behalf of the signed-in user and return
// ErrNotSignedIn when there is none.

type CompanyService interface {
	List(ctx context.Context) ([]*domain.Company, error)
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	Create(ctx context.Context, c *domain.Company) (*domain.Company, error)
	Update(ctx context.Context, id string, patch domain.CompanyPatch) (*domain.Company, error)
	// Delete removes the company. With withShifts its shifts go too and the
	// number removed is returned; otherwise they are kept and later show up
	// under "Unknown".
	Delete(ctx context.Context, id string, withShifts bool) (int, error)
}

type ShiftService interface {
	List(ctx context.Context) ([]*domain.Shift, error)
	ListMonth(ctx context.Context, ref time.Time) ([]*domain.Shift, error)
	GetByID(ctx context.Context, id string) (*domain.Shift, error)
	Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error)
	Update(ctx context.Context, id string, patch domain.ShiftPatch) (*domain.Shift, error)
	Delete(ctx context.Context, id string) error
}

// MonthReport is everything the month views render.
type MonthReport struct {
	Ref       time.Time
	Stats     payroll.Report
	Calendar  calendar.Month
	Shifts    []*domain.Shift
	Companies []*domain.Company
}

// CompanyByID indexes the report's companies.
func (r *MonthReport) CompanyByID() map[string]*domain.Company {
	out := make(map[string]*domain.Company, len(r.Companies))
	for _, c := range r.Companies {
		out[c.ID] = c
	}
	return out
}

type ReportService interface {
	Month(ctx context.Context, ref time.Time) (*MonthReport, error)
}

type ExportService interface {
	// ExportMonth writes an .xlsx workbook for ref's month.
	ExportMonth(ctx context.Context, ref time.Time, w io.Writer) error
}
