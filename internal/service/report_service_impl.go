package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/payroll"
	"github.com/alexanderramin/shiftbook/internal/repository"
)

type reportService struct {
	companies repository.CompanyRepo
	shifts    repository.ShiftRepo
	users     CurrentUser
	weekStart time.Weekday
	loc       *time.Location
	observer  UseCaseObserver
}

func NewReportService(
	companies repository.CompanyRepo,
	shifts repository.ShiftRepo,
	users CurrentUser,
	weekStart time.Weekday,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		companies: companies,
		shifts:    shifts,
		users:     users,
		weekStart: weekStart,
		loc:       time.Local,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Month loads companies and shifts concurrently, then derives the stats and
// the calendar grid for ref's month. Either load failing cancels the other.
func (s *reportService) Month(ctx context.Context, ref time.Time) (_ *MonthReport, err error) {
	defer observe(ctx, s.observer, "report.month", time.Now(), &err,
		map[string]any{"month": ref.Format("2006-01")})

	user, err := s.users.RequireUser()
	if err != nil {
		return nil, err
	}

	var (
		companies []*domain.Company
		shifts    []*domain.Shift
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.companies.List(gctx, user.ID)
		if err != nil {
			return wrapStoreError("report.companies", "load", "companies", err)
		}
		companies = list
		return nil
	})
	g.Go(func() error {
		list, err := s.shifts.List(gctx, user.ID)
		if err != nil {
			return wrapStoreError("report.shifts", "load", "shifts", err)
		}
		shifts = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	year, month, _ := ref.Date()
	inMonth := make([]*domain.Shift, 0, len(shifts))
	for _, sh := range shifts {
		if sh.InMonth(year, month) {
			inMonth = append(inMonth, sh)
		}
	}

	events := calendar.Events(shifts, companies, s.loc)
	return &MonthReport{
		Ref:       calendar.MonthStart(ref),
		Stats:     payroll.Aggregate(shifts, companies, ref),
		Calendar:  calendar.BuildMonth(year, month, events, s.weekStart),
		Shifts:    inMonth,
		Companies: companies,
	}, nil
}
