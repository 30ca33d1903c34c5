package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
	"github.com/alexanderramin/shiftbook/internal/testutil"
)

type staticUser struct {
	user *domain.User
}

func (s staticUser) RequireUser() (*domain.User, error) {
	if s.user == nil {
		return nil, ErrNotSignedIn
	}
	u := *s.user
	return &u, nil
}

type harness struct {
	db        *sql.DB
	owner     staticUser
	companies CompanyService
	shifts    ShiftService
	reports   ReportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	owner := staticUser{user: &domain.User{ID: testutil.SeedUser(t, database), Email: "ada@example.com"}}

	companyRepo := repository.NewSQLiteCompanyRepo(database)
	shiftRepo := repository.NewSQLiteShiftRepo(database)
	return &harness{
		db:        database,
		owner:     owner,
		companies: NewCompanyService(companyRepo, shiftRepo, testutil.NewTestUoW(database), owner),
		shifts:    NewShiftService(shiftRepo, companyRepo, owner),
		reports:   NewReportService(companyRepo, shiftRepo, owner, time.Sunday),
	}
}
