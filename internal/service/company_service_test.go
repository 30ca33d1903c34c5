package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/repository"
	"github.com/alexanderramin/shiftbook/internal/testutil"
)

func TestCompanyService_Create(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.companies.Create(ctx, &domain.Company{Name: "  Cafe  ", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.Equal(t, "Cafe", created.Name)
	assert.Equal(t, h.owner.user.ID, created.UserID, "owner comes from the session")
	assert.NotEmpty(t, created.ID)
}

func TestCompanyService_Create_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		company domain.Company
		message string
	}{
		{"blank name", domain.Company{Name: "  ", HourlyWage: decimal.NewFromInt(1000)}, "Company name is required"},
		{"zero wage", domain.Company{Name: "Cafe"}, "Please enter a valid hourly wage (greater than 0)"},
		{"negative wage", domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(-5)}, "Please enter a valid hourly wage (greater than 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.companies.Create(ctx, &tt.company)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, err.Error())
		})
	}

	list, err := h.companies.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "nothing reaches the store")
}

func TestCompanyService_Create_DuplicateHasPublicMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(900)})

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "A company with this name already exists.", err.Error())
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestCompanyService_NotSignedIn(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewCompanyService(repository.NewSQLiteCompanyRepo(database), repository.NewSQLiteShiftRepo(database), nil, staticUser{})

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestCompanyService_Update(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, err := h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	name := "  Cafe Deluxe "
	updated, err := h.companies.Update(ctx, c.ID, domain.CompanyPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Cafe Deluxe", updated.Name)
	assert.True(t, decimal.NewFromInt(1000).Equal(updated.HourlyWage))

	zero := decimal.Zero
	_, err = h.companies.Update(ctx, c.ID, domain.CompanyPatch{HourlyWage: &zero})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = h.companies.Update(ctx, c.ID, domain.CompanyPatch{})
	assert.ErrorAs(t, err, &ve)

	_, err = h.companies.Update(ctx, "missing", domain.CompanyPatch{Name: &name})
	assert.EqualError(t, err, "Company not found")
}

func TestCompanyService_Delete_KeepsShiftsByDefault(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, err := h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = h.shifts.Create(ctx, testutil.NewTestShift("", c.ID, "2024-06-10"))
	require.NoError(t, err)

	removed, err := h.companies.Delete(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Zero(t, removed)

	shifts, err := h.shifts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, shifts, 1, "orphaned shift survives")
}

func TestCompanyService_Delete_WithShifts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, err := h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	other, err := h.companies.Create(ctx, &domain.Company{Name: "Bar", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	for _, date := range []string{"2024-06-10", "2024-06-11"} {
		_, err = h.shifts.Create(ctx, testutil.NewTestShift("", c.ID, date))
		require.NoError(t, err)
	}
	_, err = h.shifts.Create(ctx, testutil.NewTestShift("", other.ID, "2024-06-10"))
	require.NoError(t, err)

	removed, err := h.companies.Delete(ctx, c.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	shifts, err := h.shifts.List(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, other.ID, shifts[0].CompanyID)
}

func TestCompanyService_Delete_WithShiftsRollsBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, err := h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = h.shifts.Create(ctx, testutil.NewTestShift("", c.ID, "2024-06-10"))
	require.NoError(t, err)

	boom := errors.New("disk full")
	failing := &testutil.FailingUoW{DB: h.db, Match: "DELETE FROM companies", Err: boom}
	svc := NewCompanyService(repository.NewSQLiteCompanyRepo(h.db), repository.NewSQLiteShiftRepo(h.db), failing, h.owner)

	_, err = svc.Delete(ctx, c.ID, true)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Failed to delete company", err.Error())
	assert.Equal(t, 1, failing.Calls)

	shifts, err := h.shifts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, shifts, 1, "shift delete was rolled back")
	_, err = h.companies.GetByID(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCompanyService_Delete_WithShiftsWithoutTransactions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewCompanyService(repository.NewSQLiteCompanyRepo(h.db), repository.NewSQLiteShiftRepo(h.db), nil, h.owner)

	c, err := h.companies.Create(ctx, &domain.Company{Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = h.shifts.Create(ctx, testutil.NewTestShift("", c.ID, "2024-06-10"))
	require.NoError(t, err)

	_, err = svc.Delete(ctx, "missing", true)
	assert.EqualError(t, err, "Company not found")

	removed, err := svc.Delete(ctx, c.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
