package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/payroll"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestMoney(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "¥0"},
		{999, "¥999"},
		{1000, "¥1,000"},
		{12500, "¥12,500"},
		{1234567, "¥1,234,567"},
		{-4800, "-¥4,800"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money("¥", tt.amount))
	}
}

func TestHours(t *testing.T) {
	assert.Equal(t, "8h", Hours(8))
	assert.Equal(t, "2.5h", Hours(2.5))
	assert.Equal(t, "2.3h", Hours(140.0/60))
	assert.Equal(t, "0h", Hours(0))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"NAME", "PAY"},
		[][]string{{CompanyBadge("Cafe", "red"), "¥800"}, {"Bar", "¥12,000"}},
		1,
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "NAME        PAY", lines[0])
	assert.Equal(t, "● Cafe     ¥800", lines[2])
	assert.Equal(t, "Bar     ¥12,000", lines[3])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestCompanyStyle_UnknownColorIsDim(t *testing.T) {
	assert.Equal(t, StyleDim.Render("x"), CompanyStyle("magenta").Render("x"))
}

func TestFormatCompanyList(t *testing.T) {
	out := stripANSI(FormatCompanyList([]*domain.Company{
		{ID: "c1aaaaaaaa", Name: "Cafe", HourlyWage: decimal.NewFromInt(1050), Color: "blue"},
		{ID: "c2bbbbbbbb", Name: "Bar", HourlyWage: decimal.RequireFromString("1012.5")},
	}, "¥"))
	assert.Contains(t, out, "COMPANIES")
	assert.Contains(t, out, "● Cafe")
	assert.Contains(t, out, "¥1,050/h")
	assert.Contains(t, out, "¥1012.50/h")
	assert.Contains(t, out, "c1aaaaaa")

	empty := stripANSI(FormatCompanyList(nil, "¥"))
	assert.Contains(t, empty, "No companies yet")
}

func TestFormatShiftList_TotalsAndUnknownCompany(t *testing.T) {
	cafe := &domain.Company{ID: "cafe", Name: "Cafe", HourlyWage: decimal.NewFromInt(1000)}
	shifts := []*domain.Shift{
		{ID: "s1", CompanyID: "cafe", Date: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
			Start: domain.MustParseClock("10:00"), End: domain.MustParseClock("12:30"), Memo: "stocktake"},
		{ID: "s2", CompanyID: "gone", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			Start: domain.MustParseClock("09:00"), End: domain.MustParseClock("10:00")},
	}
	out := stripANSI(FormatShiftList("June 2024", shifts, map[string]*domain.Company{"cafe": cafe}, "¥"))

	assert.Contains(t, out, "JUNE 2024")
	assert.Contains(t, out, "Tue Jun 11")
	assert.Contains(t, out, "10:00 - 12:30")
	assert.Contains(t, out, "¥2,500")
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "stocktake")
	assert.Contains(t, out, "Total 3.5h")
	assert.Contains(t, out, "Pay ¥2,500")
}

func TestFormatShiftSaved_EstimatedPay(t *testing.T) {
	c := &domain.Company{ID: "cafe", Name: "Cafe", HourlyWage: decimal.NewFromInt(1200)}
	sh := &domain.Shift{ID: "abcdef123456", CompanyID: "cafe", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Start: domain.MustParseClock("18:00"), End: domain.MustParseClock("22:30")}

	out := stripANSI(FormatShiftSaved("Added", sh, c, "$"))
	assert.Contains(t, out, "✔ Added shift abcdef12 at Cafe, 2024-06-10 18:00 - 22:30")
	assert.Contains(t, out, "Estimated pay: $5,400 (4.5h)")
}

func TestFormatStats(t *testing.T) {
	out := stripANSI(FormatStats(payroll.Report{
		Year:    2024,
		Month:   time.June,
		Monthly: payroll.MonthlyStats{TotalHours: 14.5, TotalSalary: 15300},
		Companies: []payroll.CompanyStats{
			{Name: "Bar", WorkingDays: 1, WorkingHours: 4, ColorClass: "red"},
			{Name: "Cafe", WorkingDays: 2, WorkingHours: 10.5, ColorClass: "blue"},
		},
	}, "¥"))

	assert.Contains(t, out, "JUNE 2024")
	assert.Contains(t, out, "Total hours   14.5h")
	assert.Contains(t, out, "Total salary  ¥15,300")
	assert.Contains(t, out, "● Cafe")
	assert.Contains(t, out, "10.5h")
	assert.Contains(t, out, "███████░░░  72%")
	assert.Contains(t, out, "███░░░░░░░  28%")
}

func TestFormatMonth(t *testing.T) {
	sh := &domain.Shift{ID: "s1", CompanyID: "cafe", Date: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Start: domain.MustParseClock("09:00"), End: domain.MustParseClock("17:00")}
	events := []calendar.Event{calendar.FromShift(sh, "Cafe", time.Local)}
	m := calendar.BuildMonth(2024, time.June, events, time.Monday)

	out := stripANSI(FormatMonth(m, map[string]string{"cafe": "red"}, time.Date(2024, 6, 12, 8, 0, 0, 0, time.Local)))
	lines := strings.Split(out, "\n")

	assert.Equal(t, "June 2024", lines[0])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[2]), "Mon"), "weeks start on Monday")
	assert.Contains(t, out, "09:00-17:00")
	assert.Contains(t, out, "[12]", "today is marked")
}

func TestFormatUser(t *testing.T) {
	out := stripANSI(FormatUser(&domain.User{Email: "ada@example.com", Name: "Ada"}, "local"))
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "BACKEND  local")
	assert.NotContains(t, out, "AVATAR")
}
