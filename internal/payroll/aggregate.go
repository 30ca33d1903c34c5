package payroll

import (
	"math"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/shopspring/decimal"
)

// MonthlyStats is the all-company total for one month.
type MonthlyStats struct {
	TotalHours  float64
	TotalSalary int64
}

// CompanyStats is one company's share of a month.
type CompanyStats struct {
	CompanyID    string
	Name         string
	WorkingDays  int
	WorkingHours float64
	ColorClass   string
}

// Report is the result of Aggregate for one calendar month.
type Report struct {
	Year      int
	Month     time.Month
	Monthly   MonthlyStats
	Companies []CompanyStats
}

type companyAcc struct {
	company *domain.Company
	days    map[string]struct{}
	minutes int
}

// Aggregate folds the shifts dated in ref's month into monthly and
// per-company statistics. Companies keep the order of the input list and
// appear even when they have no shifts. A shift whose company is unknown
// counts toward total hours only.
func Aggregate(shifts []*domain.Shift, companies []*domain.Company, ref time.Time) Report {
	year, month, _ := ref.Date()

	order := make([]string, 0, len(companies))
	byID := make(map[string]*companyAcc, len(companies))
	for _, c := range companies {
		if c == nil {
			continue
		}
		if _, dup := byID[c.ID]; dup {
			continue
		}
		order = append(order, c.ID)
		byID[c.ID] = &companyAcc{company: c, days: make(map[string]struct{})}
	}

	var totalMin int
	totalPay := decimal.Zero
	for _, s := range shifts {
		if s == nil || !s.InMonth(year, month) {
			continue
		}
		minutes := Minutes(s.Start, s.End)
		totalMin += minutes

		acc, ok := byID[s.CompanyID]
		if !ok {
			continue
		}
		totalPay = totalPay.Add(payForMinutes(minutes, acc.company.HourlyWage))
		acc.days[s.DateKey()] = struct{}{}
		acc.minutes += minutes
	}

	report := Report{
		Year:  year,
		Month: month,
		Monthly: MonthlyStats{
			TotalHours:  roundTenth(float64(totalMin) / 60),
			TotalSalary: RoundPay(totalPay),
		},
		Companies: make([]CompanyStats, 0, len(order)),
	}
	for _, id := range order {
		acc := byID[id]
		report.Companies = append(report.Companies, CompanyStats{
			CompanyID:    id,
			Name:         acc.company.Name,
			WorkingDays:  len(acc.days),
			WorkingHours: roundTenth(float64(acc.minutes) / 60),
			ColorClass:   acc.company.DisplayColor(),
		})
	}
	return report
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
