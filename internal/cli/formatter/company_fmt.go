package formatter

import (
	"fmt"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

// FormatCompanyList renders the user's companies inside a bordered box.
func FormatCompanyList(companies []*domain.Company, currency string) string {
	if len(companies) == 0 {
		return RenderBox("Companies", Dim("No companies yet. Add one with `shiftbook company add`."))
	}
	headers := []string{"ID", "NAME", "HOURLY WAGE"}
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{
			TruncID(c.ID),
			CompanyBadge(c.Name, c.DisplayColor()),
			Wage(currency, c),
		})
	}
	return RenderBox("Companies", RenderTable(headers, rows, 2))
}

// Wage renders a company's hourly wage, keeping fractional units when present.
func Wage(currency string, c *domain.Company) string {
	if c.HourlyWage.IsInteger() {
		return Money(currency, c.HourlyWage.IntPart()) + "/h"
	}
	return fmt.Sprintf("%s%s/h", currency, c.HourlyWage.StringFixed(2))
}
