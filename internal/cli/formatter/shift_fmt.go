package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftbook/internal/calendar"
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/alexanderramin/shiftbook/internal/payroll"
)

// FormatShiftList renders shifts with per-shift hours and pay plus a totals
// line. Shifts whose company is gone show as Unknown and earn nothing.
func FormatShiftList(title string, shifts []*domain.Shift, companies map[string]*domain.Company, currency string) string {
	if len(shifts) == 0 {
		return RenderBox(title, Dim("No shifts recorded."))
	}

	headers := []string{"ID", "DATE", "COMPANY", "TIME", "HOURS", "PAY", "MEMO"}
	rows := make([][]string, 0, len(shifts))
	var totalHours float64
	var totalPay int64
	for _, sh := range shifts {
		c := companies[sh.CompanyID]
		hours := payroll.DurationHours(sh.Start, sh.End)
		pay := payroll.ShiftPay(sh, c)
		totalHours += hours
		totalPay += pay

		company := Dim(calendar.UnknownCompany)
		if c != nil {
			company = CompanyBadge(c.Name, c.DisplayColor())
		}
		rows = append(rows, []string{
			TruncID(sh.ID),
			sh.Date.Format("Mon Jan 2"),
			company,
			fmt.Sprintf("%s - %s", sh.Start, sh.End),
			Hours(hours),
			Money(currency, pay),
			Dim(sh.Memo),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, 4, 5))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s",
		Dim("Total"), Bold(Hours(totalHours)),
		Dim("Pay"), StyleGreen.Render(Money(currency, totalPay)))
	return RenderBox(title, b.String())
}

// FormatShiftSaved is the confirmation printed after adding or editing a shift.
func FormatShiftSaved(verb string, sh *domain.Shift, c *domain.Company, currency string) string {
	name := calendar.UnknownCompany
	if c != nil {
		name = c.Name
	}
	line := fmt.Sprintf("%s shift %s at %s, %s %s - %s",
		verb, TruncID(sh.ID), name, sh.DateKey(), sh.Start, sh.End)
	hours := payroll.DurationHours(sh.Start, sh.End)
	return Success(line) + "\n" +
		Dim("Estimated pay: ") + StyleGreen.Render(Money(currency, payroll.ShiftPay(sh, c))) +
		Dim(fmt.Sprintf(" (%s)", Hours(hours)))
}
