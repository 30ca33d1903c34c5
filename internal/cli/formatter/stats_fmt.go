package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftbook/internal/payroll"
)

const shareBarWidth = 10

// FormatStats renders the monthly totals and the per-company breakdown.
func FormatStats(r payroll.Report, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Total hours "), Bold(Hours(r.Monthly.TotalHours)))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Total salary"), StyleGreen.Bold(true).Render(Money(currency, r.Monthly.TotalSalary)))

	if len(r.Companies) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(r.Companies))
		for _, cs := range r.Companies {
			rows = append(rows, []string{
				CompanyBadge(cs.Name, cs.ColorClass),
				fmt.Sprintf("%d", cs.WorkingDays),
				Hours(cs.WorkingHours),
				ShareBar(share(cs.WorkingHours, r.Monthly.TotalHours), shareBarWidth, cs.ColorClass),
			})
		}
		b.WriteString(RenderTable([]string{"COMPANY", "DAYS", "HOURS", "SHARE"}, rows, 1, 2))
	}

	title := fmt.Sprintf("%s %d", r.Month, r.Year)
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total
}
