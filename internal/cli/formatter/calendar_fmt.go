package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/shiftbook/internal/calendar"
)

// cellWidth is the width of one day column in the month grid.
const cellWidth = 12

var (
	styleToday    = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	styleOutside  = lipgloss.NewStyle().Foreground(ColorDim).Faint(true)
	styleDayLabel = lipgloss.NewStyle().Foreground(ColorFg)
)

// FormatMonth renders a month grid. Each day shows its number and one line per
// shift, colored by company. colors maps company IDs to palette names.
func FormatMonth(m calendar.Month, colors map[string]string, today time.Time) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(fmt.Sprintf("%s %d", m.Month, m.Year)))
	b.WriteString("\n\n")

	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(m.WeekStart) + i) % 7)
		b.WriteString(pad(StyleDim.Render(wd.String()[:3]), cellWidth))
	}
	b.WriteString("\n")

	ty, tm, td := today.Date()
	for _, week := range m.Weeks {
		lines := 1
		for _, day := range week {
			if n := len(day.Events) + 1; n > lines {
				lines = n
			}
		}
		for line := 0; line < lines; line++ {
			for _, day := range week {
				b.WriteString(pad(dayLine(day, line, colors, ty, tm, td), cellWidth))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func dayLine(day calendar.Day, line int, colors map[string]string, ty int, tm time.Month, td int) string {
	if line == 0 {
		label := fmt.Sprintf("%2d", day.Date.Day())
		y, m, d := day.Date.Date()
		switch {
		case !day.InMonth:
			return styleOutside.Render(label)
		case y == ty && m == tm && d == td:
			return styleToday.Render("[" + strings.TrimSpace(label) + "]")
		default:
			return styleDayLabel.Render(label)
		}
	}
	idx := line - 1
	if idx >= len(day.Events) || !day.InMonth {
		return ""
	}
	ev := day.Events[idx]
	text := ev.Start.Format("15:04")
	if sh := ev.Shift; sh != nil {
		text = fmt.Sprintf("%s-%s", sh.Start, sh.End)
	}
	return CompanyStyle(colors[ev.CompanyID]).Render(text)
}

// pad right-fills s to width visible cells, truncating nothing.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
