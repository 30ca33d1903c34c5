package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// ShareBar renders a company's share of the month's hours like
// "████░░░░  45%", filled in the company color.
func ShareBar(share float64, width int, color string) string {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(share*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	bar := CompanyStyle(color).Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, share*100)
}
