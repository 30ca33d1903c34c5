package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// companyColors maps the company palette names onto terminal colors.
var companyColors = map[string]lipgloss.Color{
	"emerald": ColorGreen,
	"red":     ColorRed,
	"blue":    ColorBlue,
	"orange":  ColorOrange,
	"purple":  ColorPurple,
	"yellow":  ColorYellow,
}

// CompanyStyle returns the foreground style for a palette color name.
// Unknown names render dimmed.
func CompanyStyle(color string) lipgloss.Style {
	c, ok := companyColors[color]
	if !ok {
		return StyleDim
	}
	return lipgloss.NewStyle().Foreground(c)
}

// CompanyBadge renders "● name" in the company's color.
func CompanyBadge(name, color string) string {
	return CompanyStyle(color).Render("● " + name)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success renders a confirmation line such as "✔ Company saved".
func Success(text string) string {
	return StyleGreen.Render("✔ ") + text
}
