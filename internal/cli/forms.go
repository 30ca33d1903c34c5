package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/shiftbook/internal/cli/formatter"
	"github.com/alexanderramin/shiftbook/internal/domain"
)

// shiftbookHuhTheme returns a huh theme using the formatter palette.
func shiftbookHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(shiftbookHuhTheme()).WithShowHelp(false)
}

// Validators shared by the forms. They return the same messages as the
// domain checks so prompts and flags fail alike.

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validateDate(s string) error {
	_, err := domain.ParseDate(s)
	return err
}

func validateClock(s string) error {
	_, err := domain.ParseClock(s)
	return err
}

func validateWage(s string) error {
	_, err := parseWage(s)
	return err
}

func validatePassword(s string) error {
	if len(s) < domain.MinPasswordLen {
		return errors.New("Password must be at least 6 characters")
	}
	return nil
}

// credentialsForm asks for whichever of email and password is still empty.
func credentialsForm(email, password *string) *huh.Form {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(email).
			Validate(validateRequired("Email")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(validatePassword))
	}
	return newForm(huh.NewGroup(fields...))
}

// companyForm collects the company name and hourly wage.
func companyForm(name, wage *string) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewInput().
			Title("Company name").
			Value(name).
			Validate(validateRequired("Company name")),
		huh.NewInput().
			Title("Hourly wage").
			Placeholder("1000").
			Value(wage).
			Validate(validateWage),
	))
}

// shiftForm picks a company and collects the day and times.
func shiftForm(companies []*domain.Company, companyID, date, start, end, memo *string) *huh.Form {
	options := make([]huh.Option[string], 0, len(companies))
	for _, c := range companies {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}
	return newForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Company").
			Options(options...).
			Value(companyID),
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Value(date).
			Validate(validateDate),
		huh.NewInput().
			Title("Start time (HH:MM)").
			Placeholder("09:00").
			Value(start).
			Validate(validateClock),
		huh.NewInput().
			Title("End time (HH:MM)").
			Placeholder("17:00").
			Value(end).
			Validate(validateClock),
		huh.NewText().
			Title("Memo").
			Value(memo),
	))
}

// confirmForm asks a yes/no question.
func confirmForm(title string, ok *bool) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(ok),
	))
}

// passwordForm asks for the current and the new password.
func passwordForm(current, next *string) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewInput().
			Title("Current password").
			EchoMode(huh.EchoModePassword).
			Value(current).
			Validate(validateRequired("Current password")),
		huh.NewInput().
			Title("New password").
			EchoMode(huh.EchoModePassword).
			Value(next).
			Validate(validatePassword),
	))
}
