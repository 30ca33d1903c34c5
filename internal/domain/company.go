package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID         string
	UserID     string
	Name       string
	HourlyWage decimal.Decimal
	Color      string
	CreatedAt  time.Time
}

// Validate checks the fields a user fills in on the company form.
func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("name", "Company name is required")
	}
	if !c.HourlyWage.IsPositive() {
		return invalid("hourly_wage", "Please enter a valid hourly wage (greater than 0)")
	}
	if c.Color != "" && !IsPaletteColor(c.Color) {
		return invalid("color", "unknown color %q (choose one of %s)", c.Color, strings.Join(Palette, ", "))
	}
	return nil
}

// DisplayColor returns the stored color, or the palette color derived from the ID.
func (c *Company) DisplayColor() string {
	if c.Color != "" {
		return c.Color
	}
	return PaletteColor(c.ID)
}

// CompanyPatch is a partial company update. Nil fields are left unchanged.
type CompanyPatch struct {
	Name       *string
	HourlyWage *decimal.Decimal
	Color      *string
}

func (p CompanyPatch) Empty() bool {
	return p.Name == nil && p.HourlyWage == nil && p.Color == nil
}

// Apply returns a copy of c with the patch applied.
func (p CompanyPatch) Apply(c Company) Company {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.HourlyWage != nil {
		c.HourlyWage = *p.HourlyWage
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	return c
}
