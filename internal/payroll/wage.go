// Package payroll turns shifts into hours and pay.
package payroll

import (
	"github.com/alexanderramin/shiftbook/internal/domain"
	"github.com/shopspring/decimal"
)

var sixty = decimal.NewFromInt(60)

// Minutes returns the whole minutes between start and end. Callers validate
// End > Start first; a non-positive span counts as zero.
func Minutes(start, end domain.Clock) int {
	if end <= start {
		return 0
	}
	return int(end - start)
}

// DurationHours returns the span in fractional hours.
func DurationHours(start, end domain.Clock) float64 {
	return float64(Minutes(start, end)) / 60
}

// Pay returns the unrounded pay for a span at the given hourly rate.
func Pay(start, end domain.Clock, rate decimal.Decimal) decimal.Decimal {
	return payForMinutes(Minutes(start, end), rate)
}

func payForMinutes(minutes int, rate decimal.Decimal) decimal.Decimal {
	if minutes == 0 || !rate.IsPositive() {
		return decimal.Zero
	}
	return rate.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty)
}

// RoundPay rounds to the nearest whole currency unit for display.
func RoundPay(pay decimal.Decimal) int64 {
	return pay.Round(0).IntPart()
}

// ShiftPay is the rounded pay for one shift. A missing company pays nothing.
func ShiftPay(s *domain.Shift, c *domain.Company) int64 {
	if c == nil {
		return 0
	}
	return RoundPay(Pay(s.Start, s.End, c.HourlyWage))
}
