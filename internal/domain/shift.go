package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format for a shift's calendar day.
const DateLayout = "2006-01-02"

type Shift struct {
	ID        string
	UserID    string
	CompanyID string
	// Date is a calendar day; only its year, month and day are meaningful.
	Date      time.Time
	Start     Clock
	End       Clock
	Memo      string
	CreatedAt time.Time
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalid("date", "invalid date %q: use YYYY-MM-DD", s)
	}
	return d, nil
}

// Validate enforces the same-day interval rule. Overnight shifts are not supported.
func (s *Shift) Validate() error {
	if s.CompanyID == "" {
		return invalid("company_id", "Company is required")
	}
	if s.Date.IsZero() {
		return invalid("date", "Date is required")
	}
	if !s.Start.Valid() || !s.End.Valid() {
		return invalid("time", "Start and end time must be within the day")
	}
	if s.End <= s.Start {
		return invalid("end_time", "End time must be after start time")
	}
	return nil
}

// DateKey returns the calendar day as YYYY-MM-DD.
func (s *Shift) DateKey() string {
	return s.Date.Format(DateLayout)
}

// InMonth reports whether the shift's calendar day falls in the given month.
func (s *Shift) InMonth(year int, month time.Month) bool {
	y, m, _ := s.Date.Date()
	return y == year && m == month
}

// ShiftPatch is a partial shift update. Nil fields are left unchanged.
type ShiftPatch struct {
	CompanyID *string
	Date      *time.Time
	Start     *Clock
	End       *Clock
	Memo      *string
}

func (p ShiftPatch) Empty() bool {
	return p.CompanyID == nil && p.Date == nil && p.Start == nil && p.End == nil && p.Memo == nil
}

// Apply returns a copy of s with the patch applied.
func (p ShiftPatch) Apply(s Shift) Shift {
	if p.CompanyID != nil {
		s.CompanyID = *p.CompanyID
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Start != nil {
		s.Start = *p.Start
	}
	if p.End != nil {
		s.End = *p.End
	}
	if p.Memo != nil {
		s.Memo = *p.Memo
	}
	return s
}
