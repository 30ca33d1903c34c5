// Package calendar maps shifts onto displayable events and month grids.
package calendar

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftbook/internal/domain"
)

// UnknownCompany labels events whose company is not in the loaded list.
const UnknownCompany = "Unknown"

type Event struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	CompanyID string
	Shift     *domain.Shift
}

// Valid is false when the source shift had no usable date.
func (e Event) Valid() bool {
	return !e.Start.IsZero() && !e.End.IsZero()
}

// FromShift combines the shift's calendar day with its start and end clocks in loc.
func FromShift(s *domain.Shift, companyName string, loc *time.Location) Event {
	if loc == nil {
		loc = time.Local
	}
	ev := Event{
		ID:        s.ID,
		Title:     fmt.Sprintf("%s %s - %s", companyName, s.Start, s.End),
		CompanyID: s.CompanyID,
		Shift:     s,
	}
	if s.Date.IsZero() {
		return ev
	}
	y, m, d := s.Date.Date()
	ev.Start = time.Date(y, m, d, s.Start.Hour(), s.Start.Minute(), 0, 0, loc)
	ev.End = time.Date(y, m, d, s.End.Hour(), s.End.Minute(), 0, 0, loc)
	return ev
}

// Events maps every shift, resolving company names from companies.
func Events(shifts []*domain.Shift, companies []*domain.Company, loc *time.Location) []Event {
	names := make(map[string]string, len(companies))
	for _, c := range companies {
		names[c.ID] = c.Name
	}
	events := make([]Event, 0, len(shifts))
	for _, s := range shifts {
		name, ok := names[s.CompanyID]
		if !ok {
			name = UnknownCompany
		}
		events = append(events, FromShift(s, name, loc))
	}
	return events
}
