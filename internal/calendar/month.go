package calendar

import (
	"sort"
	"time"
)

type Day struct {
	Date    time.Time
	InMonth bool
	Events  []Event
}

// Month is a calendar page: whole weeks covering one month.
type Month struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Weeks     [][7]Day
}

// BuildMonth lays out a month grid starting weeks on weekStart. Events that
// are invalid or fall outside the grid are dropped; each day's events are
// sorted by start time.
func BuildMonth(year int, month time.Month, events []Event, weekStart time.Weekday) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	gridStart := first.AddDate(0, 0, -offset)

	byDay := make(map[string][]Event)
	for _, ev := range events {
		if !ev.Valid() {
			continue
		}
		key := ev.Start.Format("2006-01-02")
		byDay[key] = append(byDay[key], ev)
	}

	m := Month{Year: year, Month: month, WeekStart: weekStart}
	day := gridStart
	for {
		var week [7]Day
		for i := range week {
			evs := byDay[day.Format("2006-01-02")]
			sort.SliceStable(evs, func(a, b int) bool { return evs[a].Start.Before(evs[b].Start) })
			week[i] = Day{Date: day, InMonth: day.Month() == month, Events: evs}
			day = day.AddDate(0, 0, 1)
		}
		m.Weeks = append(m.Weeks, week)
		if day.Month() != month {
			break
		}
	}
	return m
}

// First returns midnight on the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// Prev returns the first day of the previous month.
func (m Month) Prev() time.Time {
	return m.First().AddDate(0, -1, 0)
}

// Next returns the first day of the following month.
func (m Month) Next() time.Time {
	return m.First().AddDate(0, 1, 0)
}

// ParseMonth parses YYYY-MM into the first day of that month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// MonthStart truncates t to the first day of its month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.Local)
}
