package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a time of day with minute resolution, stored as minutes since midnight.
type Clock int

const minutesPerDay = 24 * 60

// NewClock builds a Clock from an hour and minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %02d:%02d is out of range", hour, minute)
	}
	return Clock(hour*60 + minute), nil
}

// ParseClock accepts "HH:MM" and "HH:MM:SS". Seconds are dropped; the
// hosted store returns time columns with a seconds component.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: use HH:MM", s)
	}
	if !digits(parts[0], 1, 2) || !digits(parts[1], 2, 2) || (len(parts) == 3 && !digits(parts[2], 2, 2)) {
		return 0, fmt.Errorf("invalid time %q: use HH:MM", s)
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	if len(parts) == 3 {
		if sec, _ := strconv.Atoi(parts[2]); sec > 59 {
			return 0, fmt.Errorf("invalid time %q: use HH:MM", s)
		}
	}
	return NewClock(hour, minute)
}

// digits reports whether s is between min and max ASCII digits, no sign.
func digits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MustParseClock is ParseClock for literals in tests and fixtures.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// Valid reports whether c falls within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
