package repository

import (
	"time"

	"github.com/google/uuid"
)

// newID returns id unless it is empty, in which case a fresh UUID is generated.
func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// createdAt defaults a zero timestamp to now, truncated to the stored precision.
func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses an RFC3339 column; a malformed value reads as the zero time.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
