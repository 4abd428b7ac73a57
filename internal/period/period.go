package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is one billing month. The charge generator issues at most one
// ordinary-dues movement per unit per Period.
type Period struct {
	Year  int
	Month time.Month
}

// Of returns the Period containing t.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Now returns the current billing period.
func Now() Period {
	return Of(time.Now())
}

// Parse parses "2025-03" into a Period.
func Parse(s string) (Period, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period format %q, want YYYY-MM", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid year in period %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid month in period %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month %d in period %q", month, s)
	}

	return Period{Year: year, Month: time.Month(month)}, nil
}

// String formats the period as "2025-03".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Start returns midnight on the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
}

// Next returns the following billing period.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}
