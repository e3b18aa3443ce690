// backend/src/processors/period.go
package processors

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a (month, year) pair selecting one calendar month.
type Period struct {
	Year  int
	Month int // 1-12
}

// CurrentPeriod returns the period containing now.
func CurrentPeriod(now time.Time) Period {
	return Period{Year: now.Year(), Month: int(now.Month())}
}

// String renders "YYYY-MM" for cache keys and labels.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Previous returns the period n months before p.
func (p Period) Previous(n int) Period {
	y, m := p.Year, p.Month-n
	for m < 1 {
		m += 12
		y--
	}
	return Period{Year: y, Month: m}
}

// Label renders the short month name and year, e.g. "Mar 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String()[:3], p.Year)
}

// DateParts splits the leading "YYYY-MM-DD" of an ISO date string into
// numeric components. The string is split literally rather than parsed into a
// time.Time so "2024-03-01" can never land in February via a timezone shift.
// Malformed parts come back as 0.
func DateParts(dateStr string) (year, month, day int) {
	// Trim a possible time suffix ("2024-03-01T10:00:00Z")
	if idx := strings.IndexByte(dateStr, 'T'); idx >= 0 {
		dateStr = dateStr[:idx]
	}
	parts := strings.SplitN(dateStr, "-", 3)
	if len(parts) > 0 {
		year, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		month, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		day, _ = strconv.Atoi(parts[2])
	}
	return year, month, day
}

// InPeriod reports whether the date string falls inside p.
func InPeriod(dateStr string, p Period) bool {
	year, month, _ := DateParts(dateStr)
	return year == p.Year && month == p.Month
}

// AfterPeriodEnd reports whether the date string falls strictly after the last
// day of p. Comparison runs on the literal (year, month) pair; any day inside
// a later month qualifies.
func AfterPeriodEnd(dateStr string, p Period) bool {
	year, month, _ := DateParts(dateStr)
	if year != p.Year {
		return year > p.Year
	}
	return month > p.Month
}
