// Package timeutil holds the clock and date-key parsing shared by the
// interval math and the schedule rule compiler.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateKeyLayout = "2006-01-02"
	MinutesPerDay = 24 * 60
)

// ParseClock converts "HH:MM" (or "H:MM") to minutes since midnight.
// Returns (0, false) on anything it cannot read.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	h, m, ok := splitClock(s)
	if !ok {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func splitClock(s string) (int, int, bool) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	if min < 0 {
		min = 0
	}
	min %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseDateKey reads a "YYYY-MM-DD" key in the local zone.
func ParseDateKey(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateKeyLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateKey formats a time as its local "YYYY-MM-DD" key.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(DateKeyLayout)
}

// MinuteOfDay returns minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	lt := t.In(time.Local)
	return lt.Hour()*60 + lt.Minute()
}

// Clamp01 clips a progress fraction into [0, 1].
func Clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
