// Package interval implements the time-interval math used when activating
// goals and when proposing alternative slots: half-open minute ranges within
// a single day, overlap tests, conflict listing and free-slot suggestion.
package interval

import (
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/timeutil"
)

const (
	DefaultDurationMin = 30
	DefaultStepMin     = 15
	DefaultSuggestions = 3
)

// Interval is a half-open [StartMin, EndMin) range on one day. DateKey may be
// empty for a purely time-of-day interval.
type Interval struct {
	DateKey  string `json:"dateKey,omitempty"`
	StartMin int    `json:"startMin"`
	EndMin   int    `json:"endMin"`
}

// Sourced ties an interval to the thing that booked it.
type Sourced struct {
	Interval Interval `json:"interval"`
	Source   string   `json:"source"`
}

// Conflict pairs a candidate with one existing interval it overlaps.
type Conflict struct {
	Candidate Interval `json:"candidate"`
	Conflict  Interval `json:"conflict"`
	Source    string   `json:"source"`
}

// Compute builds an interval from a date key, an "HH:MM" start and a duration.
// Returns nil when the date key or start time cannot be parsed. A non-positive
// duration falls back to defaultMin (itself falling back to DefaultDurationMin).
func Compute(dateKey, startTime string, durationMin, defaultMin int) *Interval {
	if _, ok := timeutil.ParseDateKey(dateKey); !ok {
		return nil
	}
	start, ok := timeutil.ParseClock(startTime)
	if !ok {
		return nil
	}
	dur := durationMin
	if dur <= 0 {
		dur = defaultMin
	}
	if dur <= 0 {
		dur = DefaultDurationMin
	}
	return &Interval{DateKey: dateKey, StartMin: start, EndMin: start + dur}
}

// Overlaps reports whether two half-open intervals intersect. Date keys only
// separate intervals when both carry one; touching ranges do not overlap.
func Overlaps(a, b Interval) bool {
	if a.DateKey != "" && b.DateKey != "" && a.DateKey != b.DateKey {
		return false
	}
	return a.StartMin < b.EndMin && b.StartMin < a.EndMin
}

// FindConflicts lists every existing interval the candidate overlaps, in the
// order the existing intervals were given.
func FindConflicts(candidate Interval, existing []Sourced) []Conflict {
	var out []Conflict
	for _, e := range existing {
		if Overlaps(candidate, e.Interval) {
			out = append(out, Conflict{Candidate: candidate, Conflict: e.Interval, Source: e.Source})
		}
	}
	return out
}

// SuggestNextSlots probes starts strictly later than the candidate's, each a
// multiple of stepMin past it, and returns up to limit "HH:MM" labels whose
// slots fit inside the day and overlap nothing in existing. Labels come back
// in increasing order without duplicates.
func SuggestNextSlots(candidate Interval, existing []Sourced, stepMin, limit int) []string {
	if stepMin <= 0 {
		stepMin = DefaultStepMin
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	}
	dur := candidate.EndMin - candidate.StartMin
	if dur <= 0 {
		dur = DefaultDurationMin
	}

	var out []string
	seen := map[string]bool{}
	maxProbes := timeutil.MinutesPerDay / stepMin
	for k := 1; k <= maxProbes && len(out) < limit; k++ {
		start := candidate.StartMin + k*stepMin
		if start > timeutil.MinutesPerDay-1 {
			break
		}
		probe := Interval{DateKey: candidate.DateKey, StartMin: start, EndMin: start + dur}
		free := true
		for _, e := range existing {
			if Overlaps(probe, e.Interval) {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		label := timeutil.FormatClock(start)
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}
