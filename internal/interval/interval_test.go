package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	iv := Compute("2026-03-15", "09:00", 45, DefaultDurationMin)
	require.NotNil(t, iv)
	assert.Equal(t, 540, iv.StartMin)
	assert.Equal(t, 585, iv.EndMin)

	iv = Compute("2026-03-15", "09:00", 0, 0)
	require.NotNil(t, iv)
	assert.Equal(t, 570, iv.EndMin, "duration should fall back to 30")

	assert.Nil(t, Compute("not-a-date", "09:00", 30, 30))
	assert.Nil(t, Compute("2026-03-15", "9h00", 30, 30))
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := Interval{DateKey: "2026-03-15", StartMin: 540, EndMin: 570} // 09:00-09:30
	b := Interval{DateKey: "2026-03-15", StartMin: 555, EndMin: 570} // 09:15-09:30
	c := Interval{DateKey: "2026-03-15", StartMin: 570, EndMin: 585} // 09:30-09:45

	assert.True(t, Overlaps(a, b))
	assert.False(t, Overlaps(a, c), "touching intervals do not overlap")

	otherDay := Interval{DateKey: "2026-03-16", StartMin: 540, EndMin: 570}
	assert.False(t, Overlaps(a, otherDay))

	noDay := Interval{StartMin: 545, EndMin: 560}
	assert.True(t, Overlaps(a, noDay), "empty date key matches any day")
}

func TestFindConflicts(t *testing.T) {
	cand := Interval{DateKey: "2026-03-15", StartMin: 540, EndMin: 570}
	existing := []Sourced{
		{Interval: Interval{DateKey: "2026-03-15", StartMin: 555, EndMin: 585}, Source: "g1"},
		{Interval: Interval{DateKey: "2026-03-15", StartMin: 570, EndMin: 600}, Source: "g2"},
		{Interval: Interval{DateKey: "2026-03-16", StartMin: 540, EndMin: 570}, Source: "g3"},
	}

	conflicts := FindConflicts(cand, existing)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "g1", conflicts[0].Source)
	assert.Equal(t, cand, conflicts[0].Candidate)
}

func TestSuggestNextSlotsSkipsBookings(t *testing.T) {
	// Candidate 09:00-09:30, bookings at 09:15 and 09:30 (30 min each).
	cand := Interval{DateKey: "2026-03-15", StartMin: 540, EndMin: 570}
	existing := []Sourced{
		{Interval: Interval{DateKey: "2026-03-15", StartMin: 555, EndMin: 585}, Source: "a"},
		{Interval: Interval{DateKey: "2026-03-15", StartMin: 570, EndMin: 600}, Source: "b"},
	}

	got := SuggestNextSlots(cand, existing, 15, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "10:00", got[0], "first free slot strictly after all conflicts")
	assert.Equal(t, []string{"10:00", "10:15", "10:30"}, got)
}

func TestSuggestNextSlotsClipsToDay(t *testing.T) {
	cand := Interval{DateKey: "2026-03-15", StartMin: 1410, EndMin: 1440} // 23:30
	got := SuggestNextSlots(cand, nil, 15, 5)
	assert.Equal(t, []string{"23:45"}, got, "probes never leave the day")
}

func TestSuggestNextSlotsMonotonicNoDuplicates(t *testing.T) {
	cand := Interval{DateKey: "2026-03-15", StartMin: 540, EndMin: 570}
	got := SuggestNextSlots(cand, nil, 15, 4)
	require.Equal(t, []string{"09:15", "09:30", "09:45", "10:00"}, got)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}
