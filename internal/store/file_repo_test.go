package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

func TestFileRepoRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	empty, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, empty.Goals)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := model.State{
		Categories: []model.Category{{ID: "c1", Name: "Health", MainGoalID: "o1"}},
		Goals: []model.Goal{
			{
				ID:         "o1",
				CategoryID: "c1",
				Title:      "lose weight",
				GoalType:   model.GoalOutcome,
				PlanType:   model.PlanState,
				Status:     model.StatusQueued,
				Priority:   model.PriorityPrioritaire,
				Metric:     &model.Metric{Unit: "kg", Target: 5, Current: 2},
			},
			{
				ID:             "p1",
				CategoryID:     "c1",
				Title:          "jog",
				GoalType:       model.GoalProcess,
				PlanType:       model.PlanAction,
				Status:         model.StatusActive,
				ParentID:       "o1",
				StartAt:        &start,
				SessionMinutes: 30,
				Schedule:       &model.ScheduleSpec{DaysOfWeek: []int{1, 3, 5}, DurationMin: 30},
			},
		},
		Rules: []model.ScheduleRule{
			{ID: "r1", ActionID: "p1", Kind: model.RuleRecurring, TimeType: model.TimeFixed, DaysOfWeek: []int{1, 3, 5}, StartTime: "09:00", DurationMin: 30, IsActive: true, SourceKey: "k"},
		},
		Selection: model.Selection{ActiveGoalID: "p1"},
	}
	require.NoError(t, repo.Save(s))

	// A fresh repo reads from disk, not the cache.
	repo2, err := NewFileRepo(dir)
	require.NoError(t, err)
	loaded, err := repo2.Load()
	require.NoError(t, err)
	assert.Equal(t, s, loaded, "round-trip preserves field identity")
}

func TestFileRepoLoadIsolatedFromCallerMutations(t *testing.T) {
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)

	s := model.State{Goals: []model.Goal{{ID: "g1", Title: "a", Status: model.StatusQueued}}}
	require.NoError(t, repo.Save(s))

	first, err := repo.Load()
	require.NoError(t, err)
	first.Goals[0].Title = "mutated"

	second, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", second.Goals[0].Title)
}
