package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

func TestSweepActivatesEarliestDueActionPerCategory(t *testing.T) {
	e := newEngine()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	early := process("early", "c1", 1)
	early.StartAt = at(8, 0)
	late := process("late", "c1", 2)
	late.StartAt = at(9, 0)
	future := process("future", "c2", 3)
	future.StartAt = at(18, 0)
	other := process("other", "c2", 4)
	other.StartAt = at(9, 15)

	s := model.State{
		Categories: []model.Category{{ID: "c1"}, {ID: "c2"}},
		Goals:      []model.Goal{early, late, future, other},
	}
	s, _ = Normalize(s)

	s, changed := e.AutoActivateScheduled(s, now)
	require.True(t, changed)

	assert.Equal(t, model.StatusActive, s.GetGoal("early").Status, "earliest start wins")
	assert.Equal(t, model.StatusQueued, s.GetGoal("late").Status)
	assert.Equal(t, model.StatusActive, s.GetGoal("other").Status)
	assert.Equal(t, model.StatusQueued, s.GetGoal("future").Status, "not yet due")
}

func TestSweepSkipsCategoriesWithActiveProcess(t *testing.T) {
	e := newEngine()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	running := process("running", "c1", 1)
	running.Status = model.StatusActive
	due := process("due", "c1", 2)
	due.StartAt = at(8, 0)

	s := model.State{
		Categories: []model.Category{{ID: "c1"}},
		Goals:      []model.Goal{running, due},
	}
	s, _ = Normalize(s)

	next, changed := e.AutoActivateScheduled(s, now)
	assert.False(t, changed)
	assert.Equal(t, s, next, "no-op sweep returns the snapshot unchanged")
}

func TestSweepTreatsUncategorizedAsOwnBucket(t *testing.T) {
	e := newEngine()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	loose := process("loose", "", 1)
	loose.StartAt = at(9, 0)

	s := model.State{Goals: []model.Goal{loose}}
	s, _ = Normalize(s)

	s, changed := e.AutoActivateScheduled(s, now)
	require.True(t, changed)
	assert.Equal(t, model.StatusActive, s.GetGoal("loose").Status)
	require.NotNil(t, s.GetGoal("loose").ActiveSince)
	assert.Equal(t, now, *s.GetGoal("loose").ActiveSince)
}

func TestSweepIsIdempotentOncePerCategory(t *testing.T) {
	e := newEngine()
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)

	a := process("a", "c1", 1)
	a.StartAt = at(8, 0)
	b := process("b", "c1", 2)
	b.StartAt = at(8, 30)

	s := model.State{
		Categories: []model.Category{{ID: "c1"}},
		Goals:      []model.Goal{a, b},
	}
	s, _ = Normalize(s)

	s, changed := e.AutoActivateScheduled(s, now)
	require.True(t, changed)
	assert.Equal(t, model.StatusQueued, s.GetGoal("b").Status, "only one activation per category")

	next, changed := e.AutoActivateScheduled(s, now.Add(time.Minute))
	assert.False(t, changed)
	assert.Equal(t, s, next)
}
