package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/config"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

func newEngine() *Engine {
	return NewEngine(config.Default())
}

func singleActiveEngine() *Engine {
	cfg := config.Default()
	cfg.Engine.AllowGlobalSingleActive = true
	return NewEngine(cfg)
}

func at(hour, min int) *time.Time {
	v := time.Date(2026, 3, 1, hour, min, 0, 0, time.Local)
	return &v
}

func TestCreateAssignsIdentityAndOrder(t *testing.T) {
	e := newEngine()
	s := model.NewState()

	s, changed := e.Create(s, model.Goal{Title: "read"}, testNow)
	require.True(t, changed)
	s, _ = e.Create(s, model.Goal{Title: "write"}, testNow)

	require.Len(t, s.Goals, 2)
	assert.NotEmpty(t, s.Goals[0].ID)
	assert.Equal(t, 1, s.Goals[0].Order)
	assert.Equal(t, 2, s.Goals[1].Order)
	assert.Equal(t, model.StatusQueued, s.Goals[0].Status)

	// Duplicate ids fail soft.
	dup, changed := e.Create(s, model.Goal{ID: s.Goals[0].ID}, testNow)
	assert.False(t, changed)
	assert.Equal(t, s, dup)
}

func TestUpdatePrioritaireDemotesSiblings(t *testing.T) {
	e := newEngine()
	s := model.State{
		Categories: []model.Category{{ID: "c1"}},
		Goals: []model.Goal{
			outcome("o1", "c1", 1, model.PriorityPrioritaire),
			outcome("o2", "c1", 2, model.PrioritySecondaire),
		},
	}
	s, _ = Normalize(s)

	prio := model.PriorityPrioritaire
	s, changed := e.Update(s, "o2", Patch{Priority: &prio}, testNow)
	require.True(t, changed)

	assert.Equal(t, model.PrioritySecondaire, s.GetGoal("o1").Priority, "last one set wins")
	assert.Equal(t, model.PriorityPrioritaire, s.GetGoal("o2").Priority)
	assert.Equal(t, model.GoalID("o2"), s.Categories[0].MainGoalID)
}

func TestUpdateUnknownGoalFailsSoft(t *testing.T) {
	e := newEngine()
	s := model.State{Goals: []model.Goal{process("p1", "", 1)}}
	s, _ = Normalize(s)

	title := "x"
	next, changed := e.Update(s, "ghost", Patch{Title: &title}, testNow)
	assert.False(t, changed)
	assert.Equal(t, s, next, "caller keeps a valid snapshot")
}

func TestActivateLifecycle(t *testing.T) {
	e := newEngine()
	s := model.State{Goals: []model.Goal{process("p1", "", 1)}}
	s, _ = Normalize(s)

	s, res := e.Activate(s, "p1", testNow)
	require.True(t, res.OK)
	g := s.GetGoal("p1")
	assert.Equal(t, model.StatusActive, g.Status)
	require.NotNil(t, g.ActiveSince)
	first := *g.ActiveSince

	// Re-activating is a no-op success and never re-stamps activeSince.
	s2, res := e.Activate(s, "p1", testNow.Add(time.Hour))
	assert.True(t, res.OK)
	assert.Equal(t, s, s2)
	assert.Equal(t, first, *s2.GetGoal("p1").ActiveSince)

	_, res = e.Activate(s, "ghost", testNow)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNotFound, res.Reason)

	s, res = e.Finish(s, "p1", testNow)
	require.True(t, res.OK)
	assert.Equal(t, model.StatusDone, s.GetGoal("p1").Status)

	_, res = e.Activate(s, "p1", testNow)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonInvalidStatus, res.Reason, "done is terminal")
}

func TestActivateOverlapScenario(t *testing.T) {
	e := newEngine()
	p1 := process("p1", "", 1)
	p1.StartAt = at(9, 0)
	p1.SessionMinutes = 30
	p2 := process("p2", "", 2)
	p2.StartAt = at(9, 15)
	p2.SessionMinutes = 30

	s := model.State{Goals: []model.Goal{p1, p2}}
	s, _ = Normalize(s)

	s, res := e.Activate(s, "p1", testNow)
	require.True(t, res.OK)

	next, res := e.Activate(s, "p2", testNow)
	require.False(t, res.OK)
	assert.Equal(t, ReasonOverlap, res.Reason)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "p1", res.Conflicts[0].Source, "the first goal is listed as the conflict")
	assert.Equal(t, s, next, "refused activation leaves the snapshot alone")

	// Touching sessions do not conflict: 09:30 starts where p1 ends.
	p3 := process("p3", "", 3)
	p3.StartAt = at(9, 30)
	p3.SessionMinutes = 15
	s, _ = e.Create(s, p3, testNow)
	s, res = e.Activate(s, "p3", testNow)
	assert.True(t, res.OK)
	_ = s
}

func TestActivateBlockedUnderSingleActivePolicy(t *testing.T) {
	e := singleActiveEngine()
	s := model.State{Goals: []model.Goal{process("p1", "c1", 1), process("p2", "c2", 2)}}
	s, _ = Normalize(s)

	s, res := e.Activate(s, "p1", testNow)
	require.True(t, res.OK)

	_, res = e.Activate(s, "p2", testNow)
	require.False(t, res.OK)
	assert.Equal(t, ReasonBlocked, res.Reason)
	assert.Equal(t, []model.GoalID{"p1"}, res.Blockers)
}

func TestMultipleActiveProcessesAllowedByDefault(t *testing.T) {
	e := newEngine()
	s := model.State{Goals: []model.Goal{process("p1", "c1", 1), process("p2", "c2", 2)}}
	s, _ = Normalize(s)

	s, res := e.Activate(s, "p1", testNow)
	require.True(t, res.OK)
	s, res = e.Activate(s, "p2", testNow)
	require.True(t, res.OK)
	assert.Equal(t, model.StatusActive, s.GetGoal("p1").Status)
	assert.Equal(t, model.StatusActive, s.GetGoal("p2").Status)
}

func TestAbandonFollowsResetPolicy(t *testing.T) {
	e := newEngine()
	requeue := process("p1", "", 1)
	requeue.ResetPolicy = model.ResetRequeue
	invalidate := process("p2", "", 2)
	invalidate.ResetPolicy = model.ResetInvalidate

	s := model.State{Goals: []model.Goal{requeue, invalidate}}
	s, _ = Normalize(s)
	s, _ = e.Activate(s, "p1", testNow)
	s, _ = e.Activate(s, "p2", testNow)

	s, res := e.Abandon(s, "p1", testNow)
	require.True(t, res.OK)
	assert.Equal(t, model.StatusQueued, s.GetGoal("p1").Status)

	s, res = e.Abandon(s, "p2", testNow)
	require.True(t, res.OK)
	assert.Equal(t, model.StatusInvalid, s.GetGoal("p2").Status)

	_, res = e.Abandon(s, "p2", testNow)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonInvalidStatus, res.Reason, "abandon only leaves active")
}

func TestFinishClearsSelectionPointer(t *testing.T) {
	e := newEngine()
	s := model.State{Goals: []model.Goal{process("p1", "", 1)}}
	s, _ = Normalize(s)
	s, _ = e.Activate(s, "p1", testNow)
	require.Equal(t, model.GoalID("p1"), s.Selection.ActiveGoalID)

	s, res := e.Finish(s, "p1", testNow)
	require.True(t, res.OK)
	assert.Empty(t, s.Selection.ActiveGoalID)
}

func TestDeleteClearsReferences(t *testing.T) {
	e := newEngine()
	o := outcome("o1", "c1", 1, model.PriorityPrioritaire)
	p := process("p1", "c1", 2)
	p.ParentID = "o1"
	s := model.State{
		Categories: []model.Category{{ID: "c1"}},
		Goals:      []model.Goal{o, p},
	}
	s, _ = Normalize(s)
	require.Equal(t, model.GoalID("o1"), s.Categories[0].MainGoalID)

	s, changed := e.Delete(s, "o1")
	require.True(t, changed)
	assert.Empty(t, s.Categories[0].MainGoalID)
	assert.Empty(t, s.GetGoal("p1").ParentID, "dangling parent link is cleared")

	next, changed := e.Delete(s, "o1")
	assert.False(t, changed)
	assert.Equal(t, s, next)
}

func TestCategoryLifecycle(t *testing.T) {
	e := newEngine()
	s := model.NewState()

	s, changed := e.CreateCategory(s, model.Category{Name: "Health", Color: "#3fa34d"})
	require.True(t, changed)
	require.Len(t, s.Categories, 1)
	id := s.Categories[0].ID
	require.NotEmpty(t, id)

	name := "Fitness"
	s, changed = e.UpdateCategory(s, id, CategoryPatch{Name: &name})
	require.True(t, changed)
	assert.Equal(t, "Fitness", s.Categories[0].Name)

	g := process("p1", string(id), 1)
	s, _ = e.Create(s, g, testNow)
	require.Equal(t, id, s.GetGoal("p1").CategoryID)

	s, changed = e.DeleteCategory(s, id)
	require.True(t, changed)
	assert.Empty(t, s.Categories)
	assert.Empty(t, s.GetGoal("p1").CategoryID, "goals detach from a deleted category")
}
