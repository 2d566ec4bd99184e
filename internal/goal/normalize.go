package goal

import (
	"reflect"
	"sort"
	"time"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

// Normalize is the idempotent invariant pass run after every mutation. It
// re-derives each goal's classification, re-sanitizes per kind, drops
// dangling links, keeps exactly one prioritaire OUTCOME per category
// (earliest order wins), recomputes each category's main goal and resolves
// the highlighted-active pointer.
//
// The input snapshot is returned untouched (changed=false) when every
// invariant already held.
func Normalize(s model.State) (model.State, bool) {
	next := s.Clone()

	categories := map[model.CategoryID]bool{}
	for i := range next.Categories {
		categories[next.Categories[i].ID] = true
	}
	outcomes := map[model.GoalID]bool{}

	for i := range next.Goals {
		g := sanitize(next.Goals[i])
		if g.CategoryID != "" && !categories[g.CategoryID] {
			g.CategoryID = ""
		}
		next.Goals[i] = g
		if g.GoalType == model.GoalOutcome {
			outcomes[g.ID] = true
		}
	}
	for i := range next.Goals {
		if next.Goals[i].ParentID != "" && !outcomes[next.Goals[i].ParentID] {
			next.Goals[i].ParentID = ""
		}
	}

	enforcePriorityUniqueness(&next)
	recomputeMainGoals(&next)
	next.Selection = resolveSelection(&next)

	if reflect.DeepEqual(next, s) {
		return s, false
	}
	return next, true
}

// enforcePriorityUniqueness demotes all but one prioritaire OUTCOME per
// category to secondaire; the earliest creation order survives.
func enforcePriorityUniqueness(s *model.State) {
	keeper := map[model.CategoryID]int{}
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.GoalType != model.GoalOutcome || g.Priority != model.PriorityPrioritaire {
			continue
		}
		j, ok := keeper[g.CategoryID]
		if !ok {
			keeper[g.CategoryID] = i
			continue
		}
		if g.Order < s.Goals[j].Order {
			s.Goals[j].Priority = model.PrioritySecondaire
			keeper[g.CategoryID] = i
		} else {
			g.Priority = model.PrioritySecondaire
		}
	}
}

func recomputeMainGoals(s *model.State) {
	main := map[model.CategoryID]model.GoalID{}
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.GoalType == model.GoalOutcome && g.Priority == model.PriorityPrioritaire && g.CategoryID != "" {
			main[g.CategoryID] = g.ID
		}
	}
	for i := range s.Categories {
		s.Categories[i].MainGoalID = main[s.Categories[i].ID]
	}
}

// resolveSelection keeps an explicit still-valid pointer, else falls back to
// the most recently activated PROCESS goal, else clears.
func resolveSelection(s *model.State) model.Selection {
	if id := s.Selection.ActiveGoalID; id != "" {
		if g := s.GetGoal(id); g != nil && g.Status == model.StatusActive {
			return s.Selection
		}
	}

	var picks []*model.Goal
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.IsProcess() && g.Status == model.StatusActive {
			picks = append(picks, g)
		}
	}
	if len(picks) == 0 {
		return model.Selection{}
	}
	sort.SliceStable(picks, func(i, j int) bool {
		a, b := activeSince(picks[i]), activeSince(picks[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return picks[i].Order < picks[j].Order
	})
	return model.Selection{ActiveGoalID: picks[0].ID}
}

func activeSince(g *model.Goal) time.Time {
	if g.ActiveSince == nil {
		return time.Time{}
	}
	return *g.ActiveSince
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
