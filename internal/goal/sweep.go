package goal

import (
	"time"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

// AutoActivateScheduled is the periodic sweep: in every category without a
// currently-active PROCESS goal, the earliest-starting queued action whose
// start has arrived goes active. Categories already running something are
// left alone; a no-op sweep hands the snapshot back unchanged.
func (e *Engine) AutoActivateScheduled(s model.State, now time.Time) (model.State, bool) {
	hasActive := map[model.CategoryID]bool{}
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.IsProcess() && g.Status == model.StatusActive {
			hasActive[g.CategoryID] = true
		}
	}

	// One pick per category: earliest start, creation order breaking ties.
	picks := map[model.CategoryID]int{}
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.Status != model.StatusQueued || !g.IsProcess() {
			continue
		}
		if g.StartAt == nil || g.StartAt.After(now) {
			continue
		}
		if hasActive[g.CategoryID] {
			continue
		}
		j, ok := picks[g.CategoryID]
		if !ok {
			picks[g.CategoryID] = i
			continue
		}
		best := &s.Goals[j]
		if g.StartAt.Before(*best.StartAt) || (g.StartAt.Equal(*best.StartAt) && g.Order < best.Order) {
			picks[g.CategoryID] = i
		}
	}
	if len(picks) == 0 {
		return s, false
	}

	next := s.Clone()
	for _, idx := range picks {
		g := &next.Goals[idx]
		g.Status = model.StatusActive
		if g.ActiveSince == nil {
			v := now
			g.ActiveSince = &v
		}
		g.UpdatedAt = now
	}

	next, _ = Normalize(next)
	return next, true
}
