package goal

import (
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/timeutil"
)

// AggregateProgress computes progress toward an OUTCOME: the weighted average
// over its linked active-or-done PROCESS goals (done counts as 1.0),
// blended with the outcome's own metric when one with a positive target
// exists. Zero weights count as full contribution.
func (e *Engine) AggregateProgress(s model.State, outcomeID model.GoalID) float64 {
	g := s.GetGoal(outcomeID)
	if g == nil || g.GoalType != model.GoalOutcome {
		return 0
	}

	weightSum := 0.0
	weighted := 0.0
	linked := false
	for i := range s.Goals {
		p := &s.Goals[i]
		if p.ParentID != outcomeID || !p.IsProcess() {
			continue
		}
		if p.Status != model.StatusActive && p.Status != model.StatusDone {
			continue
		}
		progress := timeutil.Clamp01(p.Progress)
		if p.Status == model.StatusDone {
			progress = 1.0
		}
		w := float64(p.Weight)
		if w <= 0 {
			w = 100
		}
		weighted += w * progress
		weightSum += w
		linked = true
	}

	processPart := 0.0
	if linked && weightSum > 0 {
		processPart = weighted / weightSum
	}

	metricPart := -1.0
	if g.Metric != nil && g.Metric.Target > 0 {
		metricPart = timeutil.Clamp01(g.Metric.Current / g.Metric.Target)
	}

	switch {
	case linked && metricPart >= 0:
		share := e.cfg.Engine.MetricShare
		return (1-share)*processPart + share*metricPart
	case metricPart >= 0:
		return metricPart
	case linked:
		return processPart
	default:
		return 0
	}
}
