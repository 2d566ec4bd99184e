// Package goal is the invariant enforcer for the goal collection: it
// classifies goals, sanitizes kind-specific fields on every write, enforces
// per-category priority uniqueness and drives the queued/active/done/invalid
// state machine.
package goal

import (
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/timeutil"
)

// ClassifyPlan re-derives the plan type from what the goal actually declares.
// An explicit valid plan type is honored, except that a one-off date marker
// always forces ONE_OFF.
func ClassifyPlan(g model.Goal) model.PlanType {
	if g.Schedule != nil && g.Schedule.OneOffDate != "" {
		return model.PlanOneOff
	}
	switch g.PlanType {
	case model.PlanState, model.PlanAction, model.PlanOneOff:
		return g.PlanType
	}
	if g.Metric != nil {
		return model.PlanState
	}
	if g.Schedule != nil || g.SessionMinutes > 0 || g.StartAt != nil {
		return model.PlanAction
	}
	return model.PlanState
}

// GoalTypeFor maps a plan type to the derived goal kind.
func GoalTypeFor(plan model.PlanType) model.GoalType {
	if plan == model.PlanState {
		return model.GoalOutcome
	}
	return model.GoalProcess
}

// sanitize reclassifies one goal and strips the fields its kind must not
// carry. OUTCOME goals never hold scheduling fields; PROCESS goals never hold
// a metric.
func sanitize(g model.Goal) model.Goal {
	g.PlanType = ClassifyPlan(g)
	g.GoalType = GoalTypeFor(g.PlanType)

	switch g.Status {
	case model.StatusQueued, model.StatusActive, model.StatusDone, model.StatusInvalid:
	default:
		g.Status = model.StatusQueued
	}
	switch g.Priority {
	case model.PriorityPrioritaire, model.PrioritySecondaire, model.PriorityBonus:
	default:
		g.Priority = model.PrioritySecondaire
	}
	switch g.ResetPolicy {
	case model.ResetInvalidate, model.ResetRequeue:
	default:
		g.ResetPolicy = model.ResetInvalidate
	}

	if g.Weight < 0 {
		g.Weight = 0
	}
	if g.Weight > 100 {
		g.Weight = 100
	}
	g.Progress = timeutil.Clamp01(g.Progress)

	switch g.GoalType {
	case model.GoalOutcome:
		g.Schedule = nil
		g.SessionMinutes = 0
		g.StartAt = nil
		g.EndAt = nil
		g.ParentID = ""
	case model.GoalProcess:
		g.Metric = nil
		if g.StartAt != nil && g.SessionMinutes > 0 {
			end := g.StartAt.Add(minutes(g.SessionMinutes))
			g.EndAt = &end
		} else {
			g.EndAt = nil
		}
	}

	return g
}
