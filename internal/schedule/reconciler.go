package schedule

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
)

// SyncRulesForActions reconciles stored rules against the compiled rule set
// for each affected action. Matched rules (same action, same source key, still
// active) are updated in place with id and createdAt preserved and updatedAt
// refreshed; unmatched desired rules are created; stale active rules are
// deactivated, never removed. Rules of actions outside the scope pass through
// untouched, in their original positions.
//
// A nil actionIDs reconciles every action present in goals or rules. The
// returned bool is false when the snapshot comes back untouched. Because
// matches always refresh updatedAt, re-running is only a byte-identical no-op
// for a fixed now; use EnsureRulesForActions when updatedAt must stay put.
func SyncRulesForActions(s model.State, now time.Time, actionIDs []model.GoalID) (model.State, bool) {
	return reconcile(s, now, actionIDs, false)
}

// EnsureRulesForActions is the finer-grained variant: it compares a
// full-content signature so updatedAt is only bumped when a field actually
// changed, not merely because the source key repeated.
func EnsureRulesForActions(s model.State, now time.Time, actionIDs []model.GoalID) (model.State, bool) {
	return reconcile(s, now, actionIDs, true)
}

func reconcile(s model.State, now time.Time, actionIDs []model.GoalID, signatureGated bool) (model.State, bool) {
	scope := scopeSet(&s, actionIDs)
	if len(scope) == 0 {
		return s, false
	}

	// Desired rules per action, keyed by source key. First declaration wins
	// on a key collision, matching the at-most-one-active-per-key invariant.
	type desired struct {
		rule     model.ScheduleRule
		consumed bool
	}
	desiredByAction := make(map[model.GoalID][]*desired, len(scope))
	for id := range scope {
		g := s.GetGoal(id)
		if g == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, r := range CompileRules(*g) {
			if seen[r.SourceKey] {
				continue
			}
			seen[r.SourceKey] = true
			desiredByAction[id] = append(desiredByAction[id], &desired{rule: r})
		}
	}
	findDesired := func(actionID model.GoalID, key string) *desired {
		for _, d := range desiredByAction[actionID] {
			if !d.consumed && d.rule.SourceKey == key {
				return d
			}
		}
		return nil
	}

	changed := false
	out := make([]model.ScheduleRule, 0, len(s.Rules))
	for _, existing := range s.Rules {
		if !scope[existing.ActionID] || !existing.IsActive {
			out = append(out, existing)
			continue
		}
		d := findDesired(existing.ActionID, existing.SourceKey)
		if d == nil {
			deactivated := existing.Clone()
			deactivated.IsActive = false
			deactivated.UpdatedAt = now
			out = append(out, deactivated)
			changed = true
			continue
		}
		d.consumed = true
		updated := d.rule.Clone()
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		if signatureGated && ContentSignature(updated) == ContentSignature(existing) {
			updated.UpdatedAt = existing.UpdatedAt
		} else {
			updated.UpdatedAt = now
		}
		if !rulesEqual(updated, existing) {
			changed = true
		}
		out = append(out, updated)
	}

	// Unmatched desired rules become fresh records, in per-action compile
	// order, actions ordered as they appear in the goal list.
	for i := range s.Goals {
		for _, d := range desiredByAction[s.Goals[i].ID] {
			if d.consumed {
				continue
			}
			created := d.rule.Clone()
			created.ID = model.RuleID(uuid.NewString())
			created.CreatedAt = now
			created.UpdatedAt = now
			out = append(out, created)
			changed = true
		}
	}

	if !changed {
		return s, false
	}
	next := s
	next.Rules = out
	return next, true
}

// scopeSet resolves which actions the pass touches. Explicit ids stay in
// scope even when the goal is gone, so orphaned rules get deactivated.
func scopeSet(s *model.State, actionIDs []model.GoalID) map[model.GoalID]bool {
	scope := make(map[model.GoalID]bool)
	if actionIDs != nil {
		for _, id := range actionIDs {
			if id != "" {
				scope[id] = true
			}
		}
		return scope
	}
	for i := range s.Goals {
		if s.Goals[i].IsProcess() {
			scope[s.Goals[i].ID] = true
		}
	}
	for i := range s.Rules {
		scope[s.Rules[i].ActionID] = true
	}
	return scope
}

func rulesEqual(a, b model.ScheduleRule) bool {
	return reflect.DeepEqual(a, b)
}
