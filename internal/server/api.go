package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/goal"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/interval"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/schedule"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/telemetry"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/timeutil"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func (a *App) handleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Snapshot())
}

func (a *App) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var input model.Goal
	if err := decodeJSON(r, &input); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid goal payload")
		return
	}
	now := time.Now()

	var createdID model.GoalID
	next, changed, err := a.mutate(func(s model.State) (model.State, bool) {
		next, ok := a.engine.Create(s, input, now)
		if !ok {
			return s, false
		}
		createdID = next.Goals[len(next.Goals)-1].ID
		next, _ = schedule.SyncRulesForActions(next, now, []model.GoalID{createdID})
		return next, true
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	if !changed {
		writeErr(w, http.StatusConflict, "goal already exists")
		return
	}

	a.record(telemetry.EventGoalCreated, telemetry.EventMetadata{"goalId": string(createdID)})
	writeJSON(w, http.StatusCreated, next.GetGoal(createdID))
}

func (a *App) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := model.GoalID(r.PathValue("id"))
	var patch goal.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid patch payload")
		return
	}
	now := time.Now()

	next, changed, err := a.mutate(func(s model.State) (model.State, bool) {
		next, ok := a.engine.Update(s, id, patch, now)
		if !ok {
			return s, false
		}
		next, _ = schedule.SyncRulesForActions(next, now, []model.GoalID{id})
		return next, true
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	g := next.GetGoal(id)
	if g == nil {
		writeErr(w, http.StatusNotFound, "goal not found: "+string(id))
		return
	}
	if changed {
		a.record(telemetry.EventGoalUpdated, telemetry.EventMetadata{"goalId": string(id)})
	}
	writeJSON(w, http.StatusOK, g)
}

func (a *App) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := model.GoalID(r.PathValue("id"))
	now := time.Now()

	_, changed, err := a.mutate(func(s model.State) (model.State, bool) {
		next, ok := a.engine.Delete(s, id)
		if !ok {
			return s, false
		}
		// The explicit id keeps the deleted action's rules in scope so they
		// get tombstoned.
		next, _ = schedule.SyncRulesForActions(next, now, []model.GoalID{id})
		return next, true
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	if !changed {
		writeErr(w, http.StatusNotFound, "goal not found: "+string(id))
		return
	}
	a.record(telemetry.EventGoalDeleted, telemetry.EventMetadata{"goalId": string(id)})
	writeJSON(w, http.StatusOK, map[string]any{"deleted": string(id)})
}

// transition wires activate/finish/abandon to one handler shape: the caller
// branches on the result's ok field rather than an error.
func (a *App) transition(
	w http.ResponseWriter,
	id model.GoalID,
	event telemetry.EventType,
	op func(model.State, model.GoalID, time.Time) (model.State, goal.OpResult),
) {
	now := time.Now()
	var res goal.OpResult
	_, _, err := a.mutate(func(s model.State) (model.State, bool) {
		var next model.State
		next, res = op(s, id, now)
		if !res.OK {
			return s, false
		}
		next, _ = schedule.SyncRulesForActions(next, now, []model.GoalID{id})
		return next, true
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	if !res.OK {
		a.record(telemetry.EventActivationDenied, telemetry.EventMetadata{
			"goalId": string(id),
			"reason": string(res.Reason),
		})
		code := http.StatusConflict
		if res.Reason == goal.ReasonNotFound {
			code = http.StatusNotFound
		}
		writeJSON(w, code, res)
		return
	}
	a.record(event, telemetry.EventMetadata{"goalId": string(id)})
	writeJSON(w, http.StatusOK, res)
}

func (a *App) handleActivateGoal(w http.ResponseWriter, r *http.Request) {
	a.transition(w, model.GoalID(r.PathValue("id")), telemetry.EventGoalActivated, a.engine.Activate)
}

func (a *App) handleFinishGoal(w http.ResponseWriter, r *http.Request) {
	a.transition(w, model.GoalID(r.PathValue("id")), telemetry.EventGoalFinished, a.engine.Finish)
}

func (a *App) handleAbandonGoal(w http.ResponseWriter, r *http.Request) {
	a.transition(w, model.GoalID(r.PathValue("id")), telemetry.EventGoalAbandoned, a.engine.Abandon)
}

func (a *App) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	id := model.GoalID(r.PathValue("id"))
	s := a.Snapshot()
	if s.GetGoal(id) == nil {
		writeErr(w, http.StatusNotFound, "goal not found: "+string(id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"goalId":   string(id),
		"progress": a.engine.AggregateProgress(s, id),
	})
}

func (a *App) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input model.Category
	if err := decodeJSON(r, &input); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid category payload")
		return
	}
	next, changed, err := a.mutate(func(s model.State) (model.State, bool) {
		return a.engine.CreateCategory(s, input)
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	if !changed {
		writeErr(w, http.StatusConflict, "category already exists")
		return
	}
	writeJSON(w, http.StatusCreated, next.Categories[len(next.Categories)-1])
}

func (a *App) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := model.CategoryID(r.PathValue("id"))
	var patch goal.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid patch payload")
		return
	}
	next, _, err := a.mutate(func(s model.State) (model.State, bool) {
		return a.engine.UpdateCategory(s, id, patch)
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	c := next.GetCategory(id)
	if c == nil {
		writeErr(w, http.StatusNotFound, "category not found: "+string(id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *App) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := model.CategoryID(r.PathValue("id"))
	_, changed, err := a.mutate(func(s model.State) (model.State, bool) {
		return a.engine.DeleteCategory(s, id)
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	if !changed {
		writeErr(w, http.StatusNotFound, "category not found: "+string(id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": string(id)})
}

func (a *App) handleListRules(w http.ResponseWriter, r *http.Request) {
	s := a.Snapshot()
	rules := s.Rules
	if r.URL.Query().Get("active") == "true" {
		rules = nil
		for _, rule := range s.Rules {
			if rule.IsActive {
				rules = append(rules, rule)
			}
		}
	}
	if rules == nil {
		rules = []model.ScheduleRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (a *App) handleSyncRules(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	next, changed, err := a.mutate(func(s model.State) (model.State, bool) {
		return schedule.SyncRulesForActions(s, now, nil)
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "persist failed: "+err.Error())
		return
	}
	deactivated := 0
	for _, rule := range next.Rules {
		if !rule.IsActive {
			deactivated++
		}
	}
	a.record(telemetry.EventRulesSynced, telemetry.EventMetadata{
		"changed":     changed,
		"deactivated": deactivated,
	})
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "ruleCount": len(next.Rules)})
}

// handleSuggestSlots answers "this slot is taken, when instead?" against the
// session windows of currently active goals.
func (a *App) handleSuggestSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateKey := q.Get("date")
	start := q.Get("start")
	duration := 0
	if v := q.Get("duration"); v != "" {
		duration, _ = strconv.Atoi(v)
	}

	candidate := interval.Compute(dateKey, start, duration, a.cfg.Scheduling.DefaultDurationMin)
	if candidate == nil {
		writeErr(w, http.StatusBadRequest, "date and start are required (YYYY-MM-DD, HH:MM)")
		return
	}

	s := a.Snapshot()
	var existing []interval.Sourced
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.Status != model.StatusActive || g.StartAt == nil {
			continue
		}
		iv := interval.Compute(
			timeutil.DateKey(*g.StartAt),
			timeutil.FormatClock(timeutil.MinuteOfDay(*g.StartAt)),
			g.SessionMinutes,
			a.cfg.Scheduling.DefaultDurationMin,
		)
		if iv != nil {
			existing = append(existing, interval.Sourced{Interval: *iv, Source: string(g.ID)})
		}
	}

	conflicts := interval.FindConflicts(*candidate, existing)
	if conflicts == nil {
		conflicts = []interval.Conflict{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"candidate": candidate,
		"conflicts": conflicts,
		"suggestions": interval.SuggestNextSlots(
			*candidate, existing,
			a.cfg.Scheduling.SlotStepMin,
			a.cfg.Scheduling.SlotSuggestionLimit,
		),
	})
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	if a.events == nil {
		writeErr(w, http.StatusServiceUnavailable, "telemetry disabled")
		return
	}
	since := time.Now().AddDate(0, 0, -7)
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, ok := timeutil.ParseDateKey(v)
		if !ok {
			writeErr(w, http.StatusBadRequest, "since must be YYYY-MM-DD")
			return
		}
		since = parsed
	}
	events, err := a.events.GetEvents(since, nil)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "read events: "+err.Error())
		return
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "calculate stats: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
