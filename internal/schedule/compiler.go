// Package schedule derives concrete schedule rules from the recurrence
// descriptor a user declared on an action, and reconciles the derived set
// against previously persisted rules without discarding rule identity.
package schedule

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/interval"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/timeutil"
)

// CompileRules derives the desired rule set for one action. Rules come back
// without id or timestamps; the reconciler assigns those. An action flagged
// anytime-flexible, or a non-PROCESS goal, yields no rules.
//
// Time representation is resolved in priority order:
//  1. per-day weekly slot map -> one fixed rule per (day, slot)
//  2. multiple named time slots -> one fixed rule per slot
//  3. open window (explicit bounds, or no fixed start at all) -> one window rule
//  4. single fixed-time rule
func CompileRules(g model.Goal) []model.ScheduleRule {
	if !g.IsProcess() {
		return nil
	}
	spec := g.Schedule
	if spec == nil {
		spec = &model.ScheduleSpec{}
	}
	if spec.Anytime {
		return nil
	}

	kind := model.RuleRecurring
	startDate := ""
	if g.PlanType == model.PlanOneOff || spec.OneOffDate != "" {
		kind = model.RuleOneTime
		startDate = spec.OneOffDate
		if startDate == "" && g.StartAt != nil {
			startDate = timeutil.DateKey(*g.StartAt)
		}
	}

	days := resolveDays(spec, kind)
	baseDur := resolveDuration(spec.DurationMin, g.SessionMinutes)

	base := model.ScheduleRule{
		ActionID:    g.ID,
		Kind:        kind,
		StartDate:   startDate,
		DaysOfWeek:  days,
		DurationMin: baseDur,
		Label:       g.Title,
		ReminderOn:  spec.ReminderOn,
		ReminderMin: spec.ReminderMin,
		IsActive:    true,
	}

	var out []model.ScheduleRule

	switch {
	case kind == model.RuleRecurring && len(spec.WeeklySlots) > 0:
		mapDays := make([]int, 0, len(spec.WeeklySlots))
		for day := range spec.WeeklySlots {
			if day >= 1 && day <= 7 {
				mapDays = append(mapDays, day)
			}
		}
		sort.Ints(mapDays)
		for _, day := range mapDays {
			for _, slot := range spec.WeeklySlots[day] {
				r := base
				r.TimeType = model.TimeFixed
				r.DaysOfWeek = []int{day}
				r.StartTime = slot.Start
				r.EndTime = slot.End
				r.DurationMin = slotDuration(slot, baseDur)
				out = append(out, r)
			}
		}

	case len(spec.TimeSlots) > 1:
		for _, slot := range spec.TimeSlots {
			r := base
			r.TimeType = model.TimeFixed
			r.StartTime = slot.Start
			r.EndTime = slot.End
			r.DurationMin = slotDuration(slot, baseDur)
			out = append(out, r)
		}

	case spec.WindowStart != "" || spec.WindowEnd != "" || fixedStart(g, spec) == "":
		r := base
		r.TimeType = model.TimeWindow
		r.WindowStart = spec.WindowStart
		r.WindowEnd = spec.WindowEnd
		out = append(out, r)

	default:
		r := base
		r.TimeType = model.TimeFixed
		r.StartTime = fixedStart(g, spec)
		if len(spec.TimeSlots) == 1 {
			r.EndTime = spec.TimeSlots[0].End
			r.DurationMin = slotDuration(spec.TimeSlots[0], baseDur)
		}
		out = append(out, r)
	}

	for i := range out {
		out[i].SourceKey = SourceKey(out[i])
	}
	return out
}

func resolveDays(spec *model.ScheduleSpec, kind model.RuleKind) []int {
	if kind == model.RuleOneTime {
		return nil
	}
	if len(spec.DaysOfWeek) > 0 {
		seen := map[int]bool{}
		out := make([]int, 0, len(spec.DaysOfWeek))
		for _, d := range spec.DaysOfWeek {
			if d >= 1 && d <= 7 && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
		sort.Ints(out)
		if len(out) > 0 {
			return out
		}
		return nil
	}
	if strings.EqualFold(strings.TrimSpace(spec.Repeat), "daily") {
		return []int{1, 2, 3, 4, 5, 6, 7}
	}
	return nil
}

func resolveDuration(specMin, sessionMin int) int {
	if specMin > 0 {
		return specMin
	}
	if sessionMin > 0 {
		return sessionMin
	}
	return interval.DefaultDurationMin
}

// slotDuration prefers the span of the slot when both bounds parse.
func slotDuration(slot model.TimeSlot, fallback int) int {
	start, okStart := timeutil.ParseClock(slot.Start)
	end, okEnd := timeutil.ParseClock(slot.End)
	if okStart && okEnd && end > start {
		return end - start
	}
	return fallback
}

// fixedStart is the single declared start time: the sole named slot, or the
// clock component of the goal's start.
func fixedStart(g model.Goal, spec *model.ScheduleSpec) string {
	if len(spec.TimeSlots) == 1 && spec.TimeSlots[0].Start != "" {
		return spec.TimeSlots[0].Start
	}
	if g.StartAt != nil {
		return timeutil.FormatClock(timeutil.MinuteOfDay(*g.StartAt))
	}
	return ""
}

// SourceKey joins every identity-defining field of a rule in a fixed order.
// Two rules with identical content always share a key, regardless of id,
// timestamps or the order days were declared in.
func SourceKey(r model.ScheduleRule) string {
	days := append([]int(nil), r.DaysOfWeek...)
	sort.Ints(days)
	dayParts := make([]string, len(days))
	for i, d := range days {
		dayParts[i] = strconv.Itoa(d)
	}
	return strings.Join([]string{
		string(r.ActionID),
		string(r.Kind),
		r.StartDate,
		r.EndDate,
		strings.Join(dayParts, ","),
		string(r.TimeType),
		r.StartTime,
		r.EndTime,
		r.WindowStart,
		r.WindowEnd,
		strconv.Itoa(r.DurationMin),
	}, "|")
}

// ContentSignature hashes the full rule content, identity fields plus the
// fields the source key leaves out. Length-prefixed so neighboring fields
// cannot collide.
func ContentSignature(r model.ScheduleRule) string {
	h := sha256.New()
	write := func(s string) {
		n := len(s)
		h.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
		h.Write([]byte(s))
	}
	write(SourceKey(r))
	write(r.Label)
	write(strconv.FormatBool(r.ReminderOn))
	write(strconv.Itoa(r.ReminderMin))
	write(strconv.FormatBool(r.IsActive))
	return hex.EncodeToString(h.Sum(nil))
}
