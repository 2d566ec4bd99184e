package goal

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/config"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/interval"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/timeutil"
)

type Reason string

const (
	ReasonNotFound      Reason = "NOT_FOUND"
	ReasonInvalidStatus Reason = "INVALID_STATUS"
	ReasonBlocked       Reason = "BLOCKED"
	ReasonOverlap       Reason = "OVERLAP"
)

// OpResult is how refusable transitions answer instead of erroring: callers
// branch on OK.
type OpResult struct {
	OK        bool                `json:"ok"`
	Reason    Reason              `json:"reason,omitempty"`
	Blockers  []model.GoalID      `json:"blockers,omitempty"`
	Conflicts []interval.Conflict `json:"conflicts,omitempty"`
}

func accepted() OpResult { return OpResult{OK: true} }

func refused(reason Reason) OpResult { return OpResult{Reason: reason} }

// Engine exposes every goal and category mutation. All methods are pure
// snapshot transforms: the input state is never touched, and unchanged
// snapshots come back as-is.
type Engine struct {
	cfg *config.Config
}

func NewEngine(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{cfg: cfg}
}

// Patch is a partial goal update; nil pointer means "no change".
type Patch struct {
	Title          *string             `json:"title,omitempty"`
	CategoryID     *model.CategoryID   `json:"categoryId,omitempty"`
	Priority       *model.Priority     `json:"priority,omitempty"`
	ParentID       *model.GoalID       `json:"parentId,omitempty"`
	Weight         *int                `json:"weight,omitempty"`
	Progress       *float64            `json:"progress,omitempty"`
	PlanType       *model.PlanType     `json:"planType,omitempty"`
	SessionMinutes *int                `json:"sessionMinutes,omitempty"`
	StartAt        *time.Time          `json:"startAt,omitempty"`
	Schedule       *model.ScheduleSpec `json:"schedule,omitempty"`
	ResetPolicy    *model.ResetPolicy  `json:"resetPolicy,omitempty"`
	Metric         *model.Metric       `json:"metric,omitempty"`
}

// Create appends a new goal, assigning id and creation order when absent,
// then re-normalizes. The new goal starts queued unless the input carries a
// valid status.
func (e *Engine) Create(s model.State, input model.Goal, now time.Time) (model.State, bool) {
	next := s.Clone()

	g := input.Clone()
	if g.ID == "" {
		g.ID = model.GoalID(uuid.NewString())
	} else if s.GoalIndex(g.ID) >= 0 {
		return s, false
	}
	if g.Order == 0 {
		g.Order = next.MaxOrder() + 1
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	next.Goals = append(next.Goals, g)

	next, _ = Normalize(next)
	return next, true
}

// Update merges a patch into an existing goal and re-normalizes. Setting
// priority=prioritaire on an OUTCOME demotes every other OUTCOME of the same
// category, so the last one set wins. Unknown ids fail soft.
func (e *Engine) Update(s model.State, id model.GoalID, patch Patch, now time.Time) (model.State, bool) {
	idx := s.GoalIndex(id)
	if idx < 0 {
		return s, false
	}

	next := s.Clone()
	g := &next.Goals[idx]
	applyPatch(g, patch)

	if reflect.DeepEqual(next.Goals[idx], s.Goals[idx]) {
		// Patch was a no-op; normalization alone decides whether anything
		// else needs repair.
		return Normalize(s)
	}
	g.UpdatedAt = now

	promoted := sanitize(*g)
	if patch.Priority != nil && *patch.Priority == model.PriorityPrioritaire && promoted.GoalType == model.GoalOutcome {
		for i := range next.Goals {
			if i == idx {
				continue
			}
			other := &next.Goals[i]
			if GoalTypeFor(ClassifyPlan(*other)) == model.GoalOutcome &&
				other.CategoryID == promoted.CategoryID &&
				other.Priority == model.PriorityPrioritaire {
				other.Priority = model.PrioritySecondaire
			}
		}
	}

	next, _ = Normalize(next)
	return next, true
}

func applyPatch(g *model.Goal, p Patch) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.CategoryID != nil {
		g.CategoryID = *p.CategoryID
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.ParentID != nil {
		g.ParentID = *p.ParentID
	}
	if p.Weight != nil {
		g.Weight = *p.Weight
	}
	if p.Progress != nil {
		g.Progress = *p.Progress
	}
	if p.PlanType != nil {
		g.PlanType = *p.PlanType
	}
	if p.SessionMinutes != nil {
		g.SessionMinutes = *p.SessionMinutes
	}
	if p.StartAt != nil {
		if p.StartAt.IsZero() {
			g.StartAt = nil
		} else {
			v := *p.StartAt
			g.StartAt = &v
		}
	}
	if p.Schedule != nil {
		g.Schedule = p.Schedule.Clone()
	}
	if p.ResetPolicy != nil {
		g.ResetPolicy = *p.ResetPolicy
	}
	if p.Metric != nil {
		if *p.Metric == (model.Metric{}) {
			g.Metric = nil
		} else {
			v := *p.Metric
			g.Metric = &v
		}
	}
}

// Activate moves a queued goal to active. Already-active is a no-op success.
// A PROCESS goal is first checked against the single-active policy (when
// enabled) and then against every other active goal's session window.
func (e *Engine) Activate(s model.State, id model.GoalID, now time.Time) (model.State, OpResult) {
	idx := s.GoalIndex(id)
	if idx < 0 {
		return s, refused(ReasonNotFound)
	}
	g := s.Goals[idx]
	if g.Status == model.StatusActive {
		return s, accepted()
	}
	if g.Status != model.StatusQueued {
		return s, refused(ReasonInvalidStatus)
	}

	isProcess := GoalTypeFor(ClassifyPlan(g)) == model.GoalProcess

	if isProcess && e.cfg.Engine.AllowGlobalSingleActive {
		var blockers []model.GoalID
		for i := range s.Goals {
			other := &s.Goals[i]
			if other.ID != id && other.IsProcess() && other.Status == model.StatusActive {
				blockers = append(blockers, other.ID)
			}
		}
		if len(blockers) > 0 {
			res := refused(ReasonBlocked)
			res.Blockers = blockers
			return s, res
		}
	}

	if isProcess {
		if conflicts := e.sessionConflicts(&s, &g); len(conflicts) > 0 {
			res := refused(ReasonOverlap)
			res.Conflicts = conflicts
			return s, res
		}
	}

	next := s.Clone()
	target := &next.Goals[idx]
	target.Status = model.StatusActive
	if target.ActiveSince == nil {
		v := now
		target.ActiveSince = &v
	}
	target.UpdatedAt = now

	next, _ = Normalize(next)
	return next, accepted()
}

// sessionConflicts runs the interval overlap check between the candidate's
// session window and every other active goal's.
func (e *Engine) sessionConflicts(s *model.State, g *model.Goal) []interval.Conflict {
	candidate := sessionInterval(g, e.cfg.Scheduling.DefaultDurationMin)
	if candidate == nil {
		return nil
	}
	var existing []interval.Sourced
	for i := range s.Goals {
		other := &s.Goals[i]
		if other.ID == g.ID || other.Status != model.StatusActive {
			continue
		}
		if iv := sessionInterval(other, e.cfg.Scheduling.DefaultDurationMin); iv != nil {
			existing = append(existing, interval.Sourced{Interval: *iv, Source: string(other.ID)})
		}
	}
	return interval.FindConflicts(*candidate, existing)
}

func sessionInterval(g *model.Goal, defaultMin int) *interval.Interval {
	if g.StartAt == nil {
		return nil
	}
	return interval.Compute(
		timeutil.DateKey(*g.StartAt),
		timeutil.FormatClock(timeutil.MinuteOfDay(*g.StartAt)),
		g.SessionMinutes,
		defaultMin,
	)
}

// Finish completes an active goal.
func (e *Engine) Finish(s model.State, id model.GoalID, now time.Time) (model.State, OpResult) {
	return e.leaveActive(s, id, now, func(g *model.Goal) {
		g.Status = model.StatusDone
	})
}

// Abandon leaves the active state; the goal's reset policy picks the
// destination: reset re-queues it, invalidate retires it.
func (e *Engine) Abandon(s model.State, id model.GoalID, now time.Time) (model.State, OpResult) {
	return e.leaveActive(s, id, now, func(g *model.Goal) {
		if g.ResetPolicy == model.ResetRequeue {
			g.Status = model.StatusQueued
		} else {
			g.Status = model.StatusInvalid
		}
	})
}

func (e *Engine) leaveActive(s model.State, id model.GoalID, now time.Time, transition func(*model.Goal)) (model.State, OpResult) {
	idx := s.GoalIndex(id)
	if idx < 0 {
		return s, refused(ReasonNotFound)
	}
	if s.Goals[idx].Status != model.StatusActive {
		return s, refused(ReasonInvalidStatus)
	}

	next := s.Clone()
	g := &next.Goals[idx]
	transition(g)
	g.UpdatedAt = now
	if next.Selection.ActiveGoalID == id {
		next.Selection.ActiveGoalID = ""
	}

	next, _ = Normalize(next)
	return next, accepted()
}

// Delete removes a goal and clears every pointer referencing it. Unknown ids
// fail soft.
func (e *Engine) Delete(s model.State, id model.GoalID) (model.State, bool) {
	idx := s.GoalIndex(id)
	if idx < 0 {
		return s, false
	}

	next := s.Clone()
	next.Goals = append(next.Goals[:idx], next.Goals[idx+1:]...)
	if next.Selection.ActiveGoalID == id {
		next.Selection.ActiveGoalID = ""
	}

	next, _ = Normalize(next)
	return next, true
}

// CreateCategory appends a category, assigning an id when absent.
func (e *Engine) CreateCategory(s model.State, input model.Category) (model.State, bool) {
	if input.ID != "" && s.CategoryIndex(input.ID) >= 0 {
		return s, false
	}
	next := s.Clone()
	if input.ID == "" {
		input.ID = model.CategoryID(uuid.NewString())
	}
	input.MainGoalID = ""
	next.Categories = append(next.Categories, input)

	next, _ = Normalize(next)
	return next, true
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

func (e *Engine) UpdateCategory(s model.State, id model.CategoryID, patch CategoryPatch) (model.State, bool) {
	idx := s.CategoryIndex(id)
	if idx < 0 {
		return s, false
	}
	next := s.Clone()
	c := &next.Categories[idx]
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if next.Categories[idx] == s.Categories[idx] {
		return s, false
	}

	next, _ = Normalize(next)
	return next, true
}

// DeleteCategory removes a category; normalization detaches its goals.
func (e *Engine) DeleteCategory(s model.State, id model.CategoryID) (model.State, bool) {
	idx := s.CategoryIndex(id)
	if idx < 0 {
		return s, false
	}
	next := s.Clone()
	next.Categories = append(next.Categories[:idx], next.Categories[idx+1:]...)

	next, _ = Normalize(next)
	return next, true
}
