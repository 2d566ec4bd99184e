package model

import "time"

type GoalID string
type CategoryID string

// GoalType is derived from PlanType on every normalization pass and is never
// set independently.
type GoalType string

const (
	GoalOutcome GoalType = "OUTCOME"
	GoalProcess GoalType = "PROCESS"
)

type PlanType string

const (
	PlanState  PlanType = "STATE"
	PlanAction PlanType = "ACTION"
	PlanOneOff PlanType = "ONE_OFF"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusActive  Status = "active"
	StatusDone    Status = "done"
	StatusInvalid Status = "invalid"
)

type Priority string

const (
	PriorityPrioritaire Priority = "prioritaire"
	PrioritySecondaire  Priority = "secondaire"
	PriorityBonus       Priority = "bonus"
)

type ResetPolicy string

const (
	ResetInvalidate ResetPolicy = "invalidate"
	ResetRequeue    ResetPolicy = "reset"
)

// Metric tracks measurable progress on an OUTCOME goal.
type Metric struct {
	Unit    string  `json:"unit"`
	Target  float64 `json:"target"`
	Current float64 `json:"current"`
}

// TimeSlot is a named daily slot. End may be empty when only a start time is
// declared.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// ScheduleSpec is the recurrence descriptor embedded in a PROCESS goal. It is
// what the user declared, not what got compiled; schedule rules are derived
// from it.
type ScheduleSpec struct {
	Timezone    string             `json:"timezone,omitempty"`
	Repeat      string             `json:"repeat,omitempty"` // "daily" | "weekly" | ""
	DaysOfWeek  []int              `json:"daysOfWeek,omitempty"`
	TimeSlots   []TimeSlot         `json:"timeSlots,omitempty"`
	WeeklySlots map[int][]TimeSlot `json:"weeklySlots,omitempty"`
	WindowStart string             `json:"windowStart,omitempty"`
	WindowEnd   string             `json:"windowEnd,omitempty"`
	DurationMin int                `json:"durationMinutes,omitempty"`
	Anytime     bool               `json:"anytime,omitempty"`
	OneOffDate  string             `json:"oneOffDate,omitempty"` // YYYY-MM-DD
	ReminderOn  bool               `json:"reminderOn,omitempty"`
	ReminderMin int                `json:"reminderMinutes,omitempty"`
}

type Goal struct {
	ID         GoalID     `json:"id"`
	CategoryID CategoryID `json:"categoryId,omitempty"`
	Title      string     `json:"title"`
	GoalType   GoalType   `json:"goalType"`
	PlanType   PlanType   `json:"planType"`
	Status     Status     `json:"status"`
	Order      int        `json:"order"`
	Priority   Priority   `json:"priority"`
	ParentID   GoalID     `json:"parentId,omitempty"`
	Weight     int        `json:"weight"`   // 0-100 contribution weight
	Progress   float64    `json:"progress"` // 0..1 self-reported (PROCESS)

	StartAt        *time.Time `json:"startAt,omitempty"`
	EndAt          *time.Time `json:"endAt,omitempty"` // derived: StartAt + SessionMinutes
	SessionMinutes int        `json:"sessionMinutes,omitempty"`

	Schedule    *ScheduleSpec `json:"schedule,omitempty"`
	ResetPolicy ResetPolicy   `json:"resetPolicy,omitempty"`
	Metric      *Metric       `json:"metric,omitempty"` // OUTCOME only

	ActiveSince *time.Time `json:"activeSince,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsProcess reports whether the goal is a schedulable action.
func (g *Goal) IsProcess() bool {
	return g.GoalType == GoalProcess
}

// Clone returns a deep copy so snapshot transforms never alias the original.
func (g Goal) Clone() Goal {
	out := g
	out.StartAt = cloneTime(g.StartAt)
	out.EndAt = cloneTime(g.EndAt)
	out.ActiveSince = cloneTime(g.ActiveSince)
	if g.Metric != nil {
		m := *g.Metric
		out.Metric = &m
	}
	if g.Schedule != nil {
		out.Schedule = g.Schedule.Clone()
	}
	return out
}

func (s *ScheduleSpec) Clone() *ScheduleSpec {
	if s == nil {
		return nil
	}
	out := *s
	if s.DaysOfWeek != nil {
		out.DaysOfWeek = append([]int(nil), s.DaysOfWeek...)
	}
	if s.TimeSlots != nil {
		out.TimeSlots = append([]TimeSlot(nil), s.TimeSlots...)
	}
	if s.WeeklySlots != nil {
		out.WeeklySlots = make(map[int][]TimeSlot, len(s.WeeklySlots))
		for day, slots := range s.WeeklySlots {
			out.WeeklySlots[day] = append([]TimeSlot(nil), slots...)
		}
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
