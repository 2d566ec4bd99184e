package model

import "time"

type RuleID string

type RuleKind string

const (
	RuleRecurring RuleKind = "recurring"
	RuleOneTime   RuleKind = "one_time"
)

type TimeType string

const (
	TimeFixed  TimeType = "fixed"
	TimeWindow TimeType = "window"
)

// ScheduleRule is one concrete slot derivation for an action. Rules are never
// hard-deleted; reconciliation flips IsActive off so rule ids survive
// re-derivation and restarts.
type ScheduleRule struct {
	ID       RuleID   `json:"id"`
	ActionID GoalID   `json:"actionId"`
	Kind     RuleKind `json:"kind"`
	TimeType TimeType `json:"timeType"`

	StartDate  string `json:"startDate,omitempty"` // YYYY-MM-DD
	EndDate    string `json:"endDate,omitempty"`
	DaysOfWeek []int  `json:"daysOfWeek,omitempty"` // subset of 1..7

	StartTime   string `json:"startTime,omitempty"` // HH:MM
	EndTime     string `json:"endTime,omitempty"`
	WindowStart string `json:"windowStart,omitempty"`
	WindowEnd   string `json:"windowEnd,omitempty"`
	DurationMin int    `json:"durationMin"`

	// Carried for the reminder evaluator; not part of the rule's identity.
	Label       string `json:"label,omitempty"`
	ReminderOn  bool   `json:"reminderOn,omitempty"`
	ReminderMin int    `json:"reminderMinutes,omitempty"`

	IsActive  bool      `json:"isActive"`
	SourceKey string    `json:"sourceKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r ScheduleRule) Clone() ScheduleRule {
	out := r
	if r.DaysOfWeek != nil {
		out.DaysOfWeek = append([]int(nil), r.DaysOfWeek...)
	}
	return out
}
