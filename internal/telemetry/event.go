package telemetry

import "time"

type EventType string

const (
	EventGoalCreated      EventType = "goal_created"
	EventGoalUpdated      EventType = "goal_updated"
	EventGoalActivated    EventType = "goal_activated"
	EventGoalFinished     EventType = "goal_finished"
	EventGoalAbandoned    EventType = "goal_abandoned"
	EventGoalDeleted      EventType = "goal_deleted"
	EventActivationDenied EventType = "activation_denied"
	EventSweepTick        EventType = "sweep_tick"
	EventRulesSynced      EventType = "rules_synced"
)

type EventMetadata map[string]any

type Event struct {
	ID        int           `json:"id"`
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  EventMetadata `json:"metadata,omitempty"`
}
