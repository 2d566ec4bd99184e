package telemetry

import "time"

type Stats struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"eventCounts"`
	GoalsCreated     int               `json:"goalsCreated"`
	GoalsFinished    int               `json:"goalsFinished"`
	GoalsAbandoned   int               `json:"goalsAbandoned"`
	ActivationDenies map[string]int    `json:"activationDenies"`
	SweepTicks       int               `json:"sweepTicks"`
	FinishesPerSweep float64           `json:"finishesPerSweep"`
	RulesSyncRuns    int               `json:"rulesSyncRuns"`
	RulesDeactivated int               `json:"rulesDeactivated"`
}

// CalculateStats aggregates lifecycle stats from events recorded since the
// given time.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:           since.Format("2006-01-02"),
		EventCounts:      make(map[EventType]int),
		ActivationDenies: make(map[string]int),
	}

	for _, ev := range events {
		stats.EventCounts[ev.Type]++

		switch ev.Type {
		case EventGoalCreated:
			stats.GoalsCreated++
		case EventGoalFinished:
			stats.GoalsFinished++
		case EventGoalAbandoned:
			stats.GoalsAbandoned++
		case EventSweepTick:
			stats.SweepTicks++
		case EventActivationDenied:
			if reason, ok := ev.Metadata["reason"].(string); ok {
				stats.ActivationDenies[reason]++
			}
		case EventRulesSynced:
			stats.RulesSyncRuns++
			stats.RulesDeactivated += metaInt(ev.Metadata, "deactivated")
		}
	}

	if stats.SweepTicks > 0 {
		stats.FinishesPerSweep = float64(stats.GoalsFinished) / float64(stats.SweepTicks)
	}

	return stats, nil
}

// metaInt tolerates both in-process ints and numbers that went through a
// JSON round trip.
func metaInt(m EventMetadata, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
