// Package telemetry records goal lifecycle events and aggregates them into
// windowed stats. Events are advisory; recording never blocks an operation.
package telemetry

import (
	"sync"
	"time"
)

// Repository stores lifecycle events.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps events in memory. The server uses it as the default
// sink; nothing in the engine depends on events surviving a restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy the metadata so later mutation by the caller cannot rewrite history.
	var meta EventMetadata
	if len(metadata) > 0 {
		meta = make(EventMetadata, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
	}

	r.events = append(r.events, Event{
		ID:        len(r.events) + 1,
		Type:      eventType,
		Timestamp: time.Now(),
		Metadata:  meta,
	})
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := func(t EventType) bool { return true }
	if len(eventTypes) > 0 {
		set := make(map[EventType]bool, len(eventTypes))
		for _, t := range eventTypes {
			set[t] = true
		}
		wanted = func(t EventType) bool { return set[t] }
	}

	out := make([]Event, 0)
	for _, ev := range r.events {
		if ev.Timestamp.Before(since) || !wanted(ev.Type) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	return nil
}
