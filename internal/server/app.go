// Package server is the host layer: it sequences engine calls one at a time,
// persists accepted snapshots, triggers schedule reconciliation after
// scheduling-relevant saves and runs the periodic sweep.
package server

import (
	"sync"
	"time"

	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/config"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/goal"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/model"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/schedule"
	"github.com/Allan-Tomassian/discip-yourself-sub000/internal/telemetry"
)

// Saver persists accepted snapshots.
type Saver interface {
	Save(model.State) error
}

// App owns the current snapshot. The engine is pure; all sequencing and
// persistence live here.
type App struct {
	mu     sync.Mutex
	cfg    *config.Config
	engine *goal.Engine
	saver  Saver
	events telemetry.Repository
	state  model.State
}

func NewApp(cfg *config.Config, engine *goal.Engine, saver Saver, events telemetry.Repository, initial model.State) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	normalized, _ := goal.Normalize(initial)
	return &App{cfg: cfg, engine: engine, saver: saver, events: events, state: normalized}
}

// Snapshot returns the current state.
func (a *App) Snapshot() model.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// mutate applies one transform under the lock and persists when it changed.
func (a *App) mutate(fn func(model.State) (model.State, bool)) (model.State, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, changed := fn(a.state)
	if !changed {
		return a.state, false, nil
	}
	a.state = next
	var err error
	if a.saver != nil {
		err = a.saver.Save(next)
	}
	return next, true, err
}

func (a *App) record(eventType telemetry.EventType, metadata telemetry.EventMetadata) {
	if a.events == nil {
		return
	}
	_ = a.events.RecordEvent(eventType, metadata)
}

// SweepOnce runs the auto-activation sweep and reconciles rules afterwards.
// The caller (the ticker in main, or a test) supplies the clock.
func (a *App) SweepOnce(now time.Time) bool {
	_, changed, _ := a.mutate(func(s model.State) (model.State, bool) {
		next, activated := a.engine.AutoActivateScheduled(s, now)
		if !activated {
			return s, false
		}
		next, _ = schedule.SyncRulesForActions(next, now, nil)
		return next, true
	})
	a.record(telemetry.EventSweepTick, telemetry.EventMetadata{"activated": changed})
	return changed
}
