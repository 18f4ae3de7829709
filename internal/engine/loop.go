package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/metrics"
)

// ActionKind identifies a discrete player command, as opposed to the
// continuously-held movement input.
type ActionKind string

const (
	ActionInteract ActionKind = "INTERACT"
	ActionStart    ActionKind = "START"
	ActionSetMute  ActionKind = "SET_MUTE"
)

// Action is a discrete command handed to the Loop goroutine.
type Action struct {
	Kind  ActionKind
	Muted bool // only for ActionSetMute
}

// Loop is the heartbeat of "La Casa Oscura". It owns the Session: every
// mutation runs on the Loop goroutine, so the Session itself needs no
// locks. Other goroutines talk to it through the InputBuffer, the action
// channel and the published snapshots.
type Loop struct {
	session  *Session
	inputs   *InputBuffer
	logger   *logger.Logger
	tickRate time.Duration

	actions  chan Action
	snapshot atomic.Value // Snapshot
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewLoop wires a loop around an existing session. tickRate is in ticks
// per second; actionBuffer sizes the discrete command channel.
func NewLoop(session *Session, inputs *InputBuffer, log *logger.Logger, tickRate int, actionBuffer int) *Loop {
	l := &Loop{
		session:  session,
		inputs:   inputs,
		logger:   log,
		tickRate: time.Second / time.Duration(tickRate),
		actions:  make(chan Action, actionBuffer),
		stopChan: make(chan struct{}),
	}
	l.snapshot.Store(session.Snapshot())
	return l
}

// Enqueue hands a discrete action to the loop goroutine. If the buffer is
// full the action is dropped; the client can always retry.
func (l *Loop) Enqueue(a Action) bool {
	select {
	case l.actions <- a:
		return true
	default:
		l.logger.Warn("Action buffer full, dropping " + string(a.Kind))
		return false
	}
}

// Inputs exposes the shared held-input buffer for the network layer.
func (l *Loop) Inputs() *InputBuffer { return l.inputs }

// LatestSnapshot returns the most recently published state frame.
func (l *Loop) LatestSnapshot() Snapshot {
	return l.snapshot.Load().(Snapshot)
}

// Run executes the fixed-rate simulation loop. Call in a goroutine.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("Simulation loop started. The house is listening...")

	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Simulation loop stopped by context.")
			return
		case <-l.stopChan:
			l.logger.Info("Simulation loop stopped manually.")
			return
		case a := <-l.actions:
			l.apply(a)
			l.snapshot.Store(l.session.Snapshot())
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			// A stalled host (debugger, suspend) must not turn into one
			// giant catch-up step.
			if dt > 0.25 {
				dt = 0.25
			}
			l.step(dt)
		}
	}
}

// Stop gracefully stops the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopChan) })
}

func (l *Loop) step(dt float64) {
	start := time.Now()

	in := l.inputs.Consume()
	l.session.Tick(dt, in)
	l.snapshot.Store(l.session.Snapshot())

	metrics.Get().RecordTick(time.Since(start))
}

func (l *Loop) apply(a Action) {
	switch a.Kind {
	case ActionInteract:
		l.session.Interact()
	case ActionStart:
		l.inputs.Reset()
		l.session.Start()
	case ActionSetMute:
		l.session.SetMuted(a.Muted)
	default:
		l.logger.Warn("Unknown action kind: " + string(a.Kind))
	}
}
