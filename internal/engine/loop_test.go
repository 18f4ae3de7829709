package engine

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Condition not reached in time")
}

func TestLoopRunsSessionThroughActions(t *testing.T) {
	s := newTestSession(t)
	l := NewLoop(s, NewInputBuffer(), s.logger, 240, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	if got := l.LatestSnapshot().State; got != StateIdle {
		t.Fatalf("Expected IDLE before any action, got %s", got)
	}

	if !l.Enqueue(Action{Kind: ActionStart}) {
		t.Fatal("Start action should fit the buffer")
	}
	waitFor(t, time.Second, func() bool { return l.LatestSnapshot().State == StateRunning })

	l.Enqueue(Action{Kind: ActionInteract}) // aimed at nothing from spawn
	waitFor(t, time.Second, func() bool { return l.LatestSnapshot().Presence > 0 })

	l.Enqueue(Action{Kind: ActionSetMute, Muted: true})
	waitFor(t, time.Second, func() bool { return l.LatestSnapshot().Muted })
}

func TestLoopTicksAdvanceTheClock(t *testing.T) {
	s := newTestSession(t)
	l := NewLoop(s, NewInputBuffer(), s.logger, 240, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.Enqueue(Action{Kind: ActionStart})
	waitFor(t, time.Second, func() bool { return l.LatestSnapshot().Tick > 5 })
}

func TestLoopStopIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	l := NewLoop(s, NewInputBuffer(), s.logger, 240, 16)
	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()

	l.Stop()
	l.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return after Stop")
	}
}
