package engine

import (
	"testing"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/world"
	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
)

const testDt = 1.0 / 60.0

func newTestSession(t *testing.T) *Session {
	t.Helper()
	w := world.Build()
	if err := w.Validate(); err != nil {
		t.Fatalf("world should validate: %v", err)
	}
	return NewSession(w, events.NewEventLog(nil), nil, logger.NewLogger(), DefaultParams())
}

func mustObject(t *testing.T, s *Session, id string) *world.Object {
	t.Helper()
	obj, ok := s.world.Object(id)
	if !ok {
		t.Fatalf("object %q should exist", id)
	}
	return obj
}

func TestSessionStartsIdle(t *testing.T) {
	s := newTestSession(t)

	if s.State() != StateIdle {
		t.Errorf("Expected IDLE before Start, got %s", s.State())
	}

	// Ticks and interactions outside Running are ignored.
	s.Tick(testDt, player.Input{Forward: true})
	s.Interact()
	if s.tick != 0 || s.presence != 0 {
		t.Errorf("Idle session should not advance: tick=%d presence=%f", s.tick, s.presence)
	}
}

func TestStartResetsEverything(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	firstID := s.SessionID()

	// Dirty the session: examine a key object, build up presence.
	s.interactWith(mustObject(t, s, world.DeskDrawerID))
	s.interactWith(nil)
	s.Tick(testDt, player.Input{Forward: true})
	if s.keysFound != 1 || s.presence == 0 {
		t.Fatalf("Setup failed: keys=%d presence=%f", s.keysFound, s.presence)
	}

	// Act
	s.Start()

	// Assert: full reset, new identity, spawn pose.
	if s.SessionID() == firstID || s.SessionID() == "" {
		t.Error("Restart should mint a fresh session ID")
	}
	if s.State() != StateRunning {
		t.Errorf("Expected RUNNING after Start, got %s", s.State())
	}
	if s.keysFound != 0 || s.presence != 0 || s.tick != 0 || s.jumpscarePlayed {
		t.Errorf("Counters should be zeroed: keys=%d presence=%f tick=%d scare=%v",
			s.keysFound, s.presence, s.tick, s.jumpscarePlayed)
	}
	if s.pose != spawnPose() {
		t.Errorf("Expected spawn pose, got %+v", s.pose)
	}
	rec, _ := s.world.Record(world.DeskDrawerID)
	if rec.Examined {
		t.Error("World latches should be cleared by Start")
	}
}

func TestMissCostsPresence(t *testing.T) {
	s := newTestSession(t)
	s.Start()

	s.interactWith(nil)

	if s.presence != s.params.MissCost {
		t.Errorf("Expected presence %f after a miss, got %f", s.params.MissCost, s.presence)
	}
	if got := s.Snapshot().Message; got != msgMissed {
		t.Errorf("Expected miss message, got %q", got)
	}
}

func TestFirstExaminationFindsKey(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	drawer := mustObject(t, s, world.DeskDrawerID)

	s.interactWith(drawer)

	if s.keysFound != 1 {
		t.Errorf("Expected 1 key found, got %d", s.keysFound)
	}
	if drawer.Feedback != world.FeedbackConsumed {
		t.Errorf("Key object should render consumed, got %s", drawer.Feedback)
	}
	if s.presence != s.params.InteractCost {
		t.Errorf("Key find costs the standard interact cost, got %f", s.presence)
	}
	rec, _ := s.world.Record(world.DeskDrawerID)
	if !rec.Examined {
		t.Error("First examination should latch Examined")
	}
}

func TestRepeatExaminationIsCheaperAndGivesNothing(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	drawer := mustObject(t, s, world.DeskDrawerID)
	s.interactWith(drawer)
	afterFirst := s.presence

	s.interactWith(drawer)

	if s.keysFound != 1 {
		t.Errorf("Repeat must not yield another key, got %d", s.keysFound)
	}
	if got := s.presence - afterFirst; got != s.params.RepeatCost {
		t.Errorf("Expected repeat cost %f, got %f", s.params.RepeatCost, got)
	}
	rec, _ := s.world.Record(world.DeskDrawerID)
	if got := s.Snapshot().Message; got != rec.RepeatMessage {
		t.Errorf("Expected repeat message %q, got %q", rec.RepeatMessage, got)
	}
}

func TestExitDoorStaysLockedWithoutKeys(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	door := mustObject(t, s, world.ExitDoorID)

	s.interactWith(door)
	s.interactWith(door)

	if s.State() != StateRunning {
		t.Errorf("Locked door must not end the session, got %s", s.State())
	}
	// The exit never latches, so both attempts cost the full locked price.
	if want := 2 * s.params.ExitLockedCost; s.presence != want {
		t.Errorf("Expected presence %f after two locked attempts, got %f", want, s.presence)
	}
	rec, _ := s.world.Record(world.ExitDoorID)
	if rec.Examined {
		t.Error("Exit record must never be marked examined")
	}
}

func TestExitDoorOpensWithAllKeys(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	for _, id := range []string{world.DeskDrawerID, world.BookshelfID, world.MattressID} {
		s.interactWith(mustObject(t, s, id))
	}

	s.interactWith(mustObject(t, s, world.ExitDoorID))

	if s.State() != StateWon {
		t.Errorf("Expected WON with all keys, got %s", s.State())
	}
	// Terminal state rejects further input.
	before := s.presence
	s.interactWith(nil)
	s.Tick(testDt, player.Input{Forward: true})
	if s.presence != before {
		t.Error("Won session should ignore interactions and ticks")
	}
}

func TestScareTriggersExactlyOnce(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	wardrobe := mustObject(t, s, world.WardrobeID)

	s.interactWith(wardrobe)

	if !s.jumpscarePlayed {
		t.Error("First wardrobe examination should latch the jumpscare")
	}
	if s.presence != s.params.ScarePenalty {
		t.Errorf("Expected scare penalty %f, got %f", s.params.ScarePenalty, s.presence)
	}
	if wardrobe.Visible || wardrobe.Feedback != world.FeedbackHidden {
		t.Errorf("Scare object should hide: visible=%v feedback=%s", wardrobe.Visible, wardrobe.Feedback)
	}

	// The hidden object disappears from the targeting set.
	for _, obj := range s.world.Interactables() {
		if obj.ID == world.WardrobeID {
			t.Error("Hidden object must not be targetable")
		}
	}
}

func TestPresenceCapacityEndsSessionAtTickEnd(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	s.presence = s.params.Presence.Max - 1

	// The interaction alone pushes presence to capacity but the session
	// survives until the next tick resolves it.
	s.interactWith(nil)
	if s.State() != StateRunning {
		t.Fatalf("Loss resolves at tick end, not mid-interaction: %s", s.State())
	}

	s.Tick(testDt, player.Input{})
	if s.State() != StateLost {
		t.Errorf("Expected LOST once a tick observes capacity, got %s", s.State())
	}
}

func TestInteractableWithoutRecordIsHarmless(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	phantom := &world.Object{ID: "phantom", Kind: world.KindInteractable, Visible: true}

	s.interactWith(phantom)

	if s.presence != 0 {
		t.Errorf("A configuration defect must not cost the player, got %f", s.presence)
	}
	if got := s.Snapshot().Message; got != msgNothing {
		t.Errorf("Expected %q, got %q", msgNothing, got)
	}
	if s.State() != StateRunning {
		t.Errorf("Session should survive a defect, got %s", s.State())
	}
}

func TestMuteToggleIsAudited(t *testing.T) {
	s := newTestSession(t)
	s.Start()

	s.SetMuted(true)
	s.SetMuted(true) // no-op, must not emit twice
	s.SetMuted(false)

	if s.mapper.Muted() {
		t.Error("Expected unmuted after toggle back")
	}
	got := s.eventLog.GetByType(events.EventTypeMuteToggled)
	if len(got) != 2 {
		t.Errorf("Expected 2 mute events, got %d", len(got))
	}
}

func TestSnapshotReflectsSession(t *testing.T) {
	s := newTestSession(t)
	s.Start()
	s.interactWith(mustObject(t, s, world.DeskDrawerID))
	s.Tick(testDt, player.Input{})

	snap := s.Snapshot()

	if snap.SessionID != s.SessionID() || snap.State != StateRunning {
		t.Errorf("Snapshot identity mismatch: %+v", snap)
	}
	if snap.KeysFound != 1 || snap.TotalKeys != 3 {
		t.Errorf("Expected keys 1/3, got %d/%d", snap.KeysFound, snap.TotalKeys)
	}
	if len(snap.Objects) != len(s.world.Objects) {
		t.Errorf("Snapshot should carry every object, got %d", len(snap.Objects))
	}
	if snap.PresenceMax != s.params.Presence.Max {
		t.Errorf("Expected presence max %f, got %f", s.params.Presence.Max, snap.PresenceMax)
	}
}
