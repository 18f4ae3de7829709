package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) (*SQLiteEventRepository, *SQLiteSessionRepository) {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "casa_test.db"), 4, 2)
	if err != nil {
		t.Fatalf("InitSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteEventRepository(db), NewSQLiteSessionRepository(db)
}

func storedEvent(id, sessionID, eventType string, tick int64) StoredEvent {
	return StoredEvent{
		ID:        id,
		SessionID: sessionID,
		Timestamp: time.Now(),
		EventType: eventType,
		ObjectID:  "desk_drawer",
		Payload:   map[string]interface{}{"outcome": "REWARD"},
		Tick:      tick,
	}
}

func TestEventRepositoryRoundTrip(t *testing.T) {
	repo, _ := openTestDB(t)
	ctx := context.Background()

	if err := repo.Append(ctx, storedEvent("e1", "s1", "INTERACTION", 10)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := repo.Append(ctx, storedEvent("e2", "s1", "KEY_FOUND", 11)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := repo.Append(ctx, storedEvent("e3", "s2", "INTERACTION", 1)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := repo.GetBySessionID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetBySessionID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 events for s1, got %d", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != "e2" {
		t.Errorf("Events should come back in tick order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Payload["outcome"] != "REWARD" {
		t.Errorf("Payload should survive the round trip, got %v", got[0].Payload)
	}

	keys, err := repo.GetByEventType(ctx, "s1", "KEY_FOUND")
	if err != nil {
		t.Fatalf("GetByEventType failed: %v", err)
	}
	if len(keys) != 1 || keys[0].ID != "e2" {
		t.Errorf("Expected only e2 as KEY_FOUND, got %v", keys)
	}

	ids, err := repo.SessionIDs(ctx)
	if err != nil {
		t.Fatalf("SessionIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 sessions, got %v", ids)
	}
}

func TestSessionRepositoryUpsert(t *testing.T) {
	_, sessions := openTestDB(t)
	ctx := context.Background()
	started := time.Now()

	if err := sessions.Upsert(ctx, SessionRecord{SessionID: "s1", StartedAt: started, Outcome: "RUNNING"}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := sessions.Upsert(ctx, SessionRecord{
		SessionID: "s1", StartedAt: started, EndedAt: started.Add(time.Minute),
		Outcome: "WIN", KeysFound: 3, DurationTicks: 3600,
	}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	rec, err := sessions.GetBySessionID(ctx, "s1")
	if err != nil {
		t.Fatalf("GetBySessionID failed: %v", err)
	}
	if rec == nil || rec.Outcome != "WIN" || rec.KeysFound != 3 {
		t.Errorf("Upsert should overwrite the summary, got %+v", rec)
	}

	missing, err := sessions.GetBySessionID(ctx, "ghost")
	if err != nil {
		t.Fatalf("Lookup of unknown session failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Unknown session should return nil, got %+v", missing)
	}
}

func TestReconstructorRebuildsSummaries(t *testing.T) {
	repo, sessions := openTestDB(t)
	ctx := context.Background()

	seed := []StoredEvent{
		storedEvent("e1", "s1", "SESSION_START", 0),
		storedEvent("e2", "s1", "KEY_FOUND", 50),
		storedEvent("e3", "s1", "KEY_FOUND", 90),
		storedEvent("e4", "s1", "SESSION_LOST", 200),
		storedEvent("e5", "s2", "SESSION_START", 0),
	}
	for _, e := range seed {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	rebuilt, err := NewReconstructor(repo, sessions).RebuildAll(ctx)
	if err != nil {
		t.Fatalf("RebuildAll failed: %v", err)
	}
	if rebuilt != 2 {
		t.Errorf("Expected 2 rebuilt sessions, got %d", rebuilt)
	}

	rec, err := sessions.GetBySessionID(ctx, "s1")
	if err != nil || rec == nil {
		t.Fatalf("Expected rebuilt record for s1, got %v (%v)", rec, err)
	}
	if rec.Outcome != "LOSS" || rec.KeysFound != 2 || rec.DurationTicks != 200 {
		t.Errorf("Rebuilt summary is wrong: %+v", rec)
	}

	open, _ := sessions.GetBySessionID(ctx, "s2")
	if open == nil || open.Outcome != "RUNNING" {
		t.Errorf("Unfinished session should rebuild as RUNNING, got %+v", open)
	}
}
