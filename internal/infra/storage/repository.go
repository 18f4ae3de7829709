// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// StoredEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type StoredEvent struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ObjectID  string                 `json:"object_id" db:"object_id"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	Tick      int64                  `json:"tick" db:"tick"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event StoredEvent) error

	// GetBySessionID retrieves all events of one play-through, for replay.
	GetBySessionID(ctx context.Context, sessionID string) ([]StoredEvent, error)

	// GetByEventType retrieves all events of a type within one session.
	GetByEventType(ctx context.Context, sessionID, eventType string) ([]StoredEvent, error)

	// SessionIDs lists every session that ever wrote an event, oldest first.
	SessionIDs(ctx context.Context) ([]string, error)
}

// SessionRecord is the compact per-session summary for quick reads.
type SessionRecord struct {
	SessionID     string    `json:"session_id" db:"session_id"`
	StartedAt     time.Time `json:"started_at" db:"started_at"`
	EndedAt       time.Time `json:"ended_at" db:"ended_at"`
	Outcome       string    `json:"outcome" db:"outcome"` // RUNNING, WIN, LOSS
	KeysFound     int       `json:"keys_found" db:"keys_found"`
	DurationTicks int64     `json:"duration_ticks" db:"duration_ticks"`
}

// SessionRepository defines the interface for session summaries.
type SessionRepository interface {
	// Upsert updates or inserts a session record.
	Upsert(ctx context.Context, record SessionRecord) error

	// GetBySessionID retrieves one session summary, nil if unknown.
	GetBySessionID(ctx context.Context, sessionID string) (*SessionRecord, error)

	// List retrieves all session summaries, newest first.
	List(ctx context.Context) ([]SessionRecord, error)
}
