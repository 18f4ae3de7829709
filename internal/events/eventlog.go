// Package events provides the append-only audit log of the simulation.
// Every discrete thing that happens in the house is recorded here; the
// WebSocket hub and the replay endpoint read it, and a persister can write
// it through to storage. It is an audit trail, not a save-game.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeSessionStart   EventType = "SESSION_START"
	EventTypeInteraction    EventType = "INTERACTION"
	EventTypeKeyFound       EventType = "KEY_FOUND"
	EventTypeScareTriggered EventType = "SCARE_TRIGGERED"
	EventTypePresenceCost   EventType = "PRESENCE_COST"
	EventTypeVisualFeedback EventType = "VISUAL_FEEDBACK"
	EventTypeSessionWon     EventType = "SESSION_WON"
	EventTypeSessionLost    EventType = "SESSION_LOST"
	EventTypeMuteToggled    EventType = "MUTE_TOGGLED"
)

// GameEvent represents an immutable record of something that happened.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	ObjectID  string      `json:"object_id"` // interactable involved (optional)
	Payload   interface{} `json:"payload"`   // event-specific data
	Tick      int64       `json:"tick"`      // simulation tick of the session
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage off the simulation path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetBySession returns all events of one play-through, in append order.
func (el *EventLog) GetBySession(sessionID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of one category.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full history of events in append order.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
