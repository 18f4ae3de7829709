package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/metrics"
)

// Persister adapts an EventRepository to the write-through interface the
// in-memory event log expects. It is called from the log's persistence
// goroutine, never from the simulation loop.
type Persister struct {
	repo     EventRepository
	sessions SessionRepository
	timeout  time.Duration
}

// NewPersister wraps the repositories with a per-write timeout. The
// session repository may be nil when only the ledger is wanted.
func NewPersister(repo EventRepository, sessions SessionRepository, timeout time.Duration) *Persister {
	return &Persister{repo: repo, sessions: sessions, timeout: timeout}
}

// Append converts a domain event into its stored form and writes it.
// Session lifecycle events additionally refresh the summary table.
func (p *Persister) Append(event events.GameEvent) error {
	stored, err := convert(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	err = p.repo.Append(ctx, stored)
	metrics.Get().RecordEventWrite(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to persist event %s: %w", event.ID, err)
	}

	if p.sessions != nil {
		if err := p.updateSummary(ctx, stored); err != nil {
			return err
		}
	}
	return nil
}

func (p *Persister) updateSummary(ctx context.Context, stored StoredEvent) error {
	var record SessionRecord
	switch stored.EventType {
	case string(events.EventTypeSessionStart):
		record = SessionRecord{
			SessionID: stored.SessionID,
			StartedAt: stored.Timestamp,
			Outcome:   "RUNNING",
		}
	case string(events.EventTypeSessionWon), string(events.EventTypeSessionLost):
		existing, err := p.sessions.GetBySessionID(ctx, stored.SessionID)
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", stored.SessionID, err)
		}
		if existing == nil {
			existing = &SessionRecord{SessionID: stored.SessionID, StartedAt: stored.Timestamp}
		}
		record = *existing
		record.EndedAt = stored.Timestamp
		record.DurationTicks = stored.Tick
		if stored.EventType == string(events.EventTypeSessionWon) {
			record.Outcome = "WIN"
		} else {
			record.Outcome = "LOSS"
		}
		if keys, ok := stored.Payload["keys_found"].(float64); ok {
			record.KeysFound = int(keys)
		}
	default:
		return nil
	}

	if err := p.sessions.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", stored.SessionID, err)
	}
	return nil
}

// convert flattens a typed payload into the generic map the store keeps.
func convert(event events.GameEvent) (StoredEvent, error) {
	payload := map[string]interface{}{}
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return StoredEvent{}, fmt.Errorf("failed to marshal payload of %s: %w", event.ID, err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return StoredEvent{}, fmt.Errorf("payload of %s is not an object: %w", event.ID, err)
		}
	}
	return StoredEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ObjectID:  event.ObjectID,
		Payload:   payload,
		Tick:      event.Tick,
	}, nil
}
