// Rebuilds session summaries from the event log: state = f(events).
// Used after a crash or migration when the sessions table lags behind
// the immutable ledger, and for auditing a finished run.
package storage

import (
	"context"
	"fmt"
)

// Reconstructor rebuilds session records from stored events.
type Reconstructor struct {
	eventRepo   EventRepository
	sessionRepo SessionRepository
}

// NewReconstructor creates a new state reconstructor.
func NewReconstructor(eventRepo EventRepository, sessionRepo SessionRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo, sessionRepo: sessionRepo}
}

// RebuildSession derives one session's summary from its events.
func (r *Reconstructor) RebuildSession(ctx context.Context, sessionID string) (*SessionRecord, error) {
	evts, err := r.eventRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for session: %w", err)
	}
	if len(evts) == 0 {
		return nil, nil
	}

	record := SessionRecord{SessionID: sessionID, Outcome: "RUNNING"}
	for _, e := range evts {
		switch e.EventType {
		case "SESSION_START":
			record.StartedAt = e.Timestamp
		case "KEY_FOUND":
			record.KeysFound++
		case "SESSION_WON":
			record.Outcome = "WIN"
			record.EndedAt = e.Timestamp
			record.DurationTicks = e.Tick
		case "SESSION_LOST":
			record.Outcome = "LOSS"
			record.EndedAt = e.Timestamp
			record.DurationTicks = e.Tick
		}
	}
	return &record, nil
}

// RebuildAll recomputes every session summary from the ledger and writes
// the results back to the sessions table.
func (r *Reconstructor) RebuildAll(ctx context.Context) (int, error) {
	ids, err := r.eventRepo.SessionIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	rebuilt := 0
	for _, id := range ids {
		record, err := r.RebuildSession(ctx, id)
		if err != nil {
			return rebuilt, err
		}
		if record == nil {
			continue
		}
		if err := r.sessionRepo.Upsert(ctx, *record); err != nil {
			return rebuilt, fmt.Errorf("failed to upsert session %s: %w", id, err)
		}
		rebuilt++
	}
	return rebuilt, nil
}
