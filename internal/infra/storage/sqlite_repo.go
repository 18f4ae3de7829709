package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StoredEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, object_id, payload, tick)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType,
		event.ObjectID, string(payloadBytes), event.Tick,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StoredEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var payloadStr string
		err := rows.Scan(&e.ID, &e.SessionID, &e.Timestamp, &e.EventType, &e.ObjectID, &payloadStr, &e.Tick)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, object_id, payload, tick FROM events WHERE session_id = ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, sessionID, eventType string) ([]StoredEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, object_id, payload, tick FROM events WHERE session_id = ? AND event_type = ? ORDER BY tick ASC, timestamp ASC`
	return r.getMany(ctx, query, sessionID, eventType)
}

func (r *SQLiteEventRepository) SessionIDs(ctx context.Context) ([]string, error) {
	query := `SELECT session_id FROM events GROUP BY session_id ORDER BY MIN(timestamp) ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ---------------------------------------------------------
// SQLiteSessionRepository
// ---------------------------------------------------------

type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

func (r *SQLiteSessionRepository) Upsert(ctx context.Context, record SessionRecord) error {
	query := `
		INSERT INTO sessions (session_id, started_at, ended_at, outcome, keys_found, duration_ticks)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			ended_at=excluded.ended_at,
			outcome=excluded.outcome,
			keys_found=excluded.keys_found,
			duration_ticks=excluded.duration_ticks
	`
	_, err := r.db.ExecContext(ctx, query,
		record.SessionID, record.StartedAt, record.EndedAt,
		record.Outcome, record.KeysFound, record.DurationTicks,
	)
	return err
}

func (r *SQLiteSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*SessionRecord, error) {
	query := `SELECT session_id, started_at, ended_at, outcome, keys_found, duration_ticks FROM sessions WHERE session_id = ?`
	var rec SessionRecord
	var endedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&rec.SessionID, &rec.StartedAt, &endedAt, &rec.Outcome, &rec.KeysFound, &rec.DurationTicks,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if endedAt.Valid {
		rec.EndedAt = endedAt.Time
	}
	return &rec, nil
}

func (r *SQLiteSessionRepository) List(ctx context.Context) ([]SessionRecord, error) {
	query := `SELECT session_id, started_at, ended_at, outcome, keys_found, duration_ticks FROM sessions ORDER BY started_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var endedAt sql.NullTime
		if err := rows.Scan(&rec.SessionID, &rec.StartedAt, &endedAt, &rec.Outcome, &rec.KeysFound, &rec.DurationTicks); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			rec.EndedAt = endedAt.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
