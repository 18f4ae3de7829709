// Replay viewer - JSON export of a session's audit history, so a run can
// be reviewed interaction by interaction after the fact.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
)

// ReplayHandler provides the replay API on top of the event log.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{eventLog: el, logger: log}
}

// ReplayEvent is a flattened event for public viewing.
type ReplayEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Tick      int64       `json:"tick"`
	Type      string      `json:"type"`
	ObjectID  string      `json:"object_id,omitempty"`
	Summary   string      `json:"summary"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ReplayResponse is the API response for a session replay.
type ReplayResponse struct {
	SessionID   string        `json:"session_id"`
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// HandleReplay returns the audit trail of one session.
// GET /api/replay?session_id=XXX&type=INTERACTION
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		rh.jsonError(w, "Missing session_id", http.StatusBadRequest)
		return
	}
	eventType := r.URL.Query().Get("type")

	var replayEvents []ReplayEvent
	for _, e := range rh.eventLog.GetBySession(sessionID) {
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		replayEvents = append(replayEvents, rh.convert(e))
	}

	response := ReplayResponse{
		SessionID:   sessionID,
		TotalEvents: len(replayEvents),
		FilteredBy:  eventType,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      replayEvents,
	}

	rh.logger.Event("REPLAY", sessionID, "Events:"+strconv.Itoa(len(replayEvents)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleStats returns aggregate counts over the whole event log.
// GET /api/replay/stats
func (rh *ReplayHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := rh.eventLog.Replay()
	stats := map[string]int{
		"total_events":  len(all),
		"interactions":  0,
		"keys_found":    0,
		"scares":        0,
		"sessions_won":  0,
		"sessions_lost": 0,
	}
	for _, e := range all {
		switch e.Type {
		case events.EventTypeInteraction:
			stats["interactions"]++
		case events.EventTypeKeyFound:
			stats["keys_found"]++
		case events.EventTypeScareTriggered:
			stats["scares"]++
		case events.EventTypeSessionWon:
			stats["sessions_won"]++
		case events.EventTypeSessionLost:
			stats["sessions_lost"]++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        stats,
	})
}

// RegisterRoutes sets up the replay API routes.
func (rh *ReplayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/replay", rh.HandleReplay)
	mux.HandleFunc("/api/replay/stats", rh.HandleStats)
}

func (rh *ReplayHandler) convert(e events.GameEvent) ReplayEvent {
	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format("15:04:05"),
		Tick:      e.Tick,
		Type:      string(e.Type),
		ObjectID:  e.ObjectID,
		Summary:   summarize(e),
		Payload:   e.Payload,
	}
}

// summarize creates a human-readable line for the viewer.
func summarize(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypeSessionStart:
		return "The player entered the house."
	case events.EventTypeKeyFound:
		return "A key was found."
	case events.EventTypeScareTriggered:
		return "Something looked back."
	case events.EventTypeSessionWon:
		return "The player escaped."
	case events.EventTypeSessionLost:
		return "The Presence found the player."
	case events.EventTypeInteraction:
		if e.ObjectID == "" {
			return "The player grasped at nothing."
		}
		return "The player searched " + e.ObjectID + "."
	case events.EventTypePresenceCost:
		return "The Presence stirred."
	case events.EventTypeMuteToggled:
		return "The sound was toggled."
	default:
		return "Something happened."
	}
}

// jsonError sends an error response.
func (rh *ReplayHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
