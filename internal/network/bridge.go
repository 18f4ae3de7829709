// PresentationBridge - REST surface for presentation adapters that do not
// hold a WebSocket: kiosk overlays, stream widgets, smoke tests.
package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/engine"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
)

// PresentationBridge exposes the simulation to plain HTTP consumers.
type PresentationBridge struct {
	loop   *engine.Loop
	logger *logger.Logger
}

// NewPresentationBridge creates the REST handler set.
func NewPresentationBridge(loop *engine.Loop, log *logger.Logger) *PresentationBridge {
	return &PresentationBridge{loop: loop, logger: log}
}

// HandleState returns the latest published snapshot.
// GET /api/state
func (pb *PresentationBridge) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		pb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pb.jsonSuccess(w, pb.loop.LatestSnapshot())
}

// HandleStart begins a new session (or restarts after a terminal state).
// POST /api/session/start
func (pb *PresentationBridge) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		pb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !pb.loop.Enqueue(engine.Action{Kind: engine.ActionStart}) {
		pb.jsonError(w, "Simulation busy, retry", http.StatusServiceUnavailable)
		return
	}
	pb.logger.Info("Session start requested over REST")
	pb.jsonSuccess(w, map[string]interface{}{
		"accepted":  true,
		"timestamp": time.Now().Unix(),
	})
}

// HandleMute toggles the audio gate.
// POST /api/mute {"muted": true}
func (pb *PresentationBridge) HandleMute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		pb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Muted bool `json:"muted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pb.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !pb.loop.Enqueue(engine.Action{Kind: engine.ActionSetMute, Muted: req.Muted}) {
		pb.jsonError(w, "Simulation busy, retry", http.StatusServiceUnavailable)
		return
	}
	pb.jsonSuccess(w, map[string]interface{}{"accepted": true, "muted": req.Muted})
}

// RegisterRoutes sets up the bridge API routes.
func (pb *PresentationBridge) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", pb.HandleState)
	mux.HandleFunc("/api/session/start", pb.HandleStart)
	mux.HandleFunc("/api/mute", pb.HandleMute)
}

// jsonError sends an error response.
func (pb *PresentationBridge) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (pb *PresentationBridge) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
