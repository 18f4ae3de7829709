// Package network carries the game over the wire: a WebSocket hub pushing
// state snapshots and audit events to the frontend, plus small REST
// surfaces for the presentation bridge and the replay viewer.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/engine"
	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/metrics"
)

// Message type labels on the wire.
const (
	MsgTypeSnapshot = "SNAPSHOT"
	MsgTypeEvent    = "EVENT"
)

// Message is the envelope for everything the server pushes.
type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub. broadcastBuffer absorbs snapshot
// bursts so the pollers never block on a slow consumer.
func NewHub(log *logger.Logger, broadcastBuffer int) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast serializes a message and queues it for every client.
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize message for WebSocket broadcast: " + err.Error())
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// A full broadcast queue means every client is stalled; the next
		// snapshot supersedes this one anyway.
		metrics.Get().RecordWSError()
	}
}

// StartSnapshotPoller spawns a goroutine that pushes the latest state
// frame to all clients at the given rate (frames per second). The Hub
// never touches the session directly; it reads the Loop's published
// snapshot, so no lock is shared with the simulation.
func (h *Hub) StartSnapshotPoller(ctx context.Context, loop *engine.Loop, rate int) {
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		var lastTick int64 = -1
		var lastState engine.SessionState
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := loop.LatestSnapshot()
				if snap.Tick == lastTick && snap.State == lastState {
					continue
				}
				lastTick = snap.Tick
				lastState = snap.State
				h.Broadcast(Message{
					Type:      MsgTypeSnapshot,
					Timestamp: time.Now().Unix(),
					Payload:   snap,
				})
			}
		}
	}()
}

// StartEventPoller spawns a goroutine to poll the EventLog and push new
// events to the Hub. The Hub runs independently from the simulation loop
// while picking up the same audit trail.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		lastProcessed := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				all := eventLog.Replay()
				for _, event := range all[lastProcessed:] {
					h.Broadcast(Message{
						Type:      MsgTypeEvent,
						Timestamp: time.Now().Unix(),
						Payload:   event,
					})
				}
				lastProcessed = len(all)
			}
		}
	}()
}
