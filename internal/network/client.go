package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MViana87/LaCasaOscura/server/internal/engine"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Minimum gap between discrete actions from one client. Held input
	// and look deltas are never throttled.
	discreteActionGap = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The frontend is served from a separate dev origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"` // "INPUT", "LOOK", "INTERACT", "START", "MUTE"
	Payload json.RawMessage `json:"payload"`
}

// Client represents an active WebSocket connection feeding one player's
// input into the simulation.
type Client struct {
	hub          *Hub
	loop         *engine.Loop
	conn         *websocket.Conn
	send         chan []byte
	lastDiscrete time.Time
}

// ServeWS upgrades an HTTP request and starts the client pumps.
func ServeWS(hub *Hub, loop *engine.Loop, sendBuffer int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Error("WebSocket upgrade failed: " + err.Error())
			return
		}
		c := &Client{
			hub:  hub,
			loop: loop,
			conn: conn,
			send: make(chan []byte, sendBuffer),
		}
		c.hub.register <- c
		go c.writePump()
		go c.readPump()
	}
}

// readPump pumps messages from the websocket connection to the engine.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	switch action.Type {
	case "INPUT":
		c.handleInput(action.Payload)
	case "LOOK":
		c.handleLook(action.Payload)
	case "INTERACT":
		if c.allowDiscrete() {
			c.loop.Enqueue(engine.Action{Kind: engine.ActionInteract})
		}
	case "START":
		if c.allowDiscrete() {
			c.loop.Enqueue(engine.Action{Kind: engine.ActionStart})
		}
	case "MUTE":
		c.handleMute(action.Payload)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
	}
}

// allowDiscrete rate-limits clicks so a scripted client cannot flood the
// action channel.
func (c *Client) allowDiscrete() bool {
	if time.Since(c.lastDiscrete) < discreteActionGap {
		c.hub.logger.Warn("Rate limit exceeded for discrete client action")
		return false
	}
	c.lastDiscrete = time.Now()
	return true
}

func (c *Client) handleInput(rawPayload []byte) {
	var parsed struct {
		Forward  bool `json:"forward"`
		Backward bool `json:"backward"`
		Left     bool `json:"left"`
		Right    bool `json:"right"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse INPUT payload: " + err.Error())
		return
	}
	c.loop.Inputs().SetHeld(parsed.Forward, parsed.Backward, parsed.Left, parsed.Right)
}

func (c *Client) handleLook(rawPayload []byte) {
	var parsed struct {
		Yaw   float64 `json:"yaw"`
		Pitch float64 `json:"pitch"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse LOOK payload: " + err.Error())
		return
	}
	c.loop.Inputs().AddLook(parsed.Yaw, parsed.Pitch)
}

func (c *Client) handleMute(rawPayload []byte) {
	var parsed struct {
		Muted bool `json:"muted"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("Failed to parse MUTE payload: " + err.Error())
		return
	}
	if c.allowDiscrete() {
		c.loop.Enqueue(engine.Action{Kind: engine.ActionSetMute, Muted: parsed.Muted})
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
