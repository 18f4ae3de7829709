package engine

import (
	"github.com/MViana87/LaCasaOscura/server/internal/domain/geom"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/world"
)

// ObjectSnapshot is the read-only view of one world object. The
// presentation layer recomputes visuals from ID + feedback; it never
// touches the live object.
type ObjectSnapshot struct {
	ID       string         `json:"id"`
	Kind     world.Kind     `json:"kind"`
	Position geom.Vec3      `json:"position"`
	Box      geom.Box       `json:"box"`
	Visible  bool           `json:"visible"`
	Feedback world.Feedback `json:"feedback"`
}

// Snapshot is the read-only state frame published once per tick for the
// renderer, the HUD and any connected spectator. Nothing in it can be
// written back into the core.
type Snapshot struct {
	SessionID string       `json:"session_id"`
	State     SessionState `json:"state"`
	Tick      int64        `json:"tick"`

	Pose        player.Pose `json:"pose"`
	Presence    float64     `json:"presence"`
	PresenceMax float64     `json:"presence_max"`
	KeysFound   int         `json:"keys_found"`
	TotalKeys   int         `json:"total_keys"`

	HoverID string `json:"hover_id,omitempty"`
	Message string `json:"message,omitempty"`
	Muted   bool   `json:"muted"`

	Objects []ObjectSnapshot `json:"objects"`
}
