// Package player defines the player's pose and the per-tick input sample.
// This package is PURE and must NOT import any infrastructure packages.
package player

import (
	"math"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/geom"
)

// MaxPitch clamps how far the player can look up or down (radians).
const MaxPitch = math.Pi / 2

// Pose is the player's position and view angles. Position.Y is the feet
// height and stays fixed: there is no vertical movement in the house.
type Pose struct {
	Position geom.Vec3 `json:"position"`
	Yaw      float64   `json:"yaw"`
	Pitch    float64   `json:"pitch"`
}

// Input is the input sample consumed once per tick: currently-held
// movement directions plus the accumulated look delta since the last tick.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool

	LookYaw   float64 // radians to add to yaw this tick
	LookPitch float64 // radians to add to pitch this tick
}

// AnyDirection reports whether at least one movement direction is held.
func (in Input) AnyDirection() bool {
	return in.Forward || in.Backward || in.Left || in.Right
}

// ApplyLook rotates the pose by the input's look delta, clamping pitch.
func (p Pose) ApplyLook(in Input) Pose {
	p.Yaw += in.LookYaw
	p.Pitch += in.LookPitch
	if p.Pitch > MaxPitch {
		p.Pitch = MaxPitch
	}
	if p.Pitch < -MaxPitch {
		p.Pitch = -MaxPitch
	}
	return p
}

// Eye returns the camera position for the pose given an eye height.
func (p Pose) Eye(eyeHeight float64) geom.Vec3 {
	return geom.Vec3{X: p.Position.X, Y: p.Position.Y + eyeHeight, Z: p.Position.Z}
}
