package rules

import (
	"math"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/geom"
	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
)

// MoveParams configures the movement solver.
type MoveParams struct {
	Speed  float64 // units per second
	Radius float64 // horizontal half-extent of the player box
	Height float64 // player box height
}

// SolveMove applies one tick of look and movement input to a pose and
// resolves collisions against the level volumes.
//
// Resolution is axis-separated: the X component of the displacement is
// applied and reverted on its own, then the Z component independently.
// Rejecting the full vector instead would glue the player to corners where
// only one axis is actually blocked; per-axis resolution lets the player
// slide along walls.
//
// moved is true iff any movement direction was held this tick, regardless
// of how much of the displacement survived collision. It feeds the
// presence movement cost, not distance accounting.
func SolveMove(pose player.Pose, in player.Input, volumes []geom.Box, dt float64, p MoveParams) (player.Pose, bool) {
	pose = pose.ApplyLook(in)

	moved := in.AnyDirection()
	if !moved || dt <= 0 {
		return pose, moved
	}

	// Intent in the player's local frame: forward is -Z.
	var dx, dz float64
	if in.Forward {
		dz--
	}
	if in.Backward {
		dz++
	}
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	l := math.Hypot(dx, dz)
	if l == 0 {
		// Opposite directions cancel out; still counts as movement input.
		return pose, moved
	}
	dx, dz = dx/l, dz/l

	// Rotate the intent into the yaw frame.
	sin, cos := math.Sincos(pose.Yaw)
	step := p.Speed * dt
	wx := (dx*cos + dz*sin) * step
	wz := (-dx*sin + dz*cos) * step

	pos := pose.Position

	trial := pos
	trial.X += wx
	if !boxBlocked(geom.PlayerBox(trial, p.Radius, p.Height), volumes) {
		pos = trial
	}

	trial = pos
	trial.Z += wz
	if !boxBlocked(geom.PlayerBox(trial, p.Radius, p.Height), volumes) {
		pos = trial
	}

	pose.Position = pos
	return pose, moved
}

func boxBlocked(box geom.Box, volumes []geom.Box) bool {
	for _, v := range volumes {
		if box.Intersects(v) {
			return true
		}
	}
	return false
}
