// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// PresenceParams configures the Presence resource: the bounded tension
// meter. Reaching Max ends the session in a loss.
type PresenceParams struct {
	Max       float64 // capacity; level is clamped to [0, Max]
	DecayRate float64 // units drained per second while the house is calm
	MoveCost  float64 // units added per tick in which the player moved
}

// TickPresence advances the presence level by one tick: decay always
// applies, movement cost applies only when the player moved. Decay and
// cost are independent and additive within the tick.
func TickPresence(level, dt float64, moved bool, p PresenceParams) float64 {
	level -= p.DecayRate * dt
	if moved {
		level += p.MoveCost
	}
	return ClampPresence(level, p)
}

// ApplyPresenceCost adds a discrete cost (or penalty) to the level.
func ApplyPresenceCost(level, amount float64, p PresenceParams) float64 {
	return ClampPresence(level+amount, p)
}

// ClampPresence bounds a level to [0, Max]. The invariant holds for every
// sequence of decay and cost operations.
func ClampPresence(level float64, p PresenceParams) float64 {
	if level < 0 {
		return 0
	}
	if level > p.Max {
		return p.Max
	}
	return level
}
