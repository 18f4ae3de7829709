// Package engine contains the simulation core of La Casa Oscura: the
// session state machine, the game loop and the tension-to-audio mapper.
// This is the heartbeat of the house.
//
// ARCHITECTURAL RULE: one goroutine (the Loop) owns all session state.
// External input arrives through the InputBuffer and the action channel;
// nothing else mutates game data.
package engine

import (
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/rules"
)

// Params bundles every rule constant of a session. Tests override
// individual fields; production uses DefaultParams.
type Params struct {
	Move     rules.MoveParams
	Presence rules.PresenceParams
	Curve    rules.AudioCurve

	EyeHeight float64 // camera height above the feet
	MaxRange  float64 // interaction reach

	// Discrete presence costs.
	MissCost       float64 // interacting with nothing
	InteractCost   float64 // standard first examination
	RepeatCost     float64 // re-examining a searched object
	ExitLockedCost float64 // rattling the locked exit
	ScarePenalty   float64 // the wardrobe

	MessageTicks int64         // transient message lifetime in ticks
	RampDown     time.Duration // audio fade on session end
}

// DefaultParams returns the tuned production rules.
func DefaultParams() Params {
	return Params{
		Move: rules.MoveParams{
			Speed:  3.2,
			Radius: 0.35,
			Height: 1.8,
		},
		Presence: rules.PresenceParams{
			Max:       100,
			DecayRate: 1.5,
			MoveCost:  0.03,
		},
		Curve: rules.AudioCurve{
			AmbientQuietDb: -34,
			AmbientTenseDb: -10,
			PulseQuietHz:   0.8,
			PulseTenseHz:   5,
			PulseQuietDb:   -40,
			PulseTenseDb:   -12,
		},
		EyeHeight:      1.6,
		MaxRange:       2.6,
		MissCost:       2,
		InteractCost:   4,
		RepeatCost:     2,
		ExitLockedCost: 5,
		ScarePenalty:   30,
		MessageTicks:   240,
		RampDown:       1500 * time.Millisecond,
	}
}
