package rules

import (
	"math/rand"
	"testing"
)

func TestPresenceNeverLeavesBounds(t *testing.T) {
	p := PresenceParams{Max: 100, DecayRate: 1.5, MoveCost: 0.03}
	rng := rand.New(rand.NewSource(7))

	level := 0.0
	for i := 0; i < 10000; i++ {
		switch rng.Intn(3) {
		case 0:
			level = TickPresence(level, rng.Float64()*0.05, rng.Intn(2) == 0, p)
		case 1:
			level = ApplyPresenceCost(level, rng.Float64()*40, p)
		case 2:
			level = ApplyPresenceCost(level, -rng.Float64()*40, p)
		}
		if level < 0 || level > p.Max {
			t.Fatalf("Presence left [0, Max] at step %d: %f", i, level)
		}
	}
}

func TestDecayDominatesSlowMovement(t *testing.T) {
	// Scenario: player holds forward for 2 seconds at 60 ticks/s with
	// decayRate=0.5/s and a per-tick move cost equivalent to 0.005/s.
	p := PresenceParams{Max: 1, DecayRate: 0.5, MoveCost: 0.005 / 60}

	level := 0.3
	dt := 1.0 / 60
	for i := 0; i < 120; i++ {
		level = TickPresence(level, dt, true, p)
	}

	if level < 0 {
		t.Errorf("Presence went negative: %f", level)
	}
	if level > 0.01 {
		t.Errorf("Expected decay to dominate, presence still %f after 2s", level)
	}
}

func TestConstantMovementHasFloorAboveZero(t *testing.T) {
	// Per-tick cost exceeding per-tick decay keeps a moving player tense.
	p := PresenceParams{Max: 100, DecayRate: 1.5, MoveCost: 0.03}
	dt := 1.0 / 60

	level := 50.0
	for i := 0; i < 60*60; i++ {
		level = TickPresence(level, dt, true, p)
	}

	if level <= 50.0 {
		t.Errorf("Expected constant movement to raise presence, got %f", level)
	}

	// A stationary player trends to zero.
	still := 50.0
	for i := 0; i < 60*60; i++ {
		still = TickPresence(still, dt, false, p)
	}
	if still != 0 {
		t.Errorf("Expected stationary presence to decay to zero, got %f", still)
	}
}

func TestApplyCostClampsAtCapacity(t *testing.T) {
	p := PresenceParams{Max: 100, DecayRate: 1.5, MoveCost: 0.03}

	level := ApplyPresenceCost(95, 30, p)
	if level != 100 {
		t.Errorf("Expected clamp at Max, got %f", level)
	}

	level = ApplyPresenceCost(2, -30, p)
	if level != 0 {
		t.Errorf("Expected clamp at zero, got %f", level)
	}
}
