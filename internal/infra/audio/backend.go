// Package audio provides the audio output backends for the house.
// The simulation only ever talks to the Backend interface; every call is
// best-effort and must be safe when no real device is available, so game
// rules can never depend on audio availability.
package audio

import "time"

// Backend is the contract the tension mapper drives.
type Backend interface {
	// SetAmbientVolume sets the continuous ambient noise level in dB.
	SetAmbientVolume(db float64)
	// SetPulse sets the heartbeat pulse repetition rate and level.
	SetPulse(freqHz, volumeDb float64)
	// PlayScareCue fires the discrete jump-scare stinger.
	PlayScareCue()
	// RampDownAndStop fades everything to silence over the duration
	// instead of cutting instantly.
	RampDownAndStop(d time.Duration)
	// SetMuted silences or restores all output.
	SetMuted(muted bool)
}

// Noop is the backend used when audio is disabled or failed to
// initialize. All calls do nothing.
type Noop struct{}

func (Noop) SetAmbientVolume(float64)      {}
func (Noop) SetPulse(float64, float64)     {}
func (Noop) PlayScareCue()                 {}
func (Noop) RampDownAndStop(time.Duration) {}
func (Noop) SetMuted(bool)                 {}
