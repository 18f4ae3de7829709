package engine

import (
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/rules"
	"github.com/MViana87/LaCasaOscura/server/internal/infra/audio"
)

// TensionMapper turns the normalized presence level into audio backend
// calls. It holds no audio state beyond the last computed parameters and
// the mute flag; all backend calls are best-effort.
type TensionMapper struct {
	backend audio.Backend
	curve   rules.AudioCurve
	last    rules.AudioLevels
	muted   bool
}

// NewTensionMapper wires a mapper to a backend. A nil backend degrades to
// a no-op so the simulation never depends on audio availability.
func NewTensionMapper(backend audio.Backend, curve rules.AudioCurve) *TensionMapper {
	if backend == nil {
		backend = audio.Noop{}
	}
	return &TensionMapper{backend: backend, curve: curve}
}

// Update recomputes the continuous parameters for a normalized presence
// level in [0,1] and pushes them to the backend.
func (m *TensionMapper) Update(normalized float64) {
	m.last = rules.MapTension(normalized, m.curve)
	m.backend.SetAmbientVolume(m.last.AmbientDb)
	m.backend.SetPulse(m.last.PulseHz, m.last.PulseDb)
}

// PlayScare fires the discrete jump-scare cue, independent of the
// continuous mapping.
func (m *TensionMapper) PlayScare() {
	m.backend.PlayScareCue()
}

// SessionEnded ramps the soundscape back to baseline instead of cutting.
func (m *TensionMapper) SessionEnded(d time.Duration) {
	m.backend.RampDownAndStop(d)
}

// SetMuted toggles the backend mute and remembers the state for
// snapshots.
func (m *TensionMapper) SetMuted(muted bool) {
	m.muted = muted
	m.backend.SetMuted(muted)
}

// Muted reports the last mute state set.
func (m *TensionMapper) Muted() bool {
	return m.muted
}

// Last returns the most recently computed audio parameters.
func (m *TensionMapper) Last() rules.AudioLevels {
	return m.last
}
