package engine

import (
	"testing"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/rules"
)

// recordingBackend captures backend calls for assertions.
type recordingBackend struct {
	ambient   []float64
	pulses    [][2]float64
	scares    int
	rampDowns int
	muted     bool
}

func (r *recordingBackend) SetAmbientVolume(db float64) { r.ambient = append(r.ambient, db) }
func (r *recordingBackend) SetPulse(freqHz, volumeDb float64) {
	r.pulses = append(r.pulses, [2]float64{freqHz, volumeDb})
}
func (r *recordingBackend) PlayScareCue()                   { r.scares++ }
func (r *recordingBackend) RampDownAndStop(d time.Duration) { r.rampDowns++ }
func (r *recordingBackend) SetMuted(muted bool)             { r.muted = muted }

func testCurve() rules.AudioCurve {
	return DefaultParams().Curve
}

func TestMapperPushesContinuousParameters(t *testing.T) {
	rec := &recordingBackend{}
	m := NewTensionMapper(rec, testCurve())

	m.Update(0)
	m.Update(1)

	if len(rec.ambient) != 2 || len(rec.pulses) != 2 {
		t.Fatalf("Expected 2 updates, got %d ambient / %d pulse", len(rec.ambient), len(rec.pulses))
	}
	if rec.ambient[1] <= rec.ambient[0] {
		t.Errorf("Ambient should rise with tension: %f then %f", rec.ambient[0], rec.ambient[1])
	}
	if rec.pulses[1][0] <= rec.pulses[0][0] {
		t.Errorf("Pulse rate should rise with tension: %f then %f", rec.pulses[0][0], rec.pulses[1][0])
	}
	if m.Last() != rules.MapTension(1, testCurve()) {
		t.Error("Last should hold the most recent mapping")
	}
}

func TestMapperScareAndRampDownPassThrough(t *testing.T) {
	rec := &recordingBackend{}
	m := NewTensionMapper(rec, testCurve())

	m.PlayScare()
	m.SessionEnded(time.Second)

	if rec.scares != 1 || rec.rampDowns != 1 {
		t.Errorf("Expected 1 scare and 1 ramp-down, got %d / %d", rec.scares, rec.rampDowns)
	}
}

func TestMapperMuteStateTracksBackend(t *testing.T) {
	rec := &recordingBackend{}
	m := NewTensionMapper(rec, testCurve())

	m.SetMuted(true)

	if !m.Muted() || !rec.muted {
		t.Error("Mute should reach both the mapper and the backend")
	}
}

func TestMapperNilBackendIsSafe(t *testing.T) {
	m := NewTensionMapper(nil, testCurve())

	// None of these may panic without a real backend.
	m.Update(0.5)
	m.PlayScare()
	m.SessionEnded(time.Second)
	m.SetMuted(true)
}
