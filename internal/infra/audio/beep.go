package audio

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// silenceDb and below is treated as fully silent.
const silenceDb = -80.0

// BeepBackend synthesizes the soundscape locally: a continuous noise bed,
// a repeating low heartbeat pulse, and a one-shot scare stinger.
type BeepBackend struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	ambient     *noiseBed
	pulse       *heartbeat
	masterGain  float64
	muted       bool
	stopped     bool
	initialized bool
}

// NewBeepBackend opens the speaker and starts the persistent streamers at
// silence. The returned backend is ready for per-tick parameter updates.
func NewBeepBackend(masterVolume float64) (*BeepBackend, error) {
	b := &BeepBackend{
		mixer:      &beep.Mixer{},
		ambient:    newNoiseBed(),
		pulse:      newHeartbeat(),
		masterGain: masterVolume,
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return nil, err
	}

	b.mixer.Add(b.ambient)
	b.mixer.Add(b.pulse)
	speaker.Play(b.mixer)
	b.initialized = true
	return b, nil
}

func dbToGain(db float64) float64 {
	if db <= silenceDb {
		return 0
	}
	return math.Pow(10, db/20)
}

// SetAmbientVolume adjusts the noise bed. Any parameter update after a
// ramp-down restarts the streamers for the new session.
func (b *BeepBackend) SetAmbientVolume(db float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return
	}
	b.stopped = false
	b.ambient.setGain(b.effectiveGain(db))
}

// SetPulse adjusts the heartbeat repetition rate and level.
func (b *BeepBackend) SetPulse(freqHz, volumeDb float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return
	}
	b.stopped = false
	b.pulse.set(freqHz, b.effectiveGain(volumeDb))
}

// PlayScareCue mixes in a one-shot stinger: a falling saw sweep over a
// noise burst.
func (b *BeepBackend) PlayScareCue() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized || b.muted {
		return
	}
	gain := b.masterGain * 0.9
	speaker.Lock()
	b.mixer.Add(beep.Take(sampleRate.N(1200*time.Millisecond), newScareStinger(gain)))
	speaker.Unlock()
}

// RampDownAndStop fades the continuous streamers to silence over d. The
// streamers stay in the mixer; the next parameter update revives them.
func (b *BeepBackend) RampDownAndStop(d time.Duration) {
	b.mu.Lock()
	if !b.initialized || b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	startAmbient := b.ambient.gain()
	startPulse := b.pulse.gainLevel()
	b.mu.Unlock()

	go func() {
		const steps = 30
		for i := 1; i <= steps; i++ {
			b.mu.Lock()
			if !b.stopped {
				// A new session already revived the audio.
				b.mu.Unlock()
				return
			}
			factor := 1 - float64(i)/steps
			b.ambient.setGain(startAmbient * factor)
			b.pulse.set(0, startPulse*factor)
			b.mu.Unlock()
			time.Sleep(d / steps)
		}
	}()
}

// SetMuted silences all output without losing the current parameters.
func (b *BeepBackend) SetMuted(muted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.muted = muted
	if muted {
		b.ambient.setGain(0)
		b.pulse.set(0, 0)
	}
}

func (b *BeepBackend) effectiveGain(db float64) float64 {
	if b.muted {
		return 0
	}
	return dbToGain(db) * b.masterGain
}

// noiseBed is an endless white-noise streamer with an adjustable gain.
type noiseBed struct {
	mu sync.Mutex
	g  float64
}

func newNoiseBed() *noiseBed { return &noiseBed{} }

func (n *noiseBed) setGain(g float64) {
	n.mu.Lock()
	n.g = g
	n.mu.Unlock()
}

func (n *noiseBed) gain() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.g
}

func (n *noiseBed) Stream(samples [][2]float64) (int, bool) {
	g := n.gain()
	for i := range samples {
		v := (rand.Float64()*2 - 1) * g
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (n *noiseBed) Err() error { return nil }

// heartbeat is an endless streamer producing a low sine thump with an
// exponential decay envelope, repeating freq times per second.
type heartbeat struct {
	mu     sync.Mutex
	freq   float64 // repetitions per second; 0 disables
	g      float64
	phase  float64 // sine phase of the thump body
	cursor int     // samples since the current thump started
}

func newHeartbeat() *heartbeat { return &heartbeat{} }

func (h *heartbeat) set(freq, gain float64) {
	h.mu.Lock()
	if freq > 0 {
		h.freq = freq
	}
	h.g = gain
	h.mu.Unlock()
}

func (h *heartbeat) gainLevel() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.g
}

func (h *heartbeat) Stream(samples [][2]float64) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sr := float64(sampleRate)
	for i := range samples {
		var v float64
		if h.freq > 0 && h.g > 0 {
			period := int(sr / h.freq)
			if period < 1 {
				period = 1
			}
			if h.cursor >= period {
				h.cursor = 0
				h.phase = 0
			}
			// 55 Hz thump decaying over ~150ms.
			t := float64(h.cursor) / sr
			env := math.Exp(-t / 0.15)
			h.phase += 55.0 / sr
			v = math.Sin(2*math.Pi*h.phase) * env * h.g
			h.cursor++
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (h *heartbeat) Err() error { return nil }

// scareStinger generates the jump-scare burst: a saw wave sweeping down
// from 900 Hz under decaying noise.
type scareStinger struct {
	gain   float64
	cursor int
	phase  float64
}

func newScareStinger(gain float64) beep.Streamer {
	return &scareStinger{gain: gain}
}

func (s *scareStinger) Stream(samples [][2]float64) (int, bool) {
	sr := float64(sampleRate)
	for i := range samples {
		t := float64(s.cursor) / sr
		freq := 900.0 * math.Exp(-t*2.2)
		s.phase += freq / sr
		if s.phase >= 1 {
			s.phase -= 1
		}
		saw := 2*s.phase - 1
		noise := (rand.Float64()*2 - 1) * 0.6
		env := math.Exp(-t * 2.8)
		v := (saw*0.7 + noise) * env * s.gain
		samples[i][0] = v
		samples[i][1] = v
		s.cursor++
	}
	return len(samples), true
}

func (s *scareStinger) Err() error { return nil }
