package engine

import (
	"sync"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/player"
)

// InputBuffer is the shared structure between the input source (WebSocket
// read pumps) and the Loop. Held directions are last-write-wins since they
// represent current key state, not discrete events; look deltas accumulate
// and are drained once per tick.
type InputBuffer struct {
	mu sync.Mutex

	forward, backward, left, right bool
	lookYaw, lookPitch             float64
}

// NewInputBuffer creates an empty input buffer.
func NewInputBuffer() *InputBuffer {
	return &InputBuffer{}
}

// SetHeld overwrites the currently-held movement directions.
func (b *InputBuffer) SetHeld(forward, backward, left, right bool) {
	b.mu.Lock()
	b.forward, b.backward, b.left, b.right = forward, backward, left, right
	b.mu.Unlock()
}

// AddLook accumulates a look delta (radians) for the next tick.
func (b *InputBuffer) AddLook(yaw, pitch float64) {
	b.mu.Lock()
	b.lookYaw += yaw
	b.lookPitch += pitch
	b.mu.Unlock()
}

// Reset clears held state and pending deltas, used on session start so a
// stale key-down from the previous session cannot leak in.
func (b *InputBuffer) Reset() {
	b.mu.Lock()
	b.forward, b.backward, b.left, b.right = false, false, false, false
	b.lookYaw, b.lookPitch = 0, 0
	b.mu.Unlock()
}

// Consume returns the input sample for this tick. Held directions persist
// across calls; the look delta is drained.
func (b *InputBuffer) Consume() player.Input {
	b.mu.Lock()
	defer b.mu.Unlock()

	in := player.Input{
		Forward:   b.forward,
		Backward:  b.backward,
		Left:      b.left,
		Right:     b.right,
		LookYaw:   b.lookYaw,
		LookPitch: b.lookPitch,
	}
	b.lookYaw, b.lookPitch = 0, 0
	return in
}
