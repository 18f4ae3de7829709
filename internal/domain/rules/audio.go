package rules

// AudioCurve maps normalized presence to the continuous audio parameters.
// Both ends are configuration; the mapping between them is linear and
// monotonically increasing.
type AudioCurve struct {
	AmbientQuietDb float64 // ambient noise volume at presence 0
	AmbientTenseDb float64 // ambient noise volume at presence Max

	PulseQuietHz float64 // heartbeat pulse rate at presence 0
	PulseTenseHz float64 // heartbeat pulse rate at presence Max
	PulseQuietDb float64
	PulseTenseDb float64
}

// AudioLevels are the computed parameters handed to the audio backend.
type AudioLevels struct {
	AmbientDb float64
	PulseHz   float64
	PulseDb   float64
}

// MapTension computes the audio parameters for a normalized presence
// level. Input outside [0,1] is clamped.
func MapTension(normalized float64, c AudioCurve) AudioLevels {
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}
	return AudioLevels{
		AmbientDb: lerp(c.AmbientQuietDb, c.AmbientTenseDb, normalized),
		PulseHz:   lerp(c.PulseQuietHz, c.PulseTenseHz, normalized),
		PulseDb:   lerp(c.PulseQuietDb, c.PulseTenseDb, normalized),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
