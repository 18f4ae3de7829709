package rules

import "testing"

var testCurve = AudioCurve{
	AmbientQuietDb: -34, AmbientTenseDb: -10,
	PulseQuietHz: 0.8, PulseTenseHz: 5,
	PulseQuietDb: -40, PulseTenseDb: -12,
}

func TestMapTensionEndpoints(t *testing.T) {
	quiet := MapTension(0, testCurve)
	if quiet.AmbientDb != -34 || quiet.PulseHz != 0.8 || quiet.PulseDb != -40 {
		t.Errorf("Expected quiet baseline at 0, got %+v", quiet)
	}

	tense := MapTension(1, testCurve)
	if tense.AmbientDb != -10 || tense.PulseHz != 5 || tense.PulseDb != -12 {
		t.Errorf("Expected tense ceiling at 1, got %+v", tense)
	}
}

func TestMapTensionIsMonotonic(t *testing.T) {
	prev := MapTension(0, testCurve)
	for i := 1; i <= 100; i++ {
		cur := MapTension(float64(i)/100, testCurve)
		if cur.AmbientDb < prev.AmbientDb || cur.PulseHz < prev.PulseHz || cur.PulseDb < prev.PulseDb {
			t.Fatalf("Mapping not monotonic at %d%%: %+v -> %+v", i, prev, cur)
		}
		prev = cur
	}
}

func TestMapTensionClampsInput(t *testing.T) {
	below := MapTension(-0.5, testCurve)
	above := MapTension(1.5, testCurve)

	if below != MapTension(0, testCurve) {
		t.Errorf("Expected input below 0 to clamp to baseline, got %+v", below)
	}
	if above != MapTension(1, testCurve) {
		t.Errorf("Expected input above 1 to clamp to ceiling, got %+v", above)
	}
}
