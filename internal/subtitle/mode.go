package subtitle

// Mode selects how words are grouped into cues. It is implemented only by
// FixedWindow and Natural.
type Mode interface {
	isMode()
}

// FixedWindow cuts cues on a global grid of Duration seconds.
type FixedWindow struct {
	Duration float64
}

// Natural keeps the recognizer's own chunk boundaries.
type Natural struct{}

func (FixedWindow) isMode() {}
func (Natural) isMode()     {}

// DefaultWindow is the fixed window used when none is configured.
const DefaultWindow = 4.0

// ModeFromWindow maps a configured window to a Mode; zero selects Natural.
func ModeFromWindow(window float64) Mode {
	if window == 0 {
		return Natural{}
	}
	return FixedWindow{Duration: window}
}
