package synthesizer

import (
	"math"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// Prosody holds the speaking-rate and volume multipliers, each in (0, 2).
type Prosody struct {
	Pace   float64
	Volume float64
}

// DefaultProsody is a slightly quickened pace at unchanged volume.
func DefaultProsody() Prosody {
	return Prosody{Pace: 1.15, Volume: 1.0}
}

func (p Prosody) Validate() error {
	if !(p.Pace > 0 && p.Pace < 2) {
		return apperr.Validation("pace must be between 0 and 2, got %v", p.Pace)
	}
	if !(p.Volume > 0 && p.Volume < 2) {
		return apperr.Validation("volume must be between 0 and 2, got %v", p.Volume)
	}
	return nil
}

// RatePercent is the speaking-rate delta, e.g. 1.15 -> 15.
func (p Prosody) RatePercent() int { return percent(p.Pace) }

// VolumePercent is the volume delta, e.g. 0.8 -> -20.
func (p Prosody) VolumePercent() int { return percent(p.Volume) }

// percent rounds to the nearest whole percent, kept inside (-100, +100).
func percent(m float64) int {
	return max(-99, min(99, int(math.Round((m-1)*100))))
}
