package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// FormatTimestamp converts seconds to SRT "HH:MM:SS,mmm", truncating to the
// millisecond and never rounding up into the next second. A tiny epsilon
// absorbs binary float noise (65.32 is stored as 65.3199999...).
// Hours are zero-padded to two digits and grow beyond that; values past the
// int64 millisecond range (about 292 million years), +Inf included, clamp to
// that maximum. Negative and NaN inputs format as zero.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}

	var total int64
	if ms := math.Floor(seconds*1000 + 1e-6); ms >= math.MaxInt64 {
		total = math.MaxInt64
	} else {
		total = int64(ms)
	}

	millis := total % 1000
	secs := total / 1000 % 60
	minutes := total / 60000 % 60
	hours := total / 3600000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp parses "HH:MM:SS,mmm" (a dot separator is also accepted)
// back into seconds.
func ParseTimestamp(ts string) (float64, error) {
	ts = strings.Replace(strings.TrimSpace(ts), ".", ",", 1)

	clock, ms, ok := strings.Cut(ts, ",")
	if !ok {
		return 0, apperr.Validation("timestamp %q missing milliseconds", ts)
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return 0, apperr.Validation("timestamp %q is not HH:MM:SS,mmm", ts)
	}

	var fields [4]int64
	for i, p := range append(parts, ms) {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil || v < 0 {
			return 0, apperr.Validation("timestamp %q has invalid field %q", ts, p)
		}
		fields[i] = v
	}
	if fields[1] > 59 || fields[2] > 59 || fields[3] > 999 {
		return 0, apperr.Validation("timestamp %q out of range", ts)
	}

	totalMillis := ((fields[0]*60+fields[1])*60+fields[2])*1000 + fields[3]
	return float64(totalMillis) / 1000, nil
}
