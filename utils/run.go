package utils

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RandomInRange returns a random int in [min, max], swapping the bounds when
// they arrive reversed.
func RandomInRange(min, max int) int {
	if min > max {
		min, max = max, min
	}
	return min + rand.Intn(max-min+1)
}

// SleepRandom blocks for a random number of seconds in [minSeconds,
// maxSeconds], or until ctx is cancelled. This is the pacing delay between
// applications; it is jittered on purpose.
func SleepRandom(ctx context.Context, minSeconds, maxSeconds int) {
	if maxSeconds <= 0 {
		return
	}
	d := time.Duration(RandomInRange(minSeconds, maxSeconds)) * time.Second
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// FormatDuration renders an elapsed time as "1h 2m 3s" for run summaries.
func FormatDuration(start, end time.Time) string {
	d := end.Sub(start)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
