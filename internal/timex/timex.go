// Package timex holds small time-math helpers used by the scheduler's
// debug-stats ticker. Kept from the teacher codebase's x/timex.
package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// ChunkDuration returns how long chunkSamples worth of samples
// represent at the given sample rate (samples/second). Used by the
// scheduler to derive its debug-stats ticker interval.
// rate<=0 returns 0.
func ChunkDuration(rate float64, chunkSamples int) time.Duration {
	if rate <= 0 || chunkSamples <= 0 {
		return 0
	}
	seconds := float64(chunkSamples) / rate
	return time.Duration(seconds * float64(time.Second))
}
