package ogg

// SamplingRateHz is the fixed rate at which OGG Opus granule positions
// advance, independent of the input sample rate recorded in the
// identification header.
const SamplingRateHz = 48_000

// GranuleDuration returns the playback seconds between two granule positions.
// A current position behind previous reports 0 rather than wrapping the
// unsigned subtraction. A zero sampleRate means SamplingRateHz.
func GranuleDuration(current, previous uint64, sampleRate uint32) float64 {
	if sampleRate == 0 {
		sampleRate = SamplingRateHz
	}
	if current < previous {
		return 0
	}
	return float64(current-previous) / float64(sampleRate)
}

// DurationTracker derives per-page durations from consecutive granule
// positions. The first page has no predecessor and reports a duration of 0.
// It is NOT safe for concurrent use.
type DurationTracker struct {
	sampleRate  uint32
	previous    uint64
	hasPrevious bool
}

// NewDurationTracker returns a tracker using sampleRate, or SamplingRateHz
// when sampleRate is 0.
func NewDurationTracker(sampleRate uint32) *DurationTracker {
	return &DurationTracker{sampleRate: sampleRate}
}

// Next records granulePosition and returns the seconds elapsed since the
// position passed to the previous call, or 0 on the first call.
func (t *DurationTracker) Next(granulePosition uint64) float64 {
	if !t.hasPrevious {
		t.previous = granulePosition
		t.hasPrevious = true
		return 0
	}

	duration := GranuleDuration(granulePosition, t.previous, t.sampleRate)
	t.previous = granulePosition
	return duration
}
