package collector

import (
	"time"

	"codeberg.org/mutker/roomlog/internal/segment"
)

// Rotator decides when the active segment closes and a new one begins. It
// holds no timer of its own; the sampling loop feeds it the current time.
type Rotator struct {
	cycleStart time.Time
	active     segment.ID
	cycle      time.Duration
}

// NewRotator starts the first cycle at the given instant, typically process
// start time.
func NewRotator(start time.Time, cycle time.Duration) *Rotator {
	start = start.UTC()

	return &Rotator{
		cycleStart: start,
		active:     segment.NewID(start),
		cycle:      cycle,
	}
}

// Active returns the segment currently being appended to.
func (r *Rotator) Active() segment.ID {
	return r.active
}

// CycleStart returns when the active cycle began.
func (r *Rotator) CycleStart() time.Time {
	return r.cycleStart
}

// ShouldRotate reports whether the active cycle's duration has elapsed.
func (r *Rotator) ShouldRotate(now time.Time) bool {
	return now.Sub(r.cycleStart) >= r.cycle
}

// Rotate closes the active segment and opens a new one starting now. The
// closed segment's ID is returned for post-processing hand-off; from this
// point the closed segment is never written again.
func (r *Rotator) Rotate(now time.Time) segment.ID {
	closed := r.active
	now = now.UTC()
	r.cycleStart = now
	r.active = segment.NewID(now)

	return closed
}
