package collector_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/roomlog/internal/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatorInitialState(t *testing.T) {
	start := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	r := collector.NewRotator(start, time.Hour)

	assert.Equal(t, "sensor_20251120_090000", r.Active().String())
	assert.True(t, r.CycleStart().Equal(start))
}

func TestRotatorShouldRotate(t *testing.T) {
	start := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	r := collector.NewRotator(start, time.Hour)

	assert.False(t, r.ShouldRotate(start.Add(59*time.Minute)))
	assert.True(t, r.ShouldRotate(start.Add(time.Hour)), "elapsed == cycle rotates")
	assert.True(t, r.ShouldRotate(start.Add(time.Hour+5*time.Second)))
}

func TestRotatorRotate(t *testing.T) {
	start := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	r := collector.NewRotator(start, time.Hour)

	rotateAt := time.Date(2025, 11, 20, 10, 0, 5, 0, time.UTC)
	require.True(t, r.ShouldRotate(rotateAt))

	closed := r.Rotate(rotateAt)
	assert.Equal(t, "sensor_20251120_090000", closed.String())
	assert.Equal(t, "sensor_20251120_100005", r.Active().String())
	assert.True(t, r.CycleStart().Equal(rotateAt))

	// The fresh cycle must not rotate again immediately.
	assert.False(t, r.ShouldRotate(rotateAt.Add(time.Minute)))
}

func TestRotatorRecursIndefinitely(t *testing.T) {
	start := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	r := collector.NewRotator(start, time.Hour)

	now := start
	seen := map[string]bool{r.Active().String(): true}
	for i := 0; i < 5; i++ {
		now = now.Add(time.Hour)
		require.True(t, r.ShouldRotate(now))
		r.Rotate(now)
		id := r.Active().String()
		assert.False(t, seen[id], "segment IDs must not repeat")
		seen[id] = true
	}
}
