package query_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/roomlog/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 20, 14, 30, 0, 0, time.UTC)

func TestResolveWindowRelativeRanges(t *testing.T) {
	cases := map[string]time.Duration{
		"6h":  6 * time.Hour,
		"12h": 12 * time.Hour,
		"24h": 24 * time.Hour,
		"3d":  72 * time.Hour,
		"7d":  168 * time.Hour,
		"1m":  720 * time.Hour,
	}

	for rng, span := range cases {
		start, end, err := query.ResolveWindow(rng, "", now)
		require.NoError(t, err, "range %s", rng)
		assert.True(t, end.Equal(now), "range %s should end now", rng)
		assert.True(t, start.Equal(now.Add(-span)), "range %s start", rng)
	}
}

func TestResolveWindowWithPastDate(t *testing.T) {
	start, end, err := query.ResolveWindow("24h", "2025-11-18", now)
	require.NoError(t, err)

	wantEnd := time.Date(2025, 11, 18, 23, 59, 59, 0, time.UTC)
	assert.True(t, end.Equal(wantEnd), "end = %v, want %v", end, wantEnd)
	assert.True(t, start.Equal(wantEnd.Add(-24*time.Hour)))
}

func TestResolveWindowWithTodayDate(t *testing.T) {
	_, end, err := query.ResolveWindow("6h", "2025-11-20", now)
	require.NoError(t, err)
	assert.True(t, end.Equal(now), "a reference date of today ends the window now")
}

func TestResolveWindowUnknownRange(t *testing.T) {
	_, _, err := query.ResolveWindow("48h", "", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "48h")
}

func TestResolveWindowBadDate(t *testing.T) {
	_, _, err := query.ResolveWindow("24h", "20-11-2025", now)
	assert.Error(t, err)
}
