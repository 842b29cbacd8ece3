package query_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/roomlog/internal/query"
	"codeberg.org/mutker/roomlog/internal/segment"
	"codeberg.org/mutker/roomlog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*query.Engine, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.New(dir)
	require.NoError(t, err)

	return query.NewEngine(s), s, dir
}

func appendReading(t *testing.T, s *store.Store, id segment.ID, r segment.Reading) {
	t.Helper()
	require.NoError(t, s.Append(context.Background(), id, r))
}

func at(hour, minute, second int) time.Time {
	return time.Date(2025, 11, 20, hour, minute, second, 0, time.UTC)
}

func TestQueryFiltersToExactWindow(t *testing.T) {
	engine, s, _ := newEngine(t)
	id, err := segment.ParseID("sensor_20251120_095959")
	require.NoError(t, err)

	appendReading(t, s, id, segment.Reading{TS: at(10, 0, 0), Temperature: segment.Float(21.0), Humidity: segment.Float(45.0)})
	appendReading(t, s, id, segment.Reading{TS: at(10, 2, 0), Temperature: segment.Float(21.1)})
	appendReading(t, s, id, segment.Reading{TS: at(10, 4, 0), Humidity: segment.Float(44.5)})

	readings, err := engine.Query(context.Background(), at(10, 1, 0), at(10, 5, 0))
	require.NoError(t, err)

	require.Len(t, readings, 2)
	assert.True(t, readings[0].TS.Equal(at(10, 2, 0)))
	assert.True(t, readings[1].TS.Equal(at(10, 4, 0)))

	// Optional fields survive the full append/load/query path as absent.
	assert.Nil(t, readings[0].Humidity)
	assert.Nil(t, readings[1].Temperature)
	require.NotNil(t, readings[1].Humidity)
	assert.InDelta(t, 44.5, *readings[1].Humidity, 0.001)
}

func TestQueryBoundsAreInclusive(t *testing.T) {
	engine, s, _ := newEngine(t)
	id := segment.NewID(at(9, 0, 0))

	appendReading(t, s, id, segment.Reading{TS: at(10, 0, 0)})
	appendReading(t, s, id, segment.Reading{TS: at(10, 5, 0)})

	readings, err := engine.Query(context.Background(), at(10, 0, 0), at(10, 5, 0))
	require.NoError(t, err)
	assert.Len(t, readings, 2)
}

func TestQuerySpansRotationBoundary(t *testing.T) {
	engine, s, _ := newEngine(t)

	before := segment.NewID(at(9, 0, 0))
	after := segment.NewID(at(10, 0, 5))

	appendReading(t, s, before, segment.Reading{TS: at(9, 58, 0), Temperature: segment.Float(20.8)})
	appendReading(t, s, before, segment.Reading{TS: at(10, 0, 0), Temperature: segment.Float(20.9)})
	appendReading(t, s, after, segment.Reading{TS: at(10, 0, 10), Temperature: segment.Float(21.0)})
	appendReading(t, s, after, segment.Reading{TS: at(10, 2, 10), Temperature: segment.Float(21.1)})

	readings, err := engine.Query(context.Background(), at(9, 0, 0), at(11, 0, 0))
	require.NoError(t, err)

	require.Len(t, readings, 4, "no duplication, no gap across the rotation boundary")
	for i := 1; i < len(readings); i++ {
		assert.True(t, readings[i-1].TS.Before(readings[i].TS), "result must be ordered")
	}
}

func TestQueryIncludesPreviousDaySegment(t *testing.T) {
	// A segment created late on day D-1 holds readings for day D; candidate
	// selection must pad one day backward to find them.
	engine, s, _ := newEngine(t)

	id := segment.NewID(time.Date(2025, 11, 19, 23, 30, 0, 0, time.UTC))
	appendReading(t, s, id, segment.Reading{TS: at(0, 10, 0), Temperature: segment.Float(19.5)})

	readings, err := engine.Query(context.Background(), at(0, 0, 0), at(6, 0, 0))
	require.NoError(t, err)
	require.Len(t, readings, 1)
	require.NotNil(t, readings[0].Temperature)
	assert.InDelta(t, 19.5, *readings[0].Temperature, 0.001)
}

func TestQuerySkipsCorruptSegment(t *testing.T) {
	engine, s, dir := newEngine(t)

	good := segment.NewID(at(9, 0, 0))
	appendReading(t, s, good, segment.Reading{TS: at(9, 30, 0), Temperature: segment.Float(21.0)})

	bad := segment.NewID(at(10, 0, 5))
	require.NoError(t, os.WriteFile(filepath.Join(dir, bad.Filename()), []byte("not json"), 0o644))

	readings, err := engine.Query(context.Background(), at(9, 0, 0), at(11, 0, 0))
	require.NoError(t, err, "a corrupt segment must not fail the query")
	assert.Len(t, readings, 1)
}

func TestQueryEmptyStore(t *testing.T) {
	engine, _, _ := newEngine(t)

	readings, err := engine.Query(context.Background(), at(0, 0, 0), at(23, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, readings)
	assert.NotNil(t, readings, "empty result, not an error or null")
}

func TestQueryNoCandidates(t *testing.T) {
	engine, s, _ := newEngine(t)

	id := segment.NewID(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	appendReading(t, s, id, segment.Reading{TS: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)})

	readings, err := engine.Query(context.Background(), at(0, 0, 0), at(23, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestQueryStartAfterEnd(t *testing.T) {
	engine, s, _ := newEngine(t)

	id := segment.NewID(at(9, 0, 0))
	appendReading(t, s, id, segment.Reading{TS: at(9, 30, 0)})

	readings, err := engine.Query(context.Background(), at(11, 0, 0), at(9, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, readings, "bounds are never swapped")
}
