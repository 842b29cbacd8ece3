package segment_test

import (
	"encoding/json"
	"testing"
	"time"

	"codeberg.org/mutker/roomlog/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	readings := []segment.Reading{
		{
			TS:          time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC),
			Temperature: segment.Float(21.0),
			Humidity:    segment.Float(45.0),
			Battery:     segment.Float(87),
		},
		{
			TS:          time.Date(2025, 11, 20, 10, 2, 0, 0, time.UTC),
			Temperature: segment.Float(21.1),
		},
	}

	data, err := segment.Encode(readings)
	require.NoError(t, err)

	decoded, dropped, err := segment.Decode(data)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, decoded, 2)

	assert.True(t, decoded[0].TS.Equal(readings[0].TS))
	require.NotNil(t, decoded[0].Temperature)
	assert.InDelta(t, 21.0, *decoded[0].Temperature, 0.001)
	require.NotNil(t, decoded[0].Battery)
	assert.InDelta(t, 87.0, *decoded[0].Battery, 0.001)

	// Absent fields stay absent, they never become zero.
	assert.Nil(t, decoded[1].Humidity)
	assert.Nil(t, decoded[1].Battery)
}

func TestEncodeOmitsAbsentFields(t *testing.T) {
	readings := []segment.Reading{{
		TS:       time.Date(2025, 11, 20, 10, 4, 0, 0, time.UTC),
		Humidity: segment.Float(44.5),
	}}

	data, err := segment.Encode(readings)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"ts": "2025-11-20T10:04:00Z"`)
	assert.Contains(t, string(data), `"humidity_rh"`)
	assert.NotContains(t, string(data), "temperature_c")
	assert.NotContains(t, string(data), "battery_percentage")
	assert.NotContains(t, string(data), "null")
}

func TestEncodeEmpty(t *testing.T) {
	data, err := segment.Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestDecodeDropsUnparsableTimestamps(t *testing.T) {
	data := []byte(`[
		{"ts": "2025-11-20T10:00:00Z", "temperature_c": 21.0},
		{"ts": "yesterday-ish", "temperature_c": 21.1},
		{"ts": "2025-11-20T10:04:00Z", "humidity_rh": 44.5}
	]`)

	readings, dropped, err := segment.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, readings, 2)
	assert.True(t, readings[1].TS.Equal(time.Date(2025, 11, 20, 10, 4, 0, 0, time.UTC)))
}

func TestDecodeCorruptData(t *testing.T) {
	_, _, err := segment.Decode([]byte(`[{"ts": "2025-11-`))
	assert.Error(t, err)
}

func TestReadingJSONWireFormat(t *testing.T) {
	reading := segment.Reading{
		TS:          time.Date(2025, 11, 20, 21, 40, 32, 0, time.UTC),
		Temperature: segment.Float(21.3),
		Humidity:    segment.Float(45.2),
	}

	data, err := json.Marshal(reading)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ts":"2025-11-20T21:40:32Z","temperature_c":21.3,"humidity_rh":45.2}`, string(data))

	var back segment.Reading
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.TS.Equal(reading.TS))
	assert.Nil(t, back.Battery)
}
