package segment

import (
	"encoding/json"
	"time"
)

// TimeLayout is the wire format for reading timestamps: ISO-8601, UTC,
// second precision, trailing "Z".
const TimeLayout = "2006-01-02T15:04:05Z"

// Reading is one sensor sample. Each value is independently optional; a nil
// pointer means the sensor did not report that attribute, which is distinct
// from a zero reading.
type Reading struct {
	TS          time.Time
	Temperature *float64 // °C
	Humidity    *float64 // %RH
	Battery     *float64 // %
}

// record is the wire form of a Reading as stored in segment files and
// returned by the query API. Absent values are omitted, never null or zero.
type record struct {
	TS                string   `json:"ts"`
	TemperatureC      *float64 `json:"temperature_c,omitempty"`
	HumidityRH        *float64 `json:"humidity_rh,omitempty"`
	BatteryPercentage *float64 `json:"battery_percentage,omitempty"`
}

func (r Reading) toRecord() record {
	return record{
		TS:                r.TS.UTC().Format(TimeLayout),
		TemperatureC:      r.Temperature,
		HumidityRH:        r.Humidity,
		BatteryPercentage: r.Battery,
	}
}

func (rec record) toReading() (Reading, error) {
	ts, err := time.ParseInLocation(TimeLayout, rec.TS, time.UTC)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		TS:          ts,
		Temperature: rec.TemperatureC,
		Humidity:    rec.HumidityRH,
		Battery:     rec.BatteryPercentage,
	}, nil
}

func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toRecord())
}

func (r *Reading) UnmarshalJSON(data []byte) error {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	reading, err := rec.toReading()
	if err != nil {
		return err
	}

	*r = reading

	return nil
}

// Float returns a pointer to v, for building readings with present values.
func Float(v float64) *float64 {
	return &v
}
