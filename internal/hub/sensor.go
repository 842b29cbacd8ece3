package hub

import (
	"context"

	"codeberg.org/mutker/roomlog/internal/errors"
)

// Values is one momentary set of attribute values. Any field may be nil;
// the hub drops attributes a sensor is not currently reporting.
type Values struct {
	Temperature *float64
	Humidity    *float64
	Battery     *float64
}

// Sensor is a resolved handle to one environment sensor.
type Sensor interface {
	Values(ctx context.Context) (Values, error)
}

// EnvironmentSensor implements Sensor against the hub API.
type EnvironmentSensor struct {
	client *Client
	ID     string
	Name   string
}

// Values re-fetches the device so every sample reflects the hub's current
// state rather than the attributes seen at resolution time.
func (s *EnvironmentSensor) Values(ctx context.Context) (Values, error) {
	errFactory := errors.New()

	var d device
	if err := s.client.get(ctx, "/devices/"+s.ID, &d); err != nil {
		return Values{}, err
	}
	if d.DeviceType != deviceTypeEnvironmentSensor {
		return Values{}, errFactory.WithData(ErrBadResponse, d.DeviceType)
	}

	return Values{
		Temperature: d.Attributes.CurrentTemperature,
		Humidity:    d.Attributes.CurrentRH,
		Battery:     d.Attributes.BatteryPercentage,
	}, nil
}
