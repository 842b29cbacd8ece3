package collector

import (
	"context"

	"codeberg.org/mutker/roomlog/internal/hub"
	"codeberg.org/mutker/roomlog/internal/segment"
)

// SensorSource resolves sensor handles by their configured custom name.
type SensorSource interface {
	FindByName(ctx context.Context, name string) (hub.Sensor, error)
}

// Appender is the slice of the store the sampling loop writes through.
type Appender interface {
	Append(ctx context.Context, id segment.ID, reading segment.Reading) error
}

// Renderer receives closed segments for post-processing. Render failures
// never affect the writer; the loop only logs them.
type Renderer interface {
	Render(ctx context.Context, id segment.ID, final bool) error
}
