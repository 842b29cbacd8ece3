package collector

import (
	"context"
	"os"
	"syscall"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/hub"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/segment"
)

type Config struct {
	Interval   time.Duration
	Cycle      time.Duration
	SensorName string
	Source     SensorSource
	Store      Appender
	Renderer   Renderer
	Now        func() time.Time // defaults to time.Now
}

// Collector is the single writer: it samples the sensor every interval,
// appends to the active segment and rotates segments when a cycle elapses.
type Collector struct {
	cfg     Config
	rotator *Rotator
	sensor  hub.Sensor
	now     func() time.Time
}

func New(cfg Config) (*Collector, error) {
	errFactory := errors.New()

	if cfg.Interval <= 0 || cfg.Cycle <= 0 {
		return nil, errFactory.New(ErrInvalidLoopConfig)
	}
	if cfg.SensorName == "" || cfg.Source == nil || cfg.Store == nil || cfg.Renderer == nil {
		return nil, errFactory.New(ErrInvalidLoopConfig)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Collector{
		cfg:     cfg,
		rotator: NewRotator(now(), cfg.Cycle),
		now:     now,
	}, nil
}

// Active returns the segment currently being written.
func (c *Collector) Active() segment.ID {
	return c.rotator.Active()
}

// Run drives the sampling loop until ctx is cancelled. Cancellation is the
// clean-shutdown path: any in-flight tick completes, the active segment is
// handed to the renderer one final time and Run returns nil. The only error
// returns are unrecoverable filesystem failures.
func (c *Collector) Run(ctx context.Context) error {
	logger.Info().
		Str("segment", c.rotator.Active().String()).
		Msg("Starting logging cycle")

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	// First sample lands immediately; the ticker paces the rest.
	if err := c.tick(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.finalFlush()
			return nil
		case <-ticker.C:
			if err := c.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (c *Collector) tick(ctx context.Context) error {
	now := c.now().UTC()

	if c.sensor == nil {
		sensor, err := c.cfg.Source.FindByName(ctx, c.cfg.SensorName)
		if err != nil {
			logger.Warn().Err(err).
				Str("sensor", c.cfg.SensorName).
				Msg("Sensor not found, retrying next interval")
			return nil
		}
		c.sensor = sensor
	}

	values, err := c.sensor.Values(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read sensor values")
		// Force re-resolution next tick in case the handle went stale.
		c.sensor = nil
		return nil
	}

	reading := segment.Reading{
		TS:          now.Truncate(time.Second),
		Temperature: values.Temperature,
		Humidity:    values.Humidity,
		Battery:     values.Battery,
	}

	if err := c.append(ctx, reading); err != nil {
		return err
	}

	if c.rotator.ShouldRotate(now) {
		closed := c.rotator.Rotate(now)
		logger.Info().
			Str("closed", closed.String()).
			Str("segment", c.rotator.Active().String()).
			Msg("Cycle complete, starting new segment")
		c.render(ctx, closed, false)
	}

	return nil
}

func (c *Collector) append(ctx context.Context, reading segment.Reading) error {
	errFactory := errors.New()

	err := c.cfg.Store.Append(ctx, c.rotator.Active(), reading)
	if err == nil {
		logger.Info().
			Str("segment", c.rotator.Active().String()).
			Time("ts", reading.TS).
			Msg("Appended reading")
		return nil
	}

	// Disk-full and permission failures are not safely retryable mid-tick;
	// everything else drops this single reading and carries on.
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, os.ErrPermission) {
		return errFactory.Wrap(ErrAppendFatal, err)
	}

	logger.Error().Err(err).
		Str("segment", c.rotator.Active().String()).
		Msg("Failed to append reading")

	return nil
}

// finalFlush hands the active segment to the renderer before shutdown so an
// interrupted cycle still gets its artifact.
func (c *Collector) finalFlush() {
	logger.Info().Msg("Interrupted, handing off active segment before exit")
	c.render(context.Background(), c.rotator.Active(), true)
}

func (c *Collector) render(ctx context.Context, id segment.ID, final bool) {
	if err := c.cfg.Renderer.Render(ctx, id, final); err != nil {
		logger.Warn().Err(err).
			Str("segment", id.String()).
			Msg("Post-processing failed")
	}
}
