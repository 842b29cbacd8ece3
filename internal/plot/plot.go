// Package plot renders a closed segment into line-chart PNGs: one chart for
// temperature and humidity, and a separate one for battery level when the
// sensor reported any.
package plot

import (
	"context"
	"image/color"
	"os"
	"path/filepath"

	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/segment"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	defaultDirPerm = 0o755

	chartWidth  = 12 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	temperatureColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	humidityColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// Loader is the slice of the store the renderer reads from.
type Loader interface {
	Load(id segment.ID) ([]segment.Reading, error)
}

type Renderer struct {
	segments Loader
	dir      string
}

func New(segments Loader, dir string) (*Renderer, error) {
	errFactory := errors.New()

	if dir == "" {
		return nil, errFactory.WithMessage(ErrInitFailed, "plot directory not set")
	}
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrInitFailed, err)
	}

	return &Renderer{segments: segments, dir: dir}, nil
}

// Render produces the chart files for a closed segment. Missing or empty
// segments are skipped quietly; the writer must never care whether a chart
// came out.
func (r *Renderer) Render(ctx context.Context, id segment.ID, final bool) error {
	errFactory := errors.New()

	if err := ctx.Err(); err != nil {
		return errFactory.Wrap(errors.ErrTimeout, err)
	}

	readings, err := r.segments.Load(id)
	if err != nil {
		logger.Warn().Err(err).
			Str("segment", id.String()).
			Msg("No readable data to plot")
		return nil
	}
	if len(readings) == 0 {
		logger.Info().
			Str("segment", id.String()).
			Msg("Segment empty, skipping plot")
		return nil
	}

	name := id.String()
	if final {
		name += "_final"
	}

	climatePath := filepath.Join(r.dir, name+".png")
	if err := renderClimate(readings, climatePath); err != nil {
		return err
	}
	logger.Info().Str("path", climatePath).Msg("Wrote plot")

	if !hasBattery(readings) {
		logger.Info().
			Str("segment", id.String()).
			Msg("No battery data available, skipping battery plot")
		return nil
	}

	batteryPath := filepath.Join(r.dir, "pwr_"+name+".png")
	if err := renderBattery(readings, batteryPath); err != nil {
		return err
	}
	logger.Info().Str("path", batteryPath).Msg("Wrote plot")

	return nil
}

func renderClimate(readings []segment.Reading, path string) error {
	errFactory := errors.New()

	p := plot.New()
	p.X.Label.Text = "time"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}
	p.Y.Label.Text = "Temperature (°C) / Humidity (%RH)"

	if pts := points(readings, func(r segment.Reading) *float64 { return r.Temperature }); len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errFactory.Wrap(ErrRenderFailed, err)
		}
		line.Color = temperatureColor
		p.Add(line)
		p.Legend.Add("Temperature (°C)", line)
	}

	if pts := points(readings, func(r segment.Reading) *float64 { return r.Humidity }); len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errFactory.Wrap(ErrRenderFailed, err)
		}
		line.Color = humidityColor
		p.Add(line)
		p.Legend.Add("Humidity (%RH)", line)
	}

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errFactory.Wrap(ErrRenderFailed, err)
	}

	return nil
}

func renderBattery(readings []segment.Reading, path string) error {
	errFactory := errors.New()

	p := plot.New()
	p.X.Label.Text = "time"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15:04"}
	p.Y.Label.Text = "Battery (%)"

	line, err := plotter.NewLine(points(readings, func(r segment.Reading) *float64 { return r.Battery }))
	if err != nil {
		return errFactory.Wrap(ErrRenderFailed, err)
	}
	line.Color = temperatureColor
	p.Add(line)
	p.Legend.Add("Battery Percentage (%)", line)

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errFactory.Wrap(ErrRenderFailed, err)
	}

	return nil
}

// points extracts the present values of one attribute as an XY series,
// skipping readings where the attribute is absent.
func points(readings []segment.Reading, value func(segment.Reading) *float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(readings))
	for _, r := range readings {
		v := value(r)
		if v == nil {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(r.TS.Unix()), Y: *v})
	}

	return pts
}

func hasBattery(readings []segment.Reading) bool {
	for _, r := range readings {
		if r.Battery != nil {
			return true
		}
	}

	return false
}

// Noop satisfies the collector's renderer hook when plots are disabled.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) Render(_ context.Context, _ segment.ID, _ bool) error {
	return nil
}
