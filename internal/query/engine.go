package query

import (
	"context"
	"sort"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/segment"
)

const dayLayout = "20060102"

// SegmentSource is the slice of the store the engine reads from.
type SegmentSource interface {
	List() ([]segment.ID, error)
	Load(id segment.ID) ([]segment.Reading, error)
}

// Engine answers time-window queries by scanning candidate segments. There
// is no index: candidates are picked from the day encoded in each segment
// ID, their contents merged, filtered and sorted.
type Engine struct {
	segments SegmentSource
}

func NewEngine(segments SegmentSource) *Engine {
	return &Engine{segments: segments}
}

// Query returns every stored reading with start <= ts <= end, ordered by
// timestamp ascending. Corrupt segments are skipped with a warning; a
// partial result beats no result. start > end yields an empty result, the
// bounds are never swapped.
func (e *Engine) Query(ctx context.Context, start, end time.Time) ([]segment.Reading, error) {
	errFactory := errors.New()

	if start.After(end) {
		logger.Warn().
			Time("start", start).
			Time("end", end).
			Msg("Query start is after end, returning empty result")
		return []segment.Reading{}, nil
	}

	ids, err := e.segments.List()
	if err != nil {
		return nil, errFactory.Wrap(ErrListFailed, err)
	}

	merged := []segment.Reading{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, errFactory.Wrap(errors.ErrTimeout, err)
		}
		if !candidate(id, start, end) {
			continue
		}

		readings, err := e.segments.Load(id)
		if err != nil {
			logger.Warn().Err(err).
				Str("segment", id.String()).
				Msg("Skipping unreadable segment")
			continue
		}
		merged = append(merged, readings...)
	}

	filtered := merged[:0]
	for _, r := range merged {
		if r.TS.Before(start) || r.TS.After(end) {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].TS.Before(filtered[j].TS)
	})

	return filtered, nil
}

// candidate reports whether the segment's encoded day falls inside the
// padded query window. The one-day backward pad covers segments created
// late on the previous day that still hold readings inside the window;
// selection must over-include, the exact timestamp filter trims the rest.
func candidate(id segment.ID, start, end time.Time) bool {
	day, err := id.Day()
	if err != nil {
		return false
	}

	firstDay := start.UTC().AddDate(0, 0, -1).Format(dayLayout)
	lastDay := end.UTC().Format(dayLayout)

	return day >= firstDay && day <= lastDay
}
