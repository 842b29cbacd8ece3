package query

import (
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
)

const dateLayout = "2006-01-02"

// windows are the relative ranges the dashboard can request.
var windows = map[string]time.Duration{
	"6h":  6 * time.Hour,
	"12h": 12 * time.Hour,
	"24h": 24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"1m":  30 * 24 * time.Hour,
}

// ResolveWindow turns a relative range and an optional reference date into
// a concrete [start, end] pair. With a reference date the window ends at
// 23:59:59 of that day, unless the date is today, in which case it ends
// now. Unknown ranges and malformed dates are contract errors.
func ResolveWindow(rng, date string, now time.Time) (start, end time.Time, err error) {
	errFactory := errors.New()

	span, ok := windows[rng]
	if !ok {
		return time.Time{}, time.Time{}, errFactory.WithData(ErrInvalidRange, rng)
	}

	now = now.UTC().Truncate(time.Second)
	end = now
	if date != "" {
		day, parseErr := time.ParseInLocation(dateLayout, date, time.UTC)
		if parseErr != nil {
			return time.Time{}, time.Time{}, errFactory.Wrap(ErrInvalidDate, parseErr)
		}
		if !sameDay(day, now) {
			end = day.Add(24*time.Hour - time.Second) // 23:59:59 of the reference day
		}
	}

	return end.Add(-span), end, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()

	return ay == by && am == bm && ad == bd
}
