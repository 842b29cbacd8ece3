package segment

import (
	"strings"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
)

const (
	idPrefix   = "sensor_"
	idLayout   = "20060102_150405"
	fileSuffix = ".json"

	dayDigits = 8 // YYYYMMDD portion of the encoded instant
)

// ID identifies one segment by its creation instant, encoded fixed-width so
// lexical order equals chronological order.
type ID string

// NewID derives the identifier for a segment created at the given instant.
func NewID(t time.Time) ID {
	return ID(idPrefix + t.UTC().Format(idLayout))
}

// ParseID validates a raw identifier string.
func ParseID(s string) (ID, error) {
	id := ID(s)
	if _, err := id.Time(); err != nil {
		return "", err
	}

	return id, nil
}

// Time inverts the identifier back to its encoded creation instant (UTC).
func (id ID) Time() (time.Time, error) {
	errFactory := errors.New()

	raw, ok := strings.CutPrefix(string(id), idPrefix)
	if !ok {
		return time.Time{}, errFactory.WithData(ErrInvalidID, string(id))
	}

	t, err := time.ParseInLocation(idLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, errFactory.Wrap(ErrInvalidID, err)
	}

	return t, nil
}

// Day returns the YYYYMMDD portion of the encoded instant, used by the query
// engine for candidate selection.
func (id ID) Day() (string, error) {
	errFactory := errors.New()

	raw, ok := strings.CutPrefix(string(id), idPrefix)
	if !ok || len(raw) < dayDigits {
		return "", errFactory.WithData(ErrInvalidID, string(id))
	}

	day := raw[:dayDigits]
	if _, err := time.ParseInLocation("20060102", day, time.UTC); err != nil {
		return "", errFactory.Wrap(ErrInvalidID, err)
	}

	return day, nil
}

// Filename returns the on-disk file name for the segment.
func (id ID) Filename() string {
	return string(id) + fileSuffix
}

func (id ID) String() string {
	return string(id)
}

// ParseFilename maps a directory entry back to a segment ID. The second
// return is false for files that are not segment files.
func ParseFilename(name string) (ID, bool) {
	raw, ok := strings.CutSuffix(name, fileSuffix)
	if !ok {
		return "", false
	}

	id, err := ParseID(raw)
	if err != nil {
		return "", false
	}

	return id, true
}
