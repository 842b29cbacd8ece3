package segment

import (
	"encoding/json"

	"codeberg.org/mutker/roomlog/internal/errors"
)

// Encode serializes readings as the segment file contents. An empty slice
// encodes as an empty JSON array, never as null.
func Encode(readings []Reading) ([]byte, error) {
	errFactory := errors.New()

	records := make([]record, 0, len(readings))
	for _, r := range readings {
		records = append(records, r.toRecord())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidFormat, err)
	}

	return data, nil
}

// Decode parses segment file contents. Records with unparsable timestamps
// are dropped rather than failing the whole segment; the second return
// counts how many were dropped so callers can log it.
func Decode(data []byte) ([]Reading, int, error) {
	errFactory := errors.New()

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, errFactory.Wrap(ErrInvalidFormat, err)
	}

	readings := make([]Reading, 0, len(records))
	dropped := 0
	for _, rec := range records {
		reading, err := rec.toReading()
		if err != nil {
			dropped++
			continue
		}
		readings = append(readings, reading)
	}

	return readings, dropped, nil
}
