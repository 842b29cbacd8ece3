package store

import (
	"context"
	"os"
	"path/filepath"

	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/segment"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644

	tmpPattern = ".tmp_segment_*"
)

// Store persists readings as one JSON file per segment under a single
// directory. Updates replace the whole file via a same-directory temp file
// and an atomic rename, so readers only ever observe complete segment
// contents. Exactly one writer per directory is assumed; there is no
// cross-process lock.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	errFactory := errors.New()

	if dir == "" {
		return nil, errFactory.WithMessage(ErrStorageInit, "data directory not set")
	}

	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Append adds one reading to the segment. The segment file afterwards is
// either its full previous contents or its full previous contents plus the
// new reading, regardless of where the process dies during the call. The
// write is local file I/O and runs to completion even under a cancelled
// context, so a sample acquired just before shutdown is never dropped.
func (s *Store) Append(_ context.Context, id segment.ID, reading segment.Reading) error {
	errFactory := errors.New()

	// An existing segment that no longer parses is treated as empty prior
	// history: future samples matter more than an already-corrupt file.
	readings := s.loadForAppend(id)
	readings = append(readings, reading)

	data, err := segment.Encode(readings)
	if err != nil {
		return errFactory.Wrap(ErrSegmentWrite, err)
	}

	return s.replace(id, data)
}

// replace writes data to a temp file in the segment directory and renames
// it over the segment file. The temp file shares the segment's filesystem,
// which is what makes the rename atomic.
func (s *Store) replace(id segment.ID, data []byte) error {
	errFactory := errors.New()

	tmp, err := os.CreateTemp(s.dir, tmpPattern)
	if err != nil {
		return errFactory.Wrap(ErrSegmentWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrSegmentWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrSegmentWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(ErrSegmentWrite, err)
	}

	if err := os.Chmod(tmpName, defaultFilePerm); err != nil {
		return errFactory.Wrap(ErrSegmentWrite, err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		return errFactory.Wrap(ErrSegmentWrite, err)
	}

	return nil
}

// Load reads a segment's full contents. Missing or unparsable segments
// return an error; tolerating those is query-engine policy, not store policy.
func (s *Store) Load(id segment.ID) ([]segment.Reading, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, errFactory.Wrap(ErrSegmentRead, err)
	}

	readings, dropped, err := segment.Decode(data)
	if err != nil {
		return nil, errFactory.Wrap(ErrSegmentDecode, err)
	}
	if dropped > 0 {
		logger.Warn().
			Str("segment", id.String()).
			Int("dropped", dropped).
			Msg("Dropped records with unparsable timestamps")
	}

	return readings, nil
}

// List returns the IDs of all segments in the store, oldest first. Foreign
// files in the directory are ignored.
func (s *Store) List() ([]segment.ID, error) {
	errFactory := errors.New()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errFactory.Wrap(ErrListSegments, err)
	}

	// ReadDir sorts by filename, which for fixed-width IDs is chronological.
	ids := make([]segment.ID, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := segment.ParseFilename(entry.Name()); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (s *Store) loadForAppend(id segment.ID) []segment.Reading {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).
				Str("segment", id.String()).
				Msg("Failed to read existing segment, starting fresh")
		}
		return nil
	}

	readings, dropped, err := segment.Decode(data)
	if err != nil {
		logger.Warn().Err(err).
			Str("segment", id.String()).
			Msg("Existing segment does not parse, starting fresh")
		return nil
	}
	if dropped > 0 {
		logger.Warn().
			Str("segment", id.String()).
			Int("dropped", dropped).
			Msg("Dropped records with unparsable timestamps")
	}

	return readings
}

func (s *Store) path(id segment.ID) string {
	return filepath.Join(s.dir, id.Filename())
}
