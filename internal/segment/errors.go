package segment

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrInvalidID     = errors.ErrorCode("segment_invalid_id")
	ErrInvalidFormat = errors.ErrorCode("segment_invalid_format")
)
