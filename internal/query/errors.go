package query

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrInvalidRange = errors.ErrorCode("query_invalid_range")
	ErrInvalidDate  = errors.ErrorCode("query_invalid_date")
	ErrListFailed   = errors.ErrorCode("query_list_segments_failed")
)
