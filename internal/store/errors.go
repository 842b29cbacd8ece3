package store

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrStorageInit   = errors.ErrorCode("store_init_failed")
	ErrSegmentRead   = errors.ErrorCode("store_segment_read_failed")
	ErrSegmentWrite  = errors.ErrorCode("store_segment_write_failed")
	ErrSegmentDecode = errors.ErrorCode("store_segment_decode_failed")
	ErrListSegments  = errors.ErrorCode("store_list_segments_failed")
)
