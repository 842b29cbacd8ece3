package collector

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrInvalidLoopConfig = errors.ErrorCode("collector_invalid_config")
	ErrAppendFatal       = errors.ErrorCode("collector_append_fatal")
)
