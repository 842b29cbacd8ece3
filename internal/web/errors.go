package web

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrServerFailed = errors.ErrorCode("web_server_failed")
	ErrQueryFailed  = errors.ErrorCode("web_query_failed")
)
