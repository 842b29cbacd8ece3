package hub

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrMissingAddress = errors.ErrorCode("hub_missing_address")
	ErrMissingToken   = errors.ErrorCode("hub_missing_token")
	ErrUnreachable    = errors.ErrorCode("hub_unreachable")
	ErrBadResponse    = errors.ErrorCode("hub_bad_response")
	ErrSensorNotFound = errors.ErrorCode("hub_sensor_not_found")
)
