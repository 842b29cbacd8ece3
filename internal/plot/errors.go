package plot

import "codeberg.org/mutker/roomlog/internal/errors"

const (
	ErrInitFailed   = errors.ErrorCode("plot_init_failed")
	ErrRenderFailed = errors.ErrorCode("plot_render_failed")
)
