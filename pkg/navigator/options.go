package navigator

import (
	"log/slog"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithRequestTimeout bounds every topic service call. Zero (the default) means no timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}
