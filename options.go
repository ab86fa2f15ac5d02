package vgl

import "log/slog"

// Option configures a Context.
type Option func(*Context)

// WithConfig replaces the whole configuration.
// Apply it before options that override single fields.
func WithConfig(cfg Config) Option {
	return func(c *Context) { c.cfg = cfg }
}

// WithCapacity sets how many primitives one frame can hold.
func WithCapacity(n int) Option {
	return func(c *Context) { c.cfg.BatchCapacity = n }
}

// WithLogger sets the logger for this context instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithViewport sets the initial window size.
func WithViewport(width, height int) Option {
	return func(c *Context) {
		c.cfg.Window.Width = width
		c.cfg.Window.Height = height
	}
}

// WithProjection sets the initial projection mode.
func WithProjection(mode ProjectionMode) Option {
	return func(c *Context) { c.cfg.Projection = mode }
}
