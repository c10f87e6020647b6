package connection

import (
	"context"
)

type controllerKey struct{}

// WithController attaches c to ctx for FromContext.
func WithController(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, controllerKey{}, c)
}

// FromContext returns the controller attached to ctx. A missing controller is
// a programming error and panics.
func FromContext(ctx context.Context) *Controller {
	c, ok := ctx.Value(controllerKey{}).(*Controller)
	if !ok || c == nil {
		panic("could not find wallet controller, ensure the controller is attached with connection.WithController")
	}
	return c
}
