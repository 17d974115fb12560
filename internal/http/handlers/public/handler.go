package public

import "github.com/mazraa-market/internal/provider"

// Handler serves the storefront and consumer-side API.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
