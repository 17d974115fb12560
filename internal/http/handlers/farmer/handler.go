package farmer

import "github.com/mazraa-market/internal/provider"

// Handler serves the farmer-side API: own farms, products and incoming
// orders.
type Handler struct {
	*provider.Container
}

// New creates the farmer handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
