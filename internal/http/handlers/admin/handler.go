package admin

import "github.com/mazraa-market/internal/provider"

// Handler serves the platform staff API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
