package cart

import "context"

// Storage is the durable key-value backing for carts: one JSON array of wire
// lines per owner key. A Save must complete before the in-memory mutation is
// committed.
type Storage interface {
	// Load returns the stored lines and whether the owner key existed.
	Load(ctx context.Context, owner string) ([]Line, bool, error)
	// Save replaces the owner's stored lines.
	Save(ctx context.Context, owner string, lines []Line) error
	// Delete removes the owner key entirely.
	Delete(ctx context.Context, owner string) error
	// Owners lists every owner with a stored cart.
	Owners(ctx context.Context) ([]string, error)
}

// Watcher is implemented by storages that can report external changes to an
// owner key. Events carry no payload beyond the owner; consumers must reload
// full state rather than apply diffs.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}
