package cart

import (
	"context"
	"sync"

	"github.com/mazraa-market/internal/logger"
)

// Manager hands out one Store per owner over a shared Storage and keeps them
// cached for the life of the process.
type Manager struct {
	mu      sync.Mutex
	storage Storage
	limits  Limits
	stores  map[string]*Store
}

// NewManager builds a manager over the given storage.
func NewManager(storage Storage, limits Limits) *Manager {
	return &Manager{
		storage: storage,
		limits:  limits.normalized(),
		stores:  make(map[string]*Store),
	}
}

// Get returns the owner's store, loading it from storage on first use.
func (m *Manager) Get(ctx context.Context, owner string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if store, ok := m.stores[owner]; ok {
		return store
	}
	store := NewStore(ctx, owner, m.storage, m.limits)
	m.stores[owner] = store
	return store
}

// Clear empties the owner's cart, loading the store first if needed.
func (m *Manager) Clear(ctx context.Context, owner string) error {
	return m.Get(ctx, owner).Clear(ctx)
}

// Invalidate reloads a cached store from storage. Unknown owners are a no-op;
// their state is read fresh on first Get anyway.
func (m *Manager) Invalidate(ctx context.Context, owner string) {
	m.mu.Lock()
	store, ok := m.stores[owner]
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := store.Reload(ctx); err != nil {
		logger.Warnw("cart_invalidate_reload_failed", "owner", owner, "error", err)
	}
}

// Owners lists every owner with a persisted cart.
func (m *Manager) Owners(ctx context.Context) ([]string, error) {
	return m.storage.Owners(ctx)
}

// WatchStorage consumes external-change hints when the storage supports them
// and reloads the affected stores. Returns false when the storage cannot
// watch. Runs until ctx is done.
func (m *Manager) WatchStorage(ctx context.Context) bool {
	watcher, ok := m.storage.(Watcher)
	if !ok {
		return false
	}
	events, err := watcher.Watch(ctx)
	if err != nil {
		logger.Warnw("cart_watch_start_failed", "error", err)
		return false
	}
	go func() {
		for owner := range events {
			m.Invalidate(ctx, owner)
		}
	}()
	return true
}
