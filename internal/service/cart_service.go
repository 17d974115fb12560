package service

import (
	"context"
	"fmt"

	"github.com/mazraa-market/internal/cart"
	"github.com/mazraa-market/internal/catalog"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/repository"
)

// CartView is the API projection of one cart.
type CartView struct {
	Lines           []cart.Line   `json:"lines"`
	Summary         cart.Summary  `json:"summary"`
	Warnings        []cart.Notice `json:"warnings"`
	CheckoutBlocked bool          `json:"checkout_blocked"`
}

// CartService wraps the per-owner cart stores with product lookups and
// catalog reconciliation.
type CartService struct {
	manager     *cart.Manager
	source      catalog.Source
	productRepo repository.ProductRepository
}

// NewCartService creates the cart service.
func NewCartService(manager *cart.Manager, source catalog.Source, productRepo repository.ProductRepository) *CartService {
	return &CartService{manager: manager, source: source, productRepo: productRepo}
}

// CartOwnerKey derives the storage key for a user's cart.
func CartOwnerKey(userID uint) string {
	return fmt.Sprintf("user_%d", userID)
}

// Manager exposes the underlying store manager for checkout and workers.
func (s *CartService) Manager() *cart.Manager {
	return s.manager
}

// Store returns the live store for one user.
func (s *CartService) Store(ctx context.Context, userID uint) *cart.Store {
	return s.manager.Get(ctx, CartOwnerKey(userID))
}

// View returns the current cart contents and totals.
func (s *CartService) View(ctx context.Context, userID uint) CartView {
	return viewOf(s.Store(ctx, userID))
}

// Add puts a product in the cart by product id.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (CartView, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return CartView{}, err
	}
	if product == nil {
		return CartView{}, ErrProductNotFound
	}
	if !product.IsAvailable {
		return CartView{}, ErrProductNotAvailable
	}

	store := s.Store(ctx, userID)
	if err := store.Add(ctx, catalogProduct(product), quantity); err != nil {
		return viewOf(store), err
	}
	return viewOf(store), nil
}

// UpdateQuantity sets the quantity of one line. rawIdent is a product id or
// a product name.
func (s *CartService) UpdateQuantity(ctx context.Context, userID uint, rawIdent string, quantity int) (CartView, error) {
	store := s.Store(ctx, userID)
	if err := store.UpdateQuantity(ctx, cart.ParseIdentity(rawIdent), quantity); err != nil {
		return viewOf(store), err
	}
	return viewOf(store), nil
}

// Remove drops one line.
func (s *CartService) Remove(ctx context.Context, userID uint, rawIdent string) (CartView, error) {
	store := s.Store(ctx, userID)
	if err := store.Remove(ctx, cart.ParseIdentity(rawIdent)); err != nil {
		return viewOf(store), err
	}
	return viewOf(store), nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.manager.Clear(ctx, CartOwnerKey(userID))
}

// Reconcile refreshes one cart against a catalog snapshot. A catalog fetch
// failure leaves the cart exactly as it was.
func (s *CartService) Reconcile(ctx context.Context, userID uint) (CartView, error) {
	store := s.Store(ctx, userID)
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return viewOf(store), fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if err := store.Reconcile(ctx, snapshot); err != nil {
		return viewOf(store), err
	}
	return viewOf(store), nil
}

// ReconcileAll sweeps every persisted cart against one catalog snapshot.
// Used by the background worker; failures are logged, never fatal.
func (s *CartService) ReconcileAll(ctx context.Context) error {
	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	owners, err := s.manager.Owners(ctx)
	if err != nil {
		return err
	}
	for _, owner := range owners {
		store := s.manager.Get(ctx, owner)
		if err := store.Reconcile(ctx, snapshot); err != nil {
			logger.SW("owner", owner).Warnw("cart_reconcile_failed", "error", err)
		}
	}
	return nil
}

func viewOf(store *cart.Store) CartView {
	view := CartView{
		Lines:           store.Lines(),
		Summary:         store.Summary(),
		Warnings:        store.Warnings(),
		CheckoutBlocked: store.CheckoutBlocked(),
	}
	if view.Lines == nil {
		view.Lines = []cart.Line{}
	}
	if view.Warnings == nil {
		view.Warnings = []cart.Notice{}
	}
	return view
}
