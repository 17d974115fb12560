package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mazraa-market/internal/cart"
	"github.com/mazraa-market/internal/catalog"
)

// flakySource is a catalog.Source whose snapshot can be forced to fail.
type flakySource struct {
	products []catalog.Product
	fail     bool
}

func (s *flakySource) Snapshot(ctx context.Context) ([]catalog.Product, error) {
	if s.fail {
		return nil, catalog.ErrUnavailable
	}
	return s.products, nil
}

func TestCartServiceAddValidatesProduct(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv(t, "cart_add_validate")
	farm := env.seedFarm(t, 10, "مزرعة تمور القصيم")
	product := env.seedProduct(t, farm.ID, "تمر سكري", 45)

	if _, err := env.cartService.Add(ctx, 1, 999, 1); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	delisted := env.seedProduct(t, farm.ID, "صنف موقوف", 20)
	if err := env.db.Model(delisted).Update("is_available", false).Error; err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := env.cartService.Add(ctx, 1, delisted.ID, 1); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}

	view, err := env.cartService.Add(ctx, 1, product.ID, 2)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].FarmName != farm.Name {
		t.Fatalf("expected the farm name resolved on the line, got %+v", view.Lines)
	}
}

func TestCartServiceLineOperations(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv(t, "cart_line_ops")
	farm := env.seedFarm(t, 10, "مزرعة تمور القصيم")
	product := env.seedProduct(t, farm.ID, "تمر سكري", 45)

	if _, err := env.cartService.Add(ctx, 1, product.ID, 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	view, err := env.cartService.UpdateQuantity(ctx, 1, "تمر سكري", 3)
	if err != nil {
		t.Fatalf("UpdateQuantity by name failed: %v", err)
	}
	if view.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.Lines[0].Quantity)
	}

	if _, err := env.cartService.Remove(ctx, 1, "999"); !errors.Is(err, cart.ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
	if _, err := env.cartService.Remove(ctx, 1, "تمر سكري"); err != nil {
		t.Fatalf("Remove by name failed: %v", err)
	}
	if view := env.cartService.View(ctx, 1); len(view.Lines) != 0 {
		t.Fatalf("expected empty cart")
	}

	// Carts are isolated per user.
	if _, err := env.cartService.Add(ctx, 2, product.ID, 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if view := env.cartService.View(ctx, 1); len(view.Lines) != 0 {
		t.Fatalf("user 1 cart must not see user 2 lines")
	}
}

func TestCartServiceReconcileFailureLeavesCart(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv(t, "cart_reconcile_down")
	farm := env.seedFarm(t, 10, "مزرعة تمور القصيم")
	product := env.seedProduct(t, farm.ID, "تمر سكري", 45)

	source := &flakySource{fail: true}
	svc := NewCartService(env.cartService.Manager(), source, env.productRepo)

	if _, err := svc.Add(ctx, 1, product.ID, 2); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	view, err := svc.Reconcile(ctx, 1)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
	// The unreachable catalog must not touch the cart.
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 2 {
		t.Fatalf("failed reconcile must leave the cart intact, got %+v", view.Lines)
	}

	// Once the catalog is back the snapshot applies.
	source.fail = false
	source.products = []catalog.Product{{ID: product.ID, Name: "تمر سكري", Price: decimal.NewFromInt(50), FarmName: farm.Name}}
	view, err = svc.Reconcile(ctx, 1)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if !view.Lines[0].Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected refreshed price 50, got %s", view.Lines[0].Price)
	}
}

func TestCartServiceReconcileAll(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv(t, "cart_reconcile_all")
	farm := env.seedFarm(t, 10, "مزرعة تمور القصيم")
	product := env.seedProduct(t, farm.ID, "تمر سكري", 45)

	for _, userID := range []uint{1, 2} {
		if _, err := env.cartService.Add(ctx, userID, product.ID, 1); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	// Price change lands in every persisted cart on the next sweep.
	if err := env.db.Model(product).Update("price", "52.00").Error; err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := env.cartService.ReconcileAll(ctx); err != nil {
		t.Fatalf("ReconcileAll failed: %v", err)
	}
	for _, userID := range []uint{1, 2} {
		view := env.cartService.View(ctx, userID)
		if !view.Lines[0].Price.Equal(decimal.RequireFromString("52")) {
			t.Fatalf("user %d: expected swept price 52, got %s", userID, view.Lines[0].Price)
		}
	}
}
