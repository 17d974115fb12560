package cart

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFileStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}

	if _, ok, err := storage.Load(ctx, "user_1"); err != nil || ok {
		t.Fatalf("expected missing cart, got ok=%v err=%v", ok, err)
	}

	id := uint(7)
	lines := []Line{{ProductName: "تمر سكري", ProductID: &id, Price: decimal.NewFromInt(45), Quantity: 2, FarmName: "مزرعة القصيم"}}
	if err := storage.Save(ctx, "user_1", lines); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, ok, err := storage.Load(ctx, "user_1")
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if !linesEqual(lines, loaded) {
		t.Fatalf("round trip mismatch: %+v vs %+v", lines, loaded)
	}

	if err := storage.Delete(ctx, "user_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := storage.Load(ctx, "user_1"); ok {
		t.Fatalf("cart still present after delete")
	}
	// Deleting a missing key is fine.
	if err := storage.Delete(ctx, "user_1"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestFileStorageOwners(t *testing.T) {
	ctx := context.Background()
	storage, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}

	for _, owner := range []string{"user_1", "user_2"} {
		if err := storage.Save(ctx, owner, []Line{{ProductName: "طماطم", Quantity: 1}}); err != nil {
			t.Fatalf("Save %s failed: %v", owner, err)
		}
	}

	owners, err := storage.Owners(ctx)
	if err != nil {
		t.Fatalf("Owners failed: %v", err)
	}
	sort.Strings(owners)
	if len(owners) != 2 || owners[0] != "user_1" || owners[1] != "user_2" {
		t.Fatalf("unexpected owners: %v", owners)
	}
}

func TestFileStorageCorruptedFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("NewFileStorage failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "user_1.json"), []byte("{{not json"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines, ok, err := storage.Load(ctx, "user_1")
	if err != nil {
		t.Fatalf("corrupted file must not error: %v", err)
	}
	if !ok || len(lines) != 0 {
		t.Fatalf("expected existing empty cart, got ok=%v lines=%v", ok, lines)
	}
}

func TestSanitizeOwner(t *testing.T) {
	cases := map[string]string{
		"user_1":        "user_1",
		"../../etc/pwd": "______etc_pwd",
		"  ":            "_",
		"user:42":       "user_42",
	}
	for in, want := range cases {
		if got := sanitizeOwner(in); got != want {
			t.Fatalf("sanitizeOwner(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestManagerGetCachesStore(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	manager := NewManager(storage, testLimits())

	first := manager.Get(ctx, "user_1")
	if err := first.Add(ctx, testProduct(1, "تمر سكري", 45), 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	second := manager.Get(ctx, "user_1")
	if first != second {
		t.Fatalf("expected the cached store instance")
	}
	if len(second.Lines()) != 1 {
		t.Fatalf("cached store lost its state")
	}
}

func TestManagerInvalidateReloads(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	manager := NewManager(storage, testLimits())

	store := manager.Get(ctx, "user_1")
	if err := store.Add(ctx, testProduct(1, "تمر سكري", 45), 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Simulate another process rewriting the stored cart.
	id := uint(1)
	storage.data["user_1"] = []Line{{ProductName: "تمر سكري", ProductID: &id, Price: decimal.NewFromInt(45), Quantity: 4}}
	manager.Invalidate(ctx, "user_1")

	if got := store.Lines()[0].Quantity; got != 4 {
		t.Fatalf("expected invalidated store to reload quantity 4, got %d", got)
	}

	// Unknown owners are a no-op.
	manager.Invalidate(ctx, "user_unknown")
}
