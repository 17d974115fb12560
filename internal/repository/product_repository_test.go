package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/models"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Farm{}, &models.Product{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createTestFarm(t *testing.T, db *gorm.DB, name, farmType string) *models.Farm {
	t.Helper()
	farm := &models.Farm{OwnerID: 1, Name: name, Type: farmType}
	if err := db.Create(farm).Error; err != nil {
		t.Fatalf("create farm failed: %v", err)
	}
	return farm
}

func createTestProduct(t *testing.T, repo *GormProductRepository, farmID uint, name string, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		FarmID:        farmID,
		Name:          name,
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(45)),
		StockQuantity: 10,
		IsAvailable:   available,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductCreatePersistsUnavailableFlag(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	farm := createTestFarm(t, db, "مزرعة تمور القصيم", constants.FarmTypeDates)
	delisted := createTestProduct(t, repo, farm.ID, "تمر خلاص", false)

	stored, err := repo.GetByID(delisted.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if stored == nil {
		t.Fatalf("product not found after create")
	}
	if stored.IsAvailable {
		t.Fatalf("product created as unavailable was stored as available")
	}

	// Relisting must round-trip as well.
	stored.IsAvailable = true
	if err := repo.Update(stored); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	relisted, err := repo.GetByID(delisted.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if relisted == nil || !relisted.IsAvailable {
		t.Fatalf("relisted product must be available again")
	}
}

func TestProductListFilters(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	dates := createTestFarm(t, db, "مزرعة تمور القصيم", constants.FarmTypeDates)
	dairy := createTestFarm(t, db, "ألبان الخرج", constants.FarmTypeDairy)
	createTestProduct(t, repo, dates.ID, "تمر سكري", true)
	createTestProduct(t, repo, dates.ID, "تمر خلاص", false)
	createTestProduct(t, repo, dairy.ID, "لبن طازج", true)

	products, total, err := repo.List(ProductListFilter{OnlyAvailable: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("expected 2 available products, got %d/%d", total, len(products))
	}

	products, total, err = repo.List(ProductListFilter{FarmID: dates.ID})
	if err != nil {
		t.Fatalf("list by farm failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 date farm products, got %d", total)
	}
	for _, p := range products {
		if p.FarmID != dates.ID {
			t.Fatalf("wrong farm in result: %+v", p)
		}
	}

	_, total, err = repo.List(ProductListFilter{FarmType: constants.FarmTypeDairy})
	if err != nil {
		t.Fatalf("list by farm type failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 dairy product, got %d", total)
	}

	_, total, err = repo.List(ProductListFilter{Search: "تمر"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 search hits, got %d", total)
	}

	products, total, err = repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 3 || len(products) != 1 {
		t.Fatalf("expected page 2 with 1 of 3, got %d/%d", total, len(products))
	}
}

func TestProductGetByNameTrimsInput(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	farm := createTestFarm(t, db, "مزرعة تمور القصيم", constants.FarmTypeDates)
	created := createTestProduct(t, repo, farm.ID, "تمر سكري", true)

	product, err := repo.GetByName("  تمر سكري  ")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if product == nil || product.ID != created.ID {
		t.Fatalf("unexpected lookup result: %+v", product)
	}
	if product.Farm == nil || product.Farm.ID != farm.ID {
		t.Fatalf("farm must be preloaded: %+v", product.Farm)
	}

	missing, err := repo.GetByName("غير موجود")
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing product, got %+v", missing)
	}
}

func TestProductListAllAvailableExcludesDelisted(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	farm := createTestFarm(t, db, "مزرعة تمور القصيم", constants.FarmTypeDates)
	createTestProduct(t, repo, farm.ID, "تمر سكري", true)
	delisted := createTestProduct(t, repo, farm.ID, "تمر خلاص", false)

	products, err := repo.ListAllAvailable()
	if err != nil {
		t.Fatalf("list all available failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].ID == delisted.ID {
		t.Fatalf("delisted product leaked into the snapshot")
	}
	if products[0].Farm == nil {
		t.Fatalf("farm must be preloaded for catalog snapshots")
	}

	// Soft-deleted products disappear too.
	if err := repo.Delete(products[0].ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	products, err = repo.ListAllAvailable()
	if err != nil {
		t.Fatalf("list all available failed: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty snapshot after delete, got %d", len(products))
	}
}
