package service

import (
	"strings"

	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Unit          string
	ImageURL      string
	Gallery       []string
	IsAvailable   *bool
}

// ProductService handles the public product catalog and farmer-side product
// management.
type ProductService struct {
	productRepo repository.ProductRepository
	farmRepo    repository.FarmRepository
}

// NewProductService creates the product service.
func NewProductService(productRepo repository.ProductRepository, farmRepo repository.FarmRepository) *ProductService {
	return &ProductService{productRepo: productRepo, farmRepo: farmRepo}
}

// List returns a catalog page.
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get returns one product with its farm.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListByFarm returns the products of one farm, for the farmer dashboard.
func (s *ProductService) ListByFarm(ownerID, farmID uint) ([]models.Product, error) {
	if _, err := s.ownedFarm(ownerID, farmID); err != nil {
		return nil, err
	}
	return s.productRepo.ListByFarm(farmID)
}

// Create adds a product to an owned farm.
func (s *ProductService) Create(ownerID, farmID uint, in ProductInput) (*models.Product, error) {
	if _, err := s.ownedFarm(ownerID, farmID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrProductNotFound
	}
	if in.Price.IsNegative() {
		return nil, ErrProductPriceInvalid
	}

	product := &models.Product{
		FarmID:        farmID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Price:         models.NewMoneyFromDecimal(in.Price),
		StockQuantity: in.StockQuantity,
		Unit:          strings.TrimSpace(in.Unit),
		ImageURL:      strings.TrimSpace(in.ImageURL),
		Gallery:       models.StringArray(in.Gallery),
		IsAvailable:   true,
	}
	if product.StockQuantity < 0 {
		product.StockQuantity = 0
	}
	if product.Unit == "" {
		product.Unit = "kg"
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies changes to a product on an owned farm.
func (s *ProductService) Update(ownerID, productID uint, in ProductInput) (*models.Product, error) {
	product, err := s.ownedProduct(ownerID, productID)
	if err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, ErrProductPriceInvalid
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		product.Name = name
	}
	product.Description = strings.TrimSpace(in.Description)
	product.Price = models.NewMoneyFromDecimal(in.Price)
	if in.StockQuantity >= 0 {
		product.StockQuantity = in.StockQuantity
	}
	if unit := strings.TrimSpace(in.Unit); unit != "" {
		product.Unit = unit
	}
	product.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Gallery != nil {
		product.Gallery = models.StringArray(in.Gallery)
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product from an owned farm.
func (s *ProductService) Delete(ownerID, productID uint) error {
	if _, err := s.ownedProduct(ownerID, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(productID)
}

func (s *ProductService) ownedFarm(ownerID, farmID uint) (*models.Farm, error) {
	farm, err := s.farmRepo.GetByID(farmID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	if farm.OwnerID != ownerID {
		return nil, ErrFarmNotOwned
	}
	return farm, nil
}

func (s *ProductService) ownedProduct(ownerID, productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if _, err := s.ownedFarm(ownerID, product.FarmID); err != nil {
		return nil, err
	}
	return product, nil
}
