package service

import (
	"context"
	"fmt"

	"github.com/mazraa-market/internal/catalog"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"
)

// DBCatalogSource serves catalog snapshots straight from the product table.
// It is the default catalog.Source; split deployments swap in catalog.Client.
type DBCatalogSource struct {
	productRepo repository.ProductRepository
}

// NewDBCatalogSource creates the database-backed catalog source.
func NewDBCatalogSource(productRepo repository.ProductRepository) *DBCatalogSource {
	return &DBCatalogSource{productRepo: productRepo}
}

// Snapshot lists every available product with its farm name resolved.
func (s *DBCatalogSource) Snapshot(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.productRepo.ListAllAvailable()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrUnavailable, err)
	}
	snapshot := make([]catalog.Product, 0, len(products))
	for i := range products {
		snapshot = append(snapshot, catalogProduct(&products[i]))
	}
	return snapshot, nil
}

func catalogProduct(p *models.Product) catalog.Product {
	cp := catalog.Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.Decimal,
		Unit:      p.Unit,
		ImageURL:  p.ImageURL,
		Available: p.IsAvailable,
	}
	if p.Farm != nil {
		cp.FarmName = p.Farm.Name
	}
	return cp
}
