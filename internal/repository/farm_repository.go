package repository

import (
	"errors"
	"strings"

	"github.com/mazraa-market/internal/models"

	"gorm.io/gorm"
)

// FarmRepository is the farm data access interface
type FarmRepository interface {
	List(filter FarmListFilter) ([]models.Farm, int64, error)
	GetByID(id uint) (*models.Farm, error)
	ListByOwner(ownerID uint) ([]models.Farm, error)
	Create(farm *models.Farm) error
	Update(farm *models.Farm) error
	Delete(id uint) error
}

// GormFarmRepository is the GORM implementation
type GormFarmRepository struct {
	db *gorm.DB
}

// NewFarmRepository creates the farm repository
func NewFarmRepository(db *gorm.DB) *GormFarmRepository {
	return &GormFarmRepository{db: db}
}

// List queries farms with filters
func (r *GormFarmRepository) List(filter FarmListFilter) ([]models.Farm, int64, error) {
	query := r.db.Model(&models.Farm{})

	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if farmType := strings.TrimSpace(filter.Type); farmType != "" {
		query = query.Where("type = ?", farmType)
	}
	if region := strings.TrimSpace(filter.Region); region != "" {
		query = query.Where("administrative_region = ? OR governorate = ?", region, region)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var farms []models.Farm
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&farms).Error; err != nil {
		return nil, 0, err
	}
	return farms, total, nil
}

// GetByID fetches a farm by ID
func (r *GormFarmRepository) GetByID(id uint) (*models.Farm, error) {
	var farm models.Farm
	if err := r.db.First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &farm, nil
}

// ListByOwner fetches all farms of one owner
func (r *GormFarmRepository) ListByOwner(ownerID uint) ([]models.Farm, error) {
	var farms []models.Farm
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

// Create inserts a farm
func (r *GormFarmRepository) Create(farm *models.Farm) error {
	return r.db.Create(farm).Error
}

// Update saves a farm
func (r *GormFarmRepository) Update(farm *models.Farm) error {
	return r.db.Save(farm).Error
}

// Delete soft-deletes a farm
func (r *GormFarmRepository) Delete(id uint) error {
	return r.db.Delete(&models.Farm{}, id).Error
}
