package repository

import (
	"github.com/mazraa-market/internal/models"

	"gorm.io/gorm"
)

// OrderStatusHistoryRepository is the tracking timeline data access interface
type OrderStatusHistoryRepository interface {
	Create(entry *models.OrderStatusHistory) error
	ListByOrder(orderID uint) ([]models.OrderStatusHistory, error)
	WithTx(tx *gorm.DB) OrderStatusHistoryRepository
}

// GormOrderStatusHistoryRepository is the GORM implementation
type GormOrderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewOrderStatusHistoryRepository creates the tracking repository
func NewOrderStatusHistoryRepository(db *gorm.DB) *GormOrderStatusHistoryRepository {
	return &GormOrderStatusHistoryRepository{db: db}
}

// WithTx binds a transaction
func (r *GormOrderStatusHistoryRepository) WithTx(tx *gorm.DB) OrderStatusHistoryRepository {
	if tx == nil {
		return r
	}
	return &GormOrderStatusHistoryRepository{db: tx}
}

// Create appends a timeline entry
func (r *GormOrderStatusHistoryRepository) Create(entry *models.OrderStatusHistory) error {
	return r.db.Create(entry).Error
}

// ListByOrder fetches an order's timeline, newest first
func (r *GormOrderStatusHistoryRepository) ListByOrder(orderID uint) ([]models.OrderStatusHistory, error) {
	var entries []models.OrderStatusHistory
	if err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
