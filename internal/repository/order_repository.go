package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/mazraa-market/internal/models"

	"gorm.io/gorm"
)

// OrderRepository is the order data access interface
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndConsumer(id, consumerID uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	ListChildren(parentID uint) ([]models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListExpiredPending(now time.Time) ([]models.Order, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) OrderRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormOrderRepository is the GORM implementation
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates the order repository
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds a transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction runs fn inside a transaction
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormOrderRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Items").Preload("Farm").Preload("Children").Preload("Children.Items").Preload("Children.Farm")
}

// Create inserts an order with its items
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches an order with items and children
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withDetails(r.db).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndConsumer fetches an order scoped to its buyer
func (r *GormOrderRepository) GetByIDAndConsumer(id, consumerID uint) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(r.db).Where("id = ? AND consumer_id = ?", id, consumerID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by its number
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(r.db).Where("order_no = ?", strings.TrimSpace(orderNo)).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListChildren fetches the per-farm child orders of a parent
func (r *GormOrderRepository) ListChildren(parentID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Preload("Farm").Where("parent_id = ?", parentID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// List queries orders with filters. FarmIDs widens the result to orders of
// those farms, used for farmer views.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})

	if len(filter.FarmIDs) > 0 && filter.ConsumerID != 0 {
		query = query.Where("consumer_id = ? OR farm_id IN ?", filter.ConsumerID, filter.FarmIDs)
	} else if len(filter.FarmIDs) > 0 {
		query = query.Where("farm_id IN ?", filter.FarmIDs)
	} else if filter.ConsumerID != 0 {
		query = query.Where("consumer_id = ?", filter.ConsumerID)
	}
	if filter.RootOnly {
		query = query.Where("parent_id IS NULL")
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query.Preload("Items").Preload("Farm"), filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListExpiredPending fetches unpaid orders whose payment window has passed
func (r *GormOrderRepository) ListExpiredPending(now time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", "pending", now).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus changes an order's status plus any extra columns
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}
