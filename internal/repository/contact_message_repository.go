package repository

import (
	"github.com/mazraa-market/internal/models"

	"gorm.io/gorm"
)

// ContactMessageRepository is the contact form data access interface
type ContactMessageRepository interface {
	Create(message *models.ContactMessage) error
	List(filter ContactMessageListFilter) ([]models.ContactMessage, int64, error)
	MarkRead(id uint) error
}

// GormContactMessageRepository is the GORM implementation
type GormContactMessageRepository struct {
	db *gorm.DB
}

// NewContactMessageRepository creates the contact message repository
func NewContactMessageRepository(db *gorm.DB) *GormContactMessageRepository {
	return &GormContactMessageRepository{db: db}
}

// Create inserts a message
func (r *GormContactMessageRepository) Create(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

// List queries messages, newest first
func (r *GormContactMessageRepository) List(filter ContactMessageListFilter) ([]models.ContactMessage, int64, error) {
	query := r.db.Model(&models.ContactMessage{})
	if filter.OnlyUnread {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ContactMessage
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead flags a message as handled
func (r *GormContactMessageRepository) MarkRead(id uint) error {
	return r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", true).Error
}
