package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessage stores a submission from the public contact form.
type ContactMessage struct {
	ID        uint           `gorm:"primarykey" json:"id"`               // primary key
	Name      string         `gorm:"not null" json:"name"`               // sender name
	Email     string         `gorm:"not null;index" json:"email"`        // sender email
	Subject   string         `gorm:"type:varchar(200)" json:"subject"`   // الموضوع
	Message   string         `gorm:"type:text;not null" json:"message"`  // الرسالة
	IsRead    bool           `gorm:"default:false;index" json:"is_read"` // handled by staff
	CreatedAt time.Time      `gorm:"index" json:"created_at"`            // creation time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                     // soft delete
}

// TableName sets the table name
func (ContactMessage) TableName() string {
	return "contact_messages"
}
