package models

import (
	"time"
)

// OrderStatusHistory records every order status transition for the tracking
// timeline.
type OrderStatusHistory struct {
	ID          uint      `gorm:"primarykey" json:"id"`                    // primary key
	OrderID     uint      `gorm:"index;not null" json:"order_id"`          // order
	OldStatus   string    `gorm:"type:varchar(20)" json:"old_status"`      // previous status, empty on creation
	NewStatus   string    `gorm:"type:varchar(20);not null" json:"new_status"` // status after the change
	ChangedByID *uint     `gorm:"index" json:"changed_by_id,omitempty"`    // acting user, nil for system changes
	Notes       string    `gorm:"type:text" json:"notes"`                  // ملاحظات إضافية عن التغيير
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                 // change time
}

// TableName sets the table name
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
