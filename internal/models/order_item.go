package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is a single product line on an order. Name, farm and price are
// snapshots taken at order time.
type OrderItem struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                     // primary key
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                           // owning order
	ProductID   uint           `gorm:"index;not null" json:"product_id"`                         // product
	ProductName string         `gorm:"not null" json:"product_name"`                             // name snapshot
	FarmName    string         `gorm:"type:varchar(200)" json:"farm_name"`                       // farm snapshot
	Unit        string         `gorm:"type:varchar(50)" json:"unit"`                             // unit snapshot
	UnitPrice   Money          `gorm:"type:decimal(10,2);not null;default:0" json:"unit_price"` // price snapshot
	Quantity    int            `gorm:"not null" json:"quantity"`                                 // quantity ordered
	TotalPrice  Money          `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"` // line total
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                  // creation time
	UpdatedAt   time.Time      `json:"updated_at"`                                               // update time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                           // soft delete
}

// TableName sets the table name
func (OrderItem) TableName() string {
	return "order_items"
}
