package models

import (
	"time"

	"gorm.io/gorm"
)

// Order placed by a consumer. A multi-farm checkout produces one parent order
// carrying the totals and one child order per farm.
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // primary key
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                        // order number
	ParentID        *uint          `gorm:"index" json:"parent_id,omitempty"`                            // parent order for multi-farm checkouts
	ConsumerID      uint           `gorm:"index;not null" json:"consumer_id"`                           // buyer
	FarmID          *uint          `gorm:"index" json:"farm_id,omitempty"`                              // farm, nil on parent orders
	Status          string         `gorm:"index;not null" json:"status"`                                // order status
	Currency        string         `gorm:"not null;default:'SAR'" json:"currency"`                      // currency code
	SubtotalAmount  Money          `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal_amount"` // items total
	ShippingFee     Money          `gorm:"type:decimal(10,2);not null;default:0" json:"shipping_fee"`   // رسوم التوصيل
	TotalAmount     Money          `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`   // grand total
	DeliveryName    string         `gorm:"type:varchar(200)" json:"delivery_name"`                      // اسم المستلم
	DeliveryPhone   string         `gorm:"type:varchar(15)" json:"delivery_phone"`                      // رقم الجوال للتوصيل
	DeliveryAddress string         `gorm:"type:text" json:"delivery_address"`                           // العنوان الكامل
	DeliveryCity    string         `gorm:"type:varchar(100)" json:"delivery_city"`                      // المدينة
	DeliveryRegion  string         `gorm:"type:varchar(100)" json:"delivery_region"`                    // المنطقة
	DeliveryNotes   string         `gorm:"type:text" json:"delivery_notes"`                             // ملاحظات التوصيل
	ExpiresAt       *time.Time     `gorm:"index" json:"expires_at"`                                     // unpaid order expiry
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                        // payment time
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                    // cancellation time
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // creation time
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // update time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // soft delete

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // order lines
	Farm     *Farm       `gorm:"foreignKey:FarmID" json:"farm,omitempty"`      // farm details
	Children []Order     `gorm:"foreignKey:ParentID" json:"children,omitempty"` // per-farm child orders
}

// TableName sets the table name
func (Order) TableName() string {
	return "orders"
}
