package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment tracks a Moyasar payment for one order.
type Payment struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                // primary key
	OrderID         uint           `gorm:"uniqueIndex;not null" json:"order_id"`                // paid order
	ProviderRef     string         `gorm:"index" json:"provider_ref"`                           // Moyasar payment id
	Method          string         `gorm:"type:varchar(20)" json:"method"`                      // creditcard / mada / stcpay / applepay
	Amount          Money          `gorm:"type:decimal(10,2);not null" json:"amount"`           // amount in SAR
	Currency        string         `gorm:"not null;default:'SAR'" json:"currency"`              // currency code
	Status          string         `gorm:"index;not null" json:"status"`                        // pending / paid / failed / canceled
	PayURL          string         `gorm:"type:text" json:"pay_url"`                            // hosted payment page
	ProviderPayload JSON           `gorm:"type:json" json:"provider_payload"`                   // raw gateway response
	FailureReason   string         `gorm:"type:text" json:"failure_reason,omitempty"`           // gateway failure message
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                             // creation time
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                             // update time
	PaidAt          *time.Time     `gorm:"index" json:"paid_at"`                                // capture time
	CallbackAt      *time.Time     `gorm:"index" json:"callback_at"`                            // last webhook time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                      // soft delete
}

// TableName sets the table name
func (Payment) TableName() string {
	return "payments"
}
