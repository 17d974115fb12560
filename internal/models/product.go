package models

import (
	"time"

	"gorm.io/gorm"
)

// Product sold by a farm.
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // primary key
	FarmID        uint           `gorm:"index;not null" json:"farm_id"`                      // owning farm
	Name          string         `gorm:"not null;index" json:"name"`                         // product name
	Description   string         `gorm:"type:text" json:"description"`                       // description
	Price         Money          `gorm:"type:decimal(10,2);not null;default:0" json:"price"` // unit price in SAR
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`           // on-hand stock
	Unit          string         `gorm:"type:varchar(50);default:'kg'" json:"unit"`          // kg / liter / piece
	ImageURL      string         `gorm:"type:text" json:"image_url"`                         // product image
	Gallery       StringArray    `gorm:"type:json" json:"gallery"`                           // extra images
	IsAvailable   bool           `gorm:"index" json:"is_available"`                          // listed for sale
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // creation time
	UpdatedAt     time.Time      `json:"updated_at"`                                         // update time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // soft delete

	Farm *Farm `gorm:"foreignKey:FarmID" json:"farm,omitempty"` // farm details
}

// TableName sets the table name
func (Product) TableName() string {
	return "products"
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.IsAvailable && p.StockQuantity > 0
}
