package models

import (
	"time"

	"gorm.io/gorm"
)

// Farm owned by a farmer account.
type Farm struct {
	ID                   uint           `gorm:"primarykey" json:"id"`                            // primary key
	OwnerID              uint           `gorm:"index;not null" json:"owner_id"`                  // owning farmer
	Name                 string         `gorm:"not null" json:"name"`                            // اسم المزرعة
	Description          string         `gorm:"type:text" json:"description"`                    // الوصف
	Location             string         `gorm:"type:varchar(500)" json:"location"`               // map link
	AdministrativeRegion string         `gorm:"type:varchar(200)" json:"administrative_region"`  // المنطقة الإدارية
	Governorate          string         `gorm:"type:varchar(200)" json:"governorate"`            // المحافظة
	Type                 string         `gorm:"type:varchar(100);index" json:"type"`             // تمور / ألبان / خضروات / فواكه
	PricePerKG           string         `gorm:"type:varchar(50)" json:"price_per_kg"`            // display price, e.g. "78 ريال/كجم"
	PhoneNumber          string         `gorm:"type:varchar(15)" json:"phone_number"`            // رقم التواصل
	ImageURL             string         `gorm:"type:text" json:"image_url"`                      // cover image
	DailyCapacity        int            `gorm:"not null;default:0" json:"daily_capacity"`        // max orders per day, 0 means unlimited
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`                         // creation time
	UpdatedAt            time.Time      `json:"updated_at"`                                      // update time
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                                  // soft delete

	Owner    *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`  // owner account
	Products []Product `gorm:"foreignKey:FarmID" json:"products,omitempty"` // farm products
}

// TableName sets the table name
func (Farm) TableName() string {
	return "farms"
}
