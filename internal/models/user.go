package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User account. A user can hold the farmer and consumer roles at the same time.
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                 // primary key
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`    // login identifier
	Username           string         `gorm:"not null" json:"username"`             // display name
	PasswordHash       string         `gorm:"not null" json:"-"`                    // bcrypt hash, never serialized
	PhoneNumber        string         `gorm:"type:varchar(15)" json:"phone_number"` // رقم الجوال
	IsFarmer           bool           `gorm:"default:false;index" json:"is_farmer"` // owns farms
	IsConsumer         bool           `gorm:"default:true" json:"is_consumer"`      // can place orders
	IsAdmin            bool           `gorm:"default:false" json:"is_admin"`        // platform staff
	Locale             string         `gorm:"default:'ar'" json:"locale"`           // preferred language
	Status             string         `gorm:"default:'active'" json:"status"`       // account status
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`          // bump to revoke all tokens
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                       // tokens issued before this are rejected
	LastLoginAt        *time.Time     `json:"last_login_at"`                        // last successful login
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`              // creation time
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`              // update time
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                       // soft delete
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}

// Role returns the composed role string, e.g. "farmer_consumer".
func (u *User) Role() string {
	roles := make([]string, 0, 3)
	if u.IsAdmin {
		roles = append(roles, "admin")
	}
	if u.IsFarmer {
		roles = append(roles, "farmer")
	}
	if u.IsConsumer {
		roles = append(roles, "consumer")
	}
	if len(roles) == 0 {
		return "consumer"
	}
	return strings.Join(roles, "_")
}
