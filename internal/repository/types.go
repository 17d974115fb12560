package repository

import "time"

// ProductListFilter filters the product list query
type ProductListFilter struct {
	Page          int
	PageSize      int
	FarmID        uint
	FarmType      string
	Search        string
	OnlyAvailable bool
	WithFarm      bool
}

// FarmListFilter filters the farm list query
type FarmListFilter struct {
	Page     int
	PageSize int
	OwnerID  uint
	Type     string
	Region   string
	Search   string
}

// OrderListFilter filters the order list query
type OrderListFilter struct {
	Page        int
	PageSize    int
	ConsumerID  uint
	FarmIDs     []uint
	Status      string
	OrderNo     string
	RootOnly    bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter filters the user list query
type UserListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
	Role     string
}

// ContactMessageListFilter filters the contact message list query
type ContactMessageListFilter struct {
	Page       int
	PageSize   int
	OnlyUnread bool
}
