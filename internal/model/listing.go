package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus represents the lifecycle state of a listing.
type ListingStatus string

const (
	ListingStatusActive ListingStatus = "active"
	ListingStatusSold   ListingStatus = "sold"
)

// Listing represents a sellable item owned by exactly one user.
type Listing struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Category    string          `json:"category" gorm:"size:100;not null;index"`
	Status      ListingStatus   `json:"status" gorm:"type:varchar(50);not null;default:'active';index"`
	SellerID    uint            `json:"seller_id" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Seller User `json:"-" gorm:"foreignKey:SellerID"`
}
