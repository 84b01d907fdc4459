package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DealStatus represents the lifecycle state of a deal.
type DealStatus string

const (
	DealStatusPending   DealStatus = "pending"
	DealStatusAccepted  DealStatus = "accepted"
	DealStatusRejected  DealStatus = "rejected"
	DealStatusCompleted DealStatus = "completed"
	DealStatusCancelled DealStatus = "cancelled"
)

// IsTerminal reports whether no further transition is defined from the status.
func (s DealStatus) IsTerminal() bool {
	switch s {
	case DealStatusRejected, DealStatusCompleted, DealStatusCancelled:
		return true
	}
	return false
}

// Terms is an opaque key-value map stored as a JSON column.
type Terms map[string]interface{}

// Value implements driver.Valuer.
func (t Terms) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *Terms) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	raw, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("terms: unsupported column type %T", value)
	}
	return json.Unmarshal(raw, t)
}

// Deal represents one buyer's offer against a listing. Its lifecycle is
// independent from the listing's.
type Deal struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ListingID   uint            `json:"listing_id" gorm:"not null;index"`
	BuyerID     uint            `json:"buyer_id" gorm:"not null;index"`
	OfferAmount decimal.Decimal `json:"offer_amount" gorm:"type:decimal(10,2);not null"`
	Status      DealStatus      `json:"status" gorm:"type:varchar(50);not null;default:'pending';index"`
	Message     string          `json:"message,omitempty" gorm:"size:500"`
	Terms       Terms           `json:"terms,omitempty" gorm:"type:json"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Listing Listing `json:"-" gorm:"foreignKey:ListingID"`
	Buyer   User    `json:"-" gorm:"foreignKey:BuyerID"`
}
