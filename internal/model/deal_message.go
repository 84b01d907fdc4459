package model

import "time"

// DealMessage is one entry in a deal's negotiation thread. Messages are
// append-only and survive the deal reaching a terminal state.
type DealMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	DealID    uint      `json:"deal_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Message   string    `json:"message" gorm:"size:1000;not null"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Deal Deal `json:"-" gorm:"foreignKey:DealID"`
	User User `json:"-" gorm:"foreignKey:UserID"`
}
