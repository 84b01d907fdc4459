package repository

import (
	"context"

	"gorm.io/gorm"

	"dealhub/internal/model"
)

// DealMessageRepository defines deal message persistence operations.
type DealMessageRepository interface {
	Create(ctx context.Context, message *model.DealMessage) error
	ListByDeal(ctx context.Context, dealID uint) ([]model.DealMessage, error)
}

type dealMessageRepository struct {
	db *gorm.DB
}

// NewDealMessageRepository creates a new deal message repository.
func NewDealMessageRepository(db *gorm.DB) DealMessageRepository {
	return &dealMessageRepository{db: db}
}

// Create appends a message to a deal's thread.
func (r *dealMessageRepository) Create(ctx context.Context, message *model.DealMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListByDeal returns a deal's messages ordered oldest first.
func (r *dealMessageRepository) ListByDeal(ctx context.Context, dealID uint) ([]model.DealMessage, error) {
	var messages []model.DealMessage
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
