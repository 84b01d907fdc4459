package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dealhub/internal/model"
)

// DealRole selects which side of a deal a user query targets.
type DealRole string

const (
	DealRoleBuyer  DealRole = "buyer"
	DealRoleSeller DealRole = "seller"
)

// DealRepository defines deal persistence operations. Compound transitions
// (accept, complete) are conditional updates whose affected-row count tells
// the caller whether the expected source state still held at write time.
type DealRepository interface {
	Create(ctx context.Context, deal *model.Deal) error
	Update(ctx context.Context, deal *model.Deal) error
	UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uint) (*model.Deal, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]model.Deal, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]model.Deal, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	HasPendingForBuyer(ctx context.Context, listingID, buyerID uint) (bool, error)
	AcceptPending(ctx context.Context, id uint) (int64, error)
	CompleteAccepted(ctx context.Context, id uint, completedAt time.Time) (int64, error)
	RejectOtherPending(ctx context.Context, listingID, keepDealID uint) (int64, error)
	// WithTransaction runs fn with deal and listing repositories bound to a
	// single database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, deals DealRepository, listings ListingRepository) error) error
}

type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new deal repository.
func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

// Create inserts a new deal.
func (r *dealRepository) Create(ctx context.Context, deal *model.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

// Update saves an existing deal, bumping UpdatedAt.
func (r *dealRepository) Update(ctx context.Context, deal *model.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

// UpdateFields applies a partial column update, bumping UpdatedAt.
func (r *dealRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindByID finds a deal by ID.
func (r *dealRepository) FindByID(ctx context.Context, id uint) (*model.Deal, error) {
	var deal model.Deal
	if err := r.db.WithContext(ctx).First(&deal, id).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

// ListByBuyer lists deals where the user is the buyer, newest first.
func (r *dealRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]model.Deal, error) {
	var deals []model.Deal
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// ListBySeller lists deals against the user's listings, newest first.
func (r *dealRepository) ListBySeller(ctx context.Context, sellerID uint) ([]model.Deal, error) {
	var deals []model.Deal
	if err := r.db.WithContext(ctx).
		Joins("JOIN listings ON listings.id = deals.listing_id").
		Where("listings.seller_id = ?", sellerID).
		Order("deals.created_at DESC").
		Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// CountByUser counts deals the user participates in on either side.
func (r *dealRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Deal{}).
		Joins("JOIN listings ON listings.id = deals.listing_id").
		Where("deals.buyer_id = ? OR listings.seller_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasPendingForBuyer reports whether the buyer already has a pending deal on
// the listing.
func (r *dealRepository) HasPendingForBuyer(ctx context.Context, listingID, buyerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("listing_id = ? AND buyer_id = ? AND status = ?", listingID, buyerID, model.DealStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AcceptPending flips the deal to accepted only if it is still pending.
// Returns the number of rows affected; zero means the deal had already left
// the pending state.
func (r *dealRepository) AcceptPending(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("id = ? AND status = ?", id, model.DealStatusPending).
		Update("status", model.DealStatusAccepted)
	return result.RowsAffected, result.Error
}

// CompleteAccepted flips the deal to completed only if it is still accepted.
func (r *dealRepository) CompleteAccepted(ctx context.Context, id uint, completedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("id = ? AND status = ?", id, model.DealStatusAccepted).
		Updates(map[string]interface{}{
			"status":       model.DealStatusCompleted,
			"completed_at": completedAt,
		})
	return result.RowsAffected, result.Error
}

// RejectOtherPending rejects every pending deal on the listing except the one
// being accepted. Returns the number of deals rejected.
func (r *dealRepository) RejectOtherPending(ctx context.Context, listingID, keepDealID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("listing_id = ? AND status = ? AND id <> ?", listingID, model.DealStatusPending, keepDealID).
		Update("status", model.DealStatusRejected)
	return result.RowsAffected, result.Error
}

// WithTransaction executes fn within a single database transaction.
func (r *dealRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, deals DealRepository, listings ListingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &dealRepository{db: tx}, &listingRepository{db: tx})
	})
}
