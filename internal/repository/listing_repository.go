package repository

import (
	"context"

	"gorm.io/gorm"

	"dealhub/internal/model"
)

// ListingFilter narrows ListAll results. Zero values mean "no constraint".
// Prices arrive as validated decimal strings and are compared in SQL.
type ListingFilter struct {
	Category string
	MinPrice string
	MaxPrice string
	Status   string
}

// ListingRepository defines listing persistence operations.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	Update(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint) (*model.Listing, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Listing, error)
	UpdateStatus(ctx context.Context, id uint, status model.ListingStatus) error
	ListBySeller(ctx context.Context, sellerID uint) ([]model.Listing, error)
	ListAll(ctx context.Context, filter ListingFilter) ([]model.Listing, error)
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create inserts a new listing.
func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// Update saves an existing listing, bumping UpdatedAt.
func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// FindByID finds a listing by ID.
func (r *listingRepository) FindByID(ctx context.Context, id uint) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindByIDForUpdate finds a listing by ID with a row-level lock.
func (r *listingRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateStatus sets the listing status.
func (r *listingRepository) UpdateStatus(ctx context.Context, id uint, status model.ListingStatus) error {
	return r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ListBySeller lists a seller's listings, newest first.
func (r *listingRepository) ListBySeller(ctx context.Context, sellerID uint) ([]model.Listing, error) {
	var listings []model.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// ListAll lists listings matching the filter, newest first.
func (r *listingRepository) ListAll(ctx context.Context, filter ListingFilter) ([]model.Listing, error) {
	query := r.db.WithContext(ctx).Model(&model.Listing{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != "" {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != "" {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var listings []model.Listing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// CountBySeller counts a seller's listings.
func (r *listingRepository) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("seller_id = ?", sellerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a listing.
func (r *listingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Listing{}, id).Error
}
