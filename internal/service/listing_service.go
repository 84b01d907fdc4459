package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dealhub/internal/cache"
	apperrors "dealhub/internal/errors"
	"dealhub/internal/metrics"
	"dealhub/internal/model"
	"dealhub/internal/repository"
)

const listingCacheTTL = 5 * time.Minute

// ListingInput carries the validated fields for creating a listing.
type ListingInput struct {
	Title       string
	Description string
	Price       string
	Category    string
}

// ListingUpdate carries a partial listing update. Nil fields are unchanged.
type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *string
	Category    *string
}

// ListingService owns listing CRUD and the ownership checks guarding it.
type ListingService interface {
	CreateListing(ctx context.Context, input ListingInput, sellerID uint) (*model.Listing, error)
	GetListing(ctx context.Context, id uint) (*model.Listing, error)
	GetUserListings(ctx context.Context, sellerID uint) ([]model.Listing, error)
	GetAllListings(ctx context.Context, filter repository.ListingFilter) ([]model.Listing, error)
	UpdateListing(ctx context.Context, id uint, updates ListingUpdate, userID uint) (*model.Listing, error)
	DeleteListing(ctx context.Context, id uint, userID uint) error
}

type listingService struct {
	listingRepo repository.ListingRepository
	cache       *cache.Client
	logger      *zap.Logger
}

// NewListingService creates a new listing service.
func NewListingService(listingRepo repository.ListingRepository, cache *cache.Client, logger *zap.Logger) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		cache:       cache,
		logger:      logger,
	}
}

func listingCacheKey(id uint) string {
	return fmt.Sprintf("listing:%d", id)
}

// CreateListing inserts a listing with status active.
func (s *listingService) CreateListing(ctx context.Context, input ListingInput, sellerID uint) (*model.Listing, error) {
	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return nil, apperrors.Validation("price must be a valid decimal")
	}

	listing := &model.Listing{
		Title:       input.Title,
		Description: input.Description,
		Price:       price,
		Category:    input.Category,
		Status:      model.ListingStatusActive,
		SellerID:    sellerID,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	metrics.ListingsCreatedTotal.Inc()
	s.logger.Info("listing created",
		zap.Uint("listing_id", listing.ID),
		zap.Uint("seller_id", sellerID))

	return listing, nil
}

// GetListing returns one listing, served from cache when possible.
func (s *listingService) GetListing(ctx context.Context, id uint) (*model.Listing, error) {
	if data, _ := s.cache.Get(ctx, listingCacheKey(id)); data != nil {
		var cached model.Listing
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("listing not found")
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}

	if payload, err := json.Marshal(listing); err == nil {
		_ = s.cache.Set(ctx, listingCacheKey(id), payload, listingCacheTTL)
	}

	return listing, nil
}

// GetUserListings returns the seller's own listings.
func (s *listingService) GetUserListings(ctx context.Context, sellerID uint) ([]model.Listing, error) {
	listings, err := s.listingRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list user listings: %w", err)
	}
	return listings, nil
}

// GetAllListings returns listings matching the filter.
func (s *listingService) GetAllListings(ctx context.Context, filter repository.ListingFilter) ([]model.Listing, error) {
	listings, err := s.listingRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

// UpdateListing applies a partial update after the ownership check.
func (s *listingService) UpdateListing(ctx context.Context, id uint, updates ListingUpdate, userID uint) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("listing not found")
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}

	if listing.SellerID != userID {
		return nil, apperrors.Forbidden("not authorized to update this listing")
	}

	if updates.Title != nil {
		listing.Title = *updates.Title
	}
	if updates.Description != nil {
		listing.Description = *updates.Description
	}
	if updates.Price != nil {
		price, err := decimal.NewFromString(*updates.Price)
		if err != nil {
			return nil, apperrors.Validation("price must be a valid decimal")
		}
		listing.Price = price
	}
	if updates.Category != nil {
		listing.Category = *updates.Category
	}

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	_ = s.cache.Delete(ctx, listingCacheKey(id))
	s.logger.Info("listing updated",
		zap.Uint("listing_id", id),
		zap.Uint("user_id", userID))

	return listing, nil
}

// DeleteListing removes a listing after the ownership check.
func (s *listingService) DeleteListing(ctx context.Context, id uint, userID uint) error {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("listing not found")
		}
		return fmt.Errorf("find listing: %w", err)
	}

	if listing.SellerID != userID {
		return apperrors.Forbidden("not authorized to delete this listing")
	}

	if err := s.listingRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	_ = s.cache.Delete(ctx, listingCacheKey(id))
	s.logger.Info("listing deleted",
		zap.Uint("listing_id", id),
		zap.Uint("user_id", userID))

	return nil
}
