package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "dealhub/internal/errors"
	"dealhub/internal/model"
	"dealhub/internal/repository"
)

func newListingServiceForTest(listings *MockListingRepository) ListingService {
	return NewListingService(listings, nil, zap.NewNop())
}

func TestListingService_CreateListing(t *testing.T) {
	t.Run("new listing starts active", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("Create", mock.Anything, mock.AnythingOfType("*model.Listing")).Return(nil)

		service := newListingServiceForTest(mockListings)
		listing, err := service.CreateListing(context.Background(), ListingInput{
			Title:    "Road bike",
			Price:    "450.00",
			Category: "sports",
		}, 1)

		assert.NoError(t, err)
		assert.Equal(t, model.ListingStatusActive, listing.Status)
		assert.Equal(t, uint(1), listing.SellerID)
		assert.True(t, listing.Price.Equal(decimal.NewFromInt(450)))
		mockListings.AssertExpectations(t)
	})

	t.Run("invalid price", func(t *testing.T) {
		service := newListingServiceForTest(new(MockListingRepository))
		_, err := service.CreateListing(context.Background(), ListingInput{
			Title:    "Road bike",
			Price:    "lots",
			Category: "sports",
		}, 1)

		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestListingService_GetListing(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("FindByID", mock.Anything, uint(1)).Return(activeListing(1, 1), nil)

		service := newListingServiceForTest(mockListings)
		listing, err := service.GetListing(context.Background(), 1)

		assert.NoError(t, err)
		assert.Equal(t, uint(1), listing.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := newListingServiceForTest(mockListings)
		_, err := service.GetListing(context.Background(), 99)

		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestListingService_GetAllListings(t *testing.T) {
	filter := repository.ListingFilter{Category: "electronics", Status: "active"}

	mockListings := new(MockListingRepository)
	mockListings.On("ListAll", mock.Anything, filter).Return([]model.Listing{*activeListing(1, 1)}, nil)

	service := newListingServiceForTest(mockListings)
	listings, err := service.GetAllListings(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	mockListings.AssertExpectations(t)
}

func TestListingService_UpdateListing(t *testing.T) {
	t.Run("owner updates fields", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("FindByID", mock.Anything, uint(1)).Return(activeListing(1, 1), nil)
		mockListings.On("Update", mock.Anything, mock.AnythingOfType("*model.Listing")).Return(nil)

		service := newListingServiceForTest(mockListings)
		title := "Vintage camera (mint)"
		price := "175.00"
		listing, err := service.UpdateListing(context.Background(), 1, ListingUpdate{Title: &title, Price: &price}, 1)

		assert.NoError(t, err)
		assert.Equal(t, title, listing.Title)
		assert.True(t, listing.Price.Equal(decimal.NewFromInt(175)))
		mockListings.AssertExpectations(t)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("FindByID", mock.Anything, uint(1)).Return(activeListing(1, 1), nil)

		service := newListingServiceForTest(mockListings)
		title := "hijacked"
		_, err := service.UpdateListing(context.Background(), 1, ListingUpdate{Title: &title}, 2)

		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestListingService_DeleteListing(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("FindByID", mock.Anything, uint(1)).Return(activeListing(1, 1), nil)
		mockListings.On("Delete", mock.Anything, uint(1)).Return(nil)

		service := newListingServiceForTest(mockListings)
		err := service.DeleteListing(context.Background(), 1, 1)

		assert.NoError(t, err)
		mockListings.AssertExpectations(t)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		mockListings := new(MockListingRepository)
		mockListings.On("FindByID", mock.Anything, uint(1)).Return(activeListing(1, 1), nil)

		service := newListingServiceForTest(mockListings)
		err := service.DeleteListing(context.Background(), 1, 2)

		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
		mockListings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
