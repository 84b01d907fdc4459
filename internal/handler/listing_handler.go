package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "dealhub/internal/errors"
	"dealhub/internal/middleware"
	"dealhub/internal/repository"
	"dealhub/internal/service"
)

// ListingHandler handles listing endpoints.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest represents a listing creation request.
type CreateListingRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Price       string `json:"price" validate:"required,decimal2"`
	Category    string `json:"category" validate:"required,max=100"`
}

// UpdateListingRequest represents a partial listing update.
type UpdateListingRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *string `json:"price" validate:"omitempty,decimal2"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=100"`
}

// ListListingsQuery represents listing list filters.
type ListListingsQuery struct {
	Category string `query:"category" validate:"omitempty,max=100"`
	MinPrice string `query:"minPrice" validate:"omitempty,decimal2"`
	MaxPrice string `query:"maxPrice" validate:"omitempty,decimal2"`
	Status   string `query:"status" validate:"omitempty,oneof=active sold"`
}

// CreateListing godoc
// @Summary Create a listing
// @Tags listings
// @Accept json
// @Produce json
// @Param request body CreateListingRequest true "Listing data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /deals/listings [post]
func (h *ListingHandler) CreateListing(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, validationError(err))
	}

	listing, err := h.listingService.CreateListing(c.Request().Context(), service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	}, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Listing created successfully", listing)
}

// GetAllListings godoc
// @Summary List listings, filterable by category, price range and status
// @Tags listings
// @Produce json
// @Param category query string false "Category"
// @Param minPrice query string false "Minimum price"
// @Param maxPrice query string false "Maximum price"
// @Param status query string false "Status"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /deals/listings [get]
func (h *ListingHandler) GetAllListings(c echo.Context) error {
	var query ListListingsQuery
	if err := c.Bind(&query); err != nil {
		return respondError(c, apperrors.Validation("invalid query parameters"))
	}
	if err := c.Validate(&query); err != nil {
		return respondError(c, validationError(err))
	}

	listings, err := h.listingService.GetAllListings(c.Request().Context(), repository.ListingFilter{
		Category: query.Category,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
		Status:   query.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, "Listings retrieved successfully", listings, len(listings))
}

// GetUserListings godoc
// @Summary List the caller's own listings
// @Tags listings
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /deals/listings/my [get]
func (h *ListingHandler) GetUserListings(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)

	listings, err := h.listingService.GetUserListings(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, "User listings retrieved successfully", listings, len(listings))
}

// GetListing godoc
// @Summary Get a listing by id
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /deals/listings/{id} [get]
func (h *ListingHandler) GetListing(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	listing, err := h.listingService.GetListing(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Listing retrieved successfully", listing)
}

// UpdateListing godoc
// @Summary Update a listing
// @Tags listings
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Param request body UpdateListingRequest true "Updates"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /deals/listings/{id} [put]
func (h *ListingHandler) UpdateListing(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	var req UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, validationError(err))
	}

	listing, err := h.listingService.UpdateListing(c.Request().Context(), id, service.ListingUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	}, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Listing updated successfully", listing)
}

// DeleteListing godoc
// @Summary Delete a listing
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /deals/listings/{id} [delete]
func (h *ListingHandler) DeleteListing(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	if err := h.listingService.DeleteListing(c.Request().Context(), id, actor.ID); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Listing deleted successfully", nil)
}
