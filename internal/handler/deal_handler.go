package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "dealhub/internal/errors"
	"dealhub/internal/middleware"
	"dealhub/internal/model"
	"dealhub/internal/repository"
	"dealhub/internal/service"
)

// DealHandler handles deal and deal message endpoints.
type DealHandler struct {
	dealService service.DealService
}

// NewDealHandler creates a new deal handler.
func NewDealHandler(dealService service.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// CreateDealRequest represents an offer against a listing.
type CreateDealRequest struct {
	ListingID   uint        `json:"listing_id" validate:"required"`
	OfferAmount string      `json:"offer_amount" validate:"required,decimal2"`
	Message     string      `json:"message" validate:"omitempty,max=500"`
	Terms       model.Terms `json:"terms"`
	ExpiresAt   string      `json:"expires_at" validate:"omitempty"`
}

// UpdateDealRequest represents a partial deal update.
type UpdateDealRequest struct {
	Status  *string `json:"status" validate:"omitempty,oneof=pending accepted rejected completed cancelled"`
	Message *string `json:"message" validate:"omitempty,max=500"`
}

// DealMessageRequest represents a message appended to a deal thread.
type DealMessageRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// CreateDeal godoc
// @Summary Create a deal (offer) against an active listing
// @Tags deals
// @Accept json
// @Produce json
// @Param request body CreateDealRequest true "Deal data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /deals/deals [post]
func (h *DealHandler) CreateDeal(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)

	var req CreateDealRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, validationError(err))
	}

	deal, err := h.dealService.CreateDeal(c.Request().Context(), service.DealInput{
		ListingID:   req.ListingID,
		OfferAmount: req.OfferAmount,
		Message:     req.Message,
		Terms:       req.Terms,
		ExpiresAt:   req.ExpiresAt,
	}, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Deal created successfully", deal)
}

// GetUserDeals godoc
// @Summary List the caller's deals as buyer or seller
// @Tags deals
// @Produce json
// @Param role query string false "buyer or seller" default(buyer)
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /deals/deals [get]
func (h *DealHandler) GetUserDeals(c echo.Context) error {
	actor, _ := middleware.ActorFrom(c)

	role := repository.DealRole(c.QueryParam("role"))
	if role != repository.DealRoleSeller {
		role = repository.DealRoleBuyer
	}

	deals, err := h.dealService.GetUserDeals(c.Request().Context(), actor.ID, role)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, "User deals retrieved successfully", deals, len(deals))
}

// GetDeal godoc
// @Summary Get a deal with its listing
// @Tags deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /deals/deals/{id} [get]
func (h *DealHandler) GetDeal(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	result, err := h.dealService.GetDeal(c.Request().Context(), id, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Deal retrieved successfully", result)
}

// UpdateDeal godoc
// @Summary Update a deal
// @Tags deals
// @Accept json
// @Produce json
// @Param id path int true "Deal ID"
// @Param request body UpdateDealRequest true "Updates"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /deals/deals/{id} [put]
func (h *DealHandler) UpdateDeal(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	var req UpdateDealRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, validationError(err))
	}

	updates := service.DealUpdate{Message: req.Message}
	if req.Status != nil {
		status := model.DealStatus(*req.Status)
		updates.Status = &status
	}

	deal, err := h.dealService.UpdateDeal(c.Request().Context(), id, updates, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Deal updated successfully", deal)
}

// AcceptDeal godoc
// @Summary Accept a pending deal (seller only)
// @Tags deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /deals/deals/{id}/accept [patch]
func (h *DealHandler) AcceptDeal(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	deal, err := h.dealService.AcceptDeal(c.Request().Context(), id, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Deal accepted successfully", deal)
}

// CompleteDeal godoc
// @Summary Complete an accepted deal (seller only)
// @Tags deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /deals/deals/{id}/complete [patch]
func (h *DealHandler) CompleteDeal(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	deal, err := h.dealService.CompleteDeal(c.Request().Context(), id, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Deal completed successfully", deal)
}

// AddMessage godoc
// @Summary Append a message to a deal thread
// @Tags deals
// @Accept json
// @Produce json
// @Param id path int true "Deal ID"
// @Param request body DealMessageRequest true "Message"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /deals/deals/{id}/messages [post]
func (h *DealHandler) AddMessage(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	var req DealMessageRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperrors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, validationError(err))
	}

	message, err := h.dealService.AddMessage(c.Request().Context(), id, actor.ID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Message added successfully", message)
}

// GetDealMessages godoc
// @Summary List a deal's messages oldest first
// @Tags deals
// @Produce json
// @Param id path int true "Deal ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /deals/deals/{id}/messages [get]
func (h *DealHandler) GetDealMessages(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	actor, _ := middleware.ActorFrom(c)

	messages, err := h.dealService.GetDealMessages(c.Request().Context(), id, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, "Deal messages retrieved successfully", messages, len(messages))
}
