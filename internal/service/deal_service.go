package service

import (
	"context"
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

// DealInput carries the validated fields for creating a deal.
type DealInput struct {
	ListingID   uint
	OfferAmount string
	Message     string
	Terms       model.Terms
	// ExpiresAt is an ISO-8601 datetime string, empty if not supplied.
	ExpiresAt string
}

// DealUpdate carries a partial deal update. Nil fields are unchanged.
type DealUpdate struct {
	Status  *model.DealStatus
	Message *string
}

// DealWithListing pairs a deal with its listing for callers that need both.
type DealWithListing struct {
	Deal    *model.Deal    `json:"deal"`
	Listing *model.Listing `json:"listing"`
}

// DealService owns every authorization rule and state transition for deals.
//
// Deal lifecycle: pending -> accepted -> completed, with pending -> rejected
// (seller) and pending -> cancelled (buyer) as the other exits. Accepting a
// deal also rejects every sibling pending deal on the listing and flips the
// listing to sold, all inside one transaction.
type DealService interface {
	CreateDeal(ctx context.Context, input DealInput, buyerID uint) (*model.Deal, error)
	GetDeal(ctx context.Context, id uint, userID uint) (*DealWithListing, error)
	GetUserDeals(ctx context.Context, userID uint, role repository.DealRole) ([]model.Deal, error)
	UpdateDeal(ctx context.Context, id uint, updates DealUpdate, userID uint) (*model.Deal, error)
	AcceptDeal(ctx context.Context, dealID uint, userID uint) (*model.Deal, error)
	CompleteDeal(ctx context.Context, dealID uint, userID uint) (*model.Deal, error)
	AddMessage(ctx context.Context, dealID uint, userID uint, message string) (*model.DealMessage, error)
	GetDealMessages(ctx context.Context, dealID uint, userID uint) ([]model.DealMessage, error)
}

type dealService struct {
	dealRepo    repository.DealRepository
	listingRepo repository.ListingRepository
	messageRepo repository.DealMessageRepository
	cache       *cache.Client
	logger      *zap.Logger
}

// NewDealService creates a new deal service.
func NewDealService(
	dealRepo repository.DealRepository,
	listingRepo repository.ListingRepository,
	messageRepo repository.DealMessageRepository,
	cache *cache.Client,
	logger *zap.Logger,
) DealService {
	return &dealService{
		dealRepo:    dealRepo,
		listingRepo: listingRepo,
		messageRepo: messageRepo,
		cache:       cache,
		logger:      logger,
	}
}

// CreateDeal opens a pending deal against an active listing. The listing row
// is locked for the duration so the one-pending-deal-per-buyer invariant
// holds under concurrent offers.
func (s *dealService) CreateDeal(ctx context.Context, input DealInput, buyerID uint) (*model.Deal, error) {
	offerAmount, err := decimal.NewFromString(input.OfferAmount)
	if err != nil {
		return nil, apperrors.Validation("offer amount must be a valid decimal")
	}

	var expiresAt *time.Time
	if input.ExpiresAt != "" {
		parsed, err := parseISOTime(input.ExpiresAt)
		if err != nil {
			return nil, apperrors.Validation("expiration date must be a valid ISO 8601 datetime")
		}
		expiresAt = &parsed
	}

	deal := &model.Deal{
		ListingID:   input.ListingID,
		BuyerID:     buyerID,
		OfferAmount: offerAmount,
		Status:      model.DealStatusPending,
		Message:     input.Message,
		Terms:       input.Terms,
		ExpiresAt:   expiresAt,
	}

	err = s.dealRepo.WithTransaction(ctx, func(ctx context.Context, deals repository.DealRepository, listings repository.ListingRepository) error {
		listing, err := listings.FindByIDForUpdate(ctx, input.ListingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("listing not found")
			}
			return fmt.Errorf("find listing: %w", err)
		}

		if listing.Status != model.ListingStatusActive {
			return apperrors.InvalidState("listing is not available for deals")
		}

		if listing.SellerID == buyerID {
			return apperrors.Forbidden("cannot create a deal on your own listing")
		}

		hasPending, err := deals.HasPendingForBuyer(ctx, input.ListingID, buyerID)
		if err != nil {
			return fmt.Errorf("check pending deals: %w", err)
		}
		if hasPending {
			return apperrors.Conflict("you already have a pending deal for this listing")
		}

		if err := deals.Create(ctx, deal); err != nil {
			return fmt.Errorf("create deal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DealsCreatedTotal.Inc()
	s.logger.Info("deal created",
		zap.Uint("deal_id", deal.ID),
		zap.Uint("listing_id", input.ListingID),
		zap.Uint("buyer_id", buyerID))

	return deal, nil
}

// GetDeal returns a deal with its listing. Only the deal's buyer or the
// listing's seller may view it.
func (s *dealService) GetDeal(ctx context.Context, id uint, userID uint) (*DealWithListing, error) {
	deal, listing, err := s.loadDealParticipants(ctx, id, userID, "not authorized to view this deal")
	if err != nil {
		return nil, err
	}
	return &DealWithListing{Deal: deal, Listing: listing}, nil
}

// GetUserDeals lists the user's deals as buyer or as seller of the listings.
func (s *dealService) GetUserDeals(ctx context.Context, userID uint, role repository.DealRole) ([]model.Deal, error) {
	var (
		deals []model.Deal
		err   error
	)
	if role == repository.DealRoleSeller {
		deals, err = s.dealRepo.ListBySeller(ctx, userID)
	} else {
		deals, err = s.dealRepo.ListByBuyer(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list user deals: %w", err)
	}
	return deals, nil
}

// UpdateDeal applies a partial update. A status transition to accepted or
// rejected is seller only; a transition to cancelled is buyer only; updates
// that do not touch status need either party. Status changes on a deal
// already in a terminal state are refused.
func (s *dealService) UpdateDeal(ctx context.Context, id uint, updates DealUpdate, userID uint) (*model.Deal, error) {
	deal, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("deal not found")
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}

	listing, err := s.listingRepo.FindByID(ctx, deal.ListingID)
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}

	if updates.Status != nil {
		switch *updates.Status {
		case model.DealStatusAccepted, model.DealStatusRejected:
			if listing.SellerID != userID {
				return nil, apperrors.Forbidden("only the seller can accept or reject deals")
			}
		case model.DealStatusCancelled:
			if deal.BuyerID != userID {
				return nil, apperrors.Forbidden("only the buyer can cancel this deal")
			}
		default:
			if deal.BuyerID != userID && listing.SellerID != userID {
				return nil, apperrors.Forbidden("not authorized to update this deal")
			}
		}
		if deal.Status.IsTerminal() {
			return nil, apperrors.InvalidState("deal is already in a terminal state")
		}
	} else if deal.BuyerID != userID && listing.SellerID != userID {
		return nil, apperrors.Forbidden("not authorized to update this deal")
	}

	fields := map[string]interface{}{}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}
	if updates.Message != nil {
		fields["message"] = *updates.Message
	}
	if len(fields) > 0 {
		if err := s.dealRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update deal: %w", err)
		}
	}

	updated, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload deal: %w", err)
	}

	if updates.Status != nil {
		switch *updates.Status {
		case model.DealStatusRejected:
			metrics.DealsRejectedTotal.Inc()
		case model.DealStatusCancelled:
			metrics.DealsCancelledTotal.Inc()
		}
	}
	s.logger.Info("deal updated",
		zap.Uint("deal_id", id),
		zap.Uint("user_id", userID))

	return updated, nil
}

// AcceptDeal accepts a pending deal. In one transaction: the listing row is
// locked, the target deal flips to accepted only if still pending, every
// sibling pending deal flips to rejected, and the listing flips to sold.
func (s *dealService) AcceptDeal(ctx context.Context, dealID uint, userID uint) (*model.Deal, error) {
	var rejected int64

	err := s.dealRepo.WithTransaction(ctx, func(ctx context.Context, deals repository.DealRepository, listings repository.ListingRepository) error {
		deal, err := deals.FindByID(ctx, dealID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("deal not found")
			}
			return fmt.Errorf("find deal: %w", err)
		}

		listing, err := listings.FindByIDForUpdate(ctx, deal.ListingID)
		if err != nil {
			return fmt.Errorf("find listing: %w", err)
		}

		if listing.SellerID != userID {
			return apperrors.Forbidden("only the seller can accept deals")
		}

		affected, err := deals.AcceptPending(ctx, dealID)
		if err != nil {
			return fmt.Errorf("accept deal: %w", err)
		}
		if affected == 0 {
			return apperrors.InvalidState("only pending deals can be accepted")
		}

		rejected, err = deals.RejectOtherPending(ctx, deal.ListingID, dealID)
		if err != nil {
			return fmt.Errorf("reject sibling deals: %w", err)
		}

		if err := listings.UpdateStatus(ctx, deal.ListingID, model.ListingStatusSold); err != nil {
			return fmt.Errorf("mark listing sold: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accepted, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("reload deal: %w", err)
	}

	_ = s.cache.Delete(ctx, listingCacheKey(accepted.ListingID))
	metrics.DealsAcceptedTotal.Inc()
	metrics.ListingsSoldTotal.Inc()
	metrics.DealsRejectedTotal.Add(float64(rejected))
	s.logger.Info("deal accepted",
		zap.Uint("deal_id", dealID),
		zap.Uint("user_id", userID),
		zap.Int64("siblings_rejected", rejected))

	return accepted, nil
}

// CompleteDeal marks an accepted deal as completed. The conditional write
// makes a second completion fail instead of silently succeeding.
func (s *dealService) CompleteDeal(ctx context.Context, dealID uint, userID uint) (*model.Deal, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("deal not found")
		}
		return nil, fmt.Errorf("find deal: %w", err)
	}

	listing, err := s.listingRepo.FindByID(ctx, deal.ListingID)
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}

	if listing.SellerID != userID {
		return nil, apperrors.Forbidden("only the seller can complete deals")
	}

	affected, err := s.dealRepo.CompleteAccepted(ctx, dealID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("complete deal: %w", err)
	}
	if affected == 0 {
		return nil, apperrors.InvalidState("only accepted deals can be completed")
	}

	completed, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("reload deal: %w", err)
	}

	metrics.DealsCompletedTotal.Inc()
	s.logger.Info("deal completed",
		zap.Uint("deal_id", dealID),
		zap.Uint("user_id", userID))

	return completed, nil
}

// AddMessage appends a message to the deal's thread. Messages are allowed in
// any deal status so the negotiation history stays writable after completion.
func (s *dealService) AddMessage(ctx context.Context, dealID uint, userID uint, message string) (*model.DealMessage, error) {
	if _, _, err := s.loadDealParticipants(ctx, dealID, userID, "not authorized to message in this deal"); err != nil {
		return nil, err
	}

	dealMessage := &model.DealMessage{
		DealID:  dealID,
		UserID:  userID,
		Message: message,
	}
	if err := s.messageRepo.Create(ctx, dealMessage); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	metrics.DealMessagesTotal.Inc()
	s.logger.Info("message added to deal",
		zap.Uint("deal_id", dealID),
		zap.Uint("user_id", userID),
		zap.Uint("message_id", dealMessage.ID))

	return dealMessage, nil
}

// GetDealMessages returns the deal's thread, oldest first.
func (s *dealService) GetDealMessages(ctx context.Context, dealID uint, userID uint) ([]model.DealMessage, error) {
	if _, _, err := s.loadDealParticipants(ctx, dealID, userID, "not authorized to view messages for this deal"); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// loadDealParticipants loads a deal and its listing and verifies the user is
// the buyer or the seller.
func (s *dealService) loadDealParticipants(ctx context.Context, dealID, userID uint, forbiddenMessage string) (*model.Deal, *model.Listing, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.NotFound("deal not found")
		}
		return nil, nil, fmt.Errorf("find deal: %w", err)
	}

	listing, err := s.listingRepo.FindByID(ctx, deal.ListingID)
	if err != nil {
		return nil, nil, fmt.Errorf("find listing: %w", err)
	}

	if deal.BuyerID != userID && listing.SellerID != userID {
		return nil, nil, apperrors.Forbidden(forbiddenMessage)
	}

	return deal, listing, nil
}

// parseISOTime accepts RFC 3339 datetimes with or without the timezone suffix.
func parseISOTime(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}
