package application

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
)

// CheckoutCurrency is the ISO currency code charged at checkout.
const CheckoutCurrency = "inr"

// CheckoutSessionRequest is the body of POST /payments/checkout-session.
type CheckoutSessionRequest struct {
	BookingID  string `json:"bookingId" binding:"required,notblank"`
	SuccessURL string `json:"successUrl" binding:"required,notblank"`
	CancelURL  string `json:"cancelUrl" binding:"required,notblank"`
}

// CheckoutSessionDTO carries the hosted checkout URL.
type CheckoutSessionDTO struct {
	URL string `json:"url"`
}

// CheckoutParams describe one hosted checkout for a single stay.
type CheckoutParams struct {
	ProductName        string
	ProductDescription string
	Currency           string
	UnitAmount         int64
	SuccessURL         string
	CancelURL          string
	Metadata           map[string]string
}

// CheckoutGateway creates hosted checkout sessions with a payment provider.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
}

// PaymentService starts payments for confirmed bookings.
type PaymentService struct {
	bookings bookingDomain.BookingRepository
	listings listingDomain.ListingRepository
	gateway  CheckoutGateway
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService. A nil gateway makes every
// checkout fail as unavailable.
func NewPaymentService(
	bookings bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	gateway CheckoutGateway,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{bookings: bookings, listings: listings, gateway: gateway, logger: logger}
}

// CreateCheckoutSession opens a hosted checkout for the caller's booking.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, caller auth.Principal, req CheckoutSessionRequest) (*CheckoutSessionDTO, error) {
	if err := auth.Authorize(auth.OpCreateCheckout, caller); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, apperror.NewUnavailableError("Payments are not configured")
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperror.NewNotFoundError("Booking", req.BookingID)
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.IsOwnedBy(caller.ID) {
		return nil, apperror.NewForbiddenError("Forbidden: Not your booking")
	}
	if bk.Status() != bookingDomain.StatusConfirmed {
		return nil, apperror.NewValidationError("Only confirmed bookings can be paid")
	}

	listing, err := s.listings.FindByID(ctx, bk.ListingID())
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.NewValidationError("Booking listing missing")
		}
		return nil, err
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		ProductName:        "Stay at " + listing.Title(),
		ProductDescription: listing.Location(),
		Currency:           CheckoutCurrency,
		UnitAmount:         int64(math.Round(bk.TotalPrice() * 100)),
		SuccessURL:         req.SuccessURL,
		CancelURL:          req.CancelURL,
		Metadata: map[string]string{
			"bookingId": bk.ID().String(),
			"listingId": listing.ID().String(),
			"userId":    caller.ID.String(),
		},
	})
	if err != nil {
		return nil, apperror.NewInternalError(fmt.Errorf("failed to create checkout session: %w", err))
	}
	if url == "" {
		return nil, apperror.NewInternalError(fmt.Errorf("checkout session created without URL"))
	}

	s.logger.Info("checkout session created",
		zap.String("booking_id", bk.ID().String()),
		zap.Float64("amount", bk.TotalPrice()),
	)
	return &CheckoutSessionDTO{URL: url}, nil
}
