package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	userDomain "github.com/havenstay/service-rental/internal/domain/user"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
)

// CreateBookingRequest holds the data needed to create a new booking.
// Dates are YYYY-MM-DD or RFC 3339 strings.
type CreateBookingRequest struct {
	ListingID string `json:"listingId" binding:"required,notblank"`
	CheckIn   string `json:"checkIn" binding:"required,notblank"`
	CheckOut  string `json:"checkOut" binding:"required,notblank"`
	Guests    *int   `json:"guests" binding:"required"`
}

// ListingSummaryDTO is the listing as embedded in a booking.
type ListingSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"pricePerNight"`
}

// BookingDTO is the response representation of a booking. Listing is null
// when the listing has since been deleted.
type BookingDTO struct {
	ID         uuid.UUID          `json:"id"`
	Listing    *ListingSummaryDTO `json:"listing"`
	Guest      uuid.UUID          `json:"guest"`
	CheckIn    time.Time          `json:"checkIn"`
	CheckOut   time.Time          `json:"checkOut"`
	Guests     int                `json:"guests"`
	TotalPrice float64            `json:"totalPrice"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// GuestDTO is the guest projection shown to hosts.
type GuestDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// HostBookingDTO is a booking as seen by the listing's host.
type HostBookingDTO struct {
	BookingDTO
	Guest *GuestDTO `json:"guest"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	listings  listingDomain.ListingRepository
	users     userDomain.UserRepository
	pricing   bookingDomain.PricingStrategy
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	listings listingDomain.ListingRepository,
	users userDomain.UserRepository,
	pricing bookingDomain.PricingStrategy,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		listings:  listings,
		users:     users,
		pricing:   pricing,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking books a listing for the calling guest. The price is always
// derived from the listing's nightly rate.
func (s *BookingService) CreateBooking(ctx context.Context, guest auth.Principal, req CreateBookingRequest) (*BookingDTO, error) {
	if err := auth.Authorize(auth.OpCreateBooking, guest); err != nil {
		return nil, err
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, apperror.NewNotFoundError("Listing", req.ListingID)
	}

	checkIn, err := bookingDomain.ParseDate(req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := bookingDomain.ParseDate(req.CheckOut)
	if err != nil {
		return nil, err
	}
	stay, err := bookingDomain.NewStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	guests := 0
	if req.Guests != nil {
		guests = *req.Guests
	}
	if !listing.Accommodates(guests) {
		return nil, apperror.NewValidationError(fmt.Sprintf("Guests must be between 1 and %d", listing.MaxGuests()))
	}

	total, err := s.pricing.Calculate(bookingDomain.PricingParams{
		Nights:        stay.Nights(),
		PricePerNight: listing.PricePerNight(),
	})
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(listing.ID(), guest.ID, stay, guests, total)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveIfAvailable(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking confirmed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("listing_id", listing.ID().String()),
		zap.Int("nights", bk.Nights()),
		zap.Float64("total_price", bk.TotalPrice()),
	)

	publishEvent(ctx, s.publisher, s.logger, TopicBookingEvents, BookingConfirmed, listing.ID().String(), BookingConfirmedEvent{
		BookingID:    bk.ID(),
		ListingID:    listing.ID(),
		ListingTitle: listing.Title(),
		HostID:       listing.HostID(),
		GuestID:      bk.GuestID(),
		CheckIn:      bk.CheckIn(),
		CheckOut:     bk.CheckOut(),
		Nights:       bk.Nights(),
		Guests:       bk.Guests(),
		TotalPrice:   bk.TotalPrice(),
		OccurredAt:   time.Now().UTC(),
	})

	result := toBookingDTO(bk, listing)
	return &result, nil
}

// ListMyBookings returns every booking of the calling guest, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, guest auth.Principal) ([]BookingDTO, error) {
	if err := auth.Authorize(auth.OpListMyBookings, guest); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByGuestID(ctx, guest.ID)
	if err != nil {
		return nil, err
	}
	return s.withListings(ctx, bookings)
}

// ListHostBookings returns bookings on the calling host's listings, newest
// first, with the guest resolved to {id, name, email}.
func (s *BookingService) ListHostBookings(ctx context.Context, host auth.Principal) ([]HostBookingDTO, error) {
	if err := auth.Authorize(auth.OpListHostBookings, host); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByHostID(ctx, host.ID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withListings(ctx, bookings)
	if err != nil {
		return nil, err
	}

	guestIDs := make([]uuid.UUID, 0, len(bookings))
	for _, bk := range bookings {
		guestIDs = append(guestIDs, bk.GuestID())
	}
	guests, err := s.users.FindByIDs(ctx, guestIDs)
	if err != nil {
		return nil, err
	}

	items := make([]HostBookingDTO, len(dtos))
	for i, d := range dtos {
		items[i] = HostBookingDTO{BookingDTO: d}
		if u, ok := guests[d.Guest]; ok {
			items[i].Guest = &GuestDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
		}
	}
	return items, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos, err := s.withListings(ctx, bookings)
	if err != nil {
		return nil, 0, err
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// withListings converts bookings to DTOs, loading their listings in one
// query.
func (s *BookingService) withListings(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, bk := range bookings {
		ids = append(ids, bk.ListingID())
	}
	listings, err := s.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, listings[bk.ListingID()])
	}
	return dtos, nil
}

func toBookingDTO(bk *bookingDomain.Booking, listing *listingDomain.Listing) BookingDTO {
	var summary *ListingSummaryDTO
	if listing != nil {
		summary = &ListingSummaryDTO{
			ID:            listing.ID(),
			Title:         listing.Title(),
			Location:      listing.Location(),
			PricePerNight: listing.PricePerNight(),
		}
	}
	return BookingDTO{
		ID:         bk.ID(),
		Listing:    summary,
		Guest:      bk.GuestID(),
		CheckIn:    bk.CheckIn(),
		CheckOut:   bk.CheckOut(),
		Guests:     bk.Guests(),
		TotalPrice: bk.TotalPrice(),
		Status:     string(bk.Status()),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}
