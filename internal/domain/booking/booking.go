package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id         uuid.UUID
	listingID  uuid.UUID
	guestID    uuid.UUID
	stay       Stay
	guests     int
	totalPrice float64
	status     BookingStatus
	createdAt  time.Time
	updatedAt  time.Time
}

// NewBooking creates a confirmed Booking. Capacity and availability are
// checked by the caller against the listing and the booking store.
func NewBooking(listingID, guestID uuid.UUID, stay Stay, guests int, totalPrice float64) (*Booking, error) {
	if listingID == uuid.Nil {
		return nil, apperror.NewValidationError("listingId is required")
	}
	if guestID == uuid.Nil {
		return nil, apperror.NewValidationError("guest is required")
	}
	if stay.Nights() < 1 {
		return nil, apperror.NewValidationError("Stay must be at least 1 night")
	}
	if guests < 1 {
		return nil, apperror.NewValidationError("guests must be at least 1")
	}
	if totalPrice <= 0 {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid total price %v", totalPrice))
	}

	now := time.Now().UTC()
	return &Booking{
		id:         uuid.New(),
		listingID:  listingID,
		guestID:    guestID,
		stay:       stay,
		guests:     guests,
		totalPrice: totalPrice,
		status:     StatusConfirmed,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, listingID, guestID uuid.UUID,
	stay Stay,
	guests int,
	totalPrice float64,
	status BookingStatus,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		listingID:  listingID,
		guestID:    guestID,
		stay:       stay,
		guests:     guests,
		totalPrice: totalPrice,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ListingID returns the booked listing's ID.
func (b *Booking) ListingID() uuid.UUID { return b.listingID }

// GuestID returns the ID of the user who made the booking.
func (b *Booking) GuestID() uuid.UUID { return b.guestID }

// Stay returns the booked date interval.
func (b *Booking) Stay() Stay { return b.stay }

// CheckIn returns the check-in date (UTC midnight).
func (b *Booking) CheckIn() time.Time { return b.stay.CheckIn }

// CheckOut returns the check-out date (UTC midnight).
func (b *Booking) CheckOut() time.Time { return b.stay.CheckOut }

// Nights returns the number of nights booked.
func (b *Booking) Nights() int { return b.stay.Nights() }

// Guests returns the party size.
func (b *Booking) Guests() int { return b.guests }

// TotalPrice returns the price charged for the whole stay.
func (b *Booking) TotalPrice() float64 { return b.totalPrice }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-update timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsOwnedBy reports whether guestID made this booking.
func (b *Booking) IsOwnedBy(guestID uuid.UUID) bool { return b.guestID == guestID }

// Blocks reports whether this booking keeps stay off the calendar.
func (b *Booking) Blocks(stay Stay) bool {
	return b.status.HoldsDates() && b.stay.Overlaps(stay)
}

// IsCompletedAt reports whether this is a confirmed stay that checked out
// before now.
func (b *Booking) IsCompletedAt(now time.Time) bool {
	return b.status == StatusConfirmed && b.stay.CheckOut.Before(now)
}
