package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// SaveIfAvailable inserts the booking unless a confirmed booking of the
	// same listing overlaps its stay, in which case it returns a Conflict
	// error. The check and the insert are serialized per listing.
	SaveIfAvailable(ctx context.Context, booking *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByGuestID returns every booking of a guest, newest first.
	FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]*Booking, error)

	// FindByHostID returns bookings on listings owned by hostID, newest first.
	FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*Booking, error)

	// HasCompletedStay reports whether the guest holds a confirmed booking of
	// the listing that checked out before now.
	HasCompletedStay(ctx context.Context, listingID, guestID uuid.UUID, now time.Time) (bool, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
