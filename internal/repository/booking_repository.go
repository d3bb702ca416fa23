package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// ErrDatesUnavailable is the public message for an overlapping booking.
const ErrDatesUnavailable = "This listing is not available for the selected dates. Please choose different dates."

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID  uuid.UUID `gorm:"type:uuid;not null;index:idx_bookings_listing_status_dates,priority:1"`
	GuestID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CheckIn    time.Time `gorm:"not null;index:idx_bookings_listing_status_dates,priority:3"`
	CheckOut   time.Time `gorm:"not null;index:idx_bookings_listing_status_dates,priority:4"`
	Guests     int       `gorm:"not null"`
	TotalPrice float64   `gorm:"not null"`
	Status     string    `gorm:"size:20;not null;index:idx_bookings_listing_status_dates,priority:2"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
// Create one per process: its listing locks only serialize callers sharing
// the instance.
type GormBookingRepository struct {
	db    *gorm.DB
	locks *keyedMutex
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db, locks: newKeyedMutex()}
}

// SaveIfAvailable runs the overlap check and the insert in one transaction
// while holding the listing's lock. On PostgreSQL the lock is also taken as a
// transaction-scoped advisory lock so that other processes queue behind it.
func (r *GormBookingRepository) SaveIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	unlock := r.locks.Lock(bk.ListingID())
	defer unlock()

	model := toBookingModel(bk)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", bk.ListingID().String()).Error; err != nil {
				return fmt.Errorf("failed to lock listing: %w", err)
			}
		}

		blocking, err := findBlocking(tx, bk.ListingID(), bk.Stay())
		if err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}
		if len(blocking) > 0 {
			return apperror.NewConflictError(ErrDatesUnavailable)
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByGuestID retrieves every booking made by a guest, newest first.
func (r *GormBookingRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find guest bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindByHostID retrieves bookings on listings owned by hostID, newest first.
// Bookings whose listing was deleted drop out of the join.
func (r *GormBookingRepository) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Select("bookings.*").
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.host_id = ?", hostID).
		Order("bookings.created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find host bookings: %w", err)
	}
	return toDomainBookings(models)
}

// HasCompletedStay reports whether the guest checked out of the listing
// before now on a confirmed booking.
func (r *GormBookingRepository) HasCompletedStay(ctx context.Context, listingID, guestID uuid.UUID, now time.Time) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("listing_id = ? AND guest_id = ? AND status = ? AND check_out < ?",
			listingID, guestID, string(bookingDomain.StatusConfirmed), now.UTC()).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check completed stays: %w", err)
	}
	return n > 0, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// findBlocking returns the bookings of listingID that keep stay from being
// booked. The query narrows on the date window; Booking.Blocks decides.
func findBlocking(db *gorm.DB, listingID uuid.UUID, stay bookingDomain.Stay) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := db.Model(&BookingModel{}).
		Where("listing_id = ? AND check_in < ? AND check_out > ?", listingID, stay.CheckOut, stay.CheckIn).
		Find(&models).Error; err != nil {
		return nil, err
	}
	candidates, err := toDomainBookings(models)
	if err != nil {
		return nil, err
	}

	var blocking []*bookingDomain.Booking
	for _, bk := range candidates {
		if bk.Blocks(stay) {
			blocking = append(blocking, bk)
		}
	}
	return blocking, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:         bk.ID(),
		ListingID:  bk.ListingID(),
		GuestID:    bk.GuestID(),
		CheckIn:    bk.CheckIn(),
		CheckOut:   bk.CheckOut(),
		Guests:     bk.Guests(),
		TotalPrice: bk.TotalPrice(),
		Status:     string(bk.Status()),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	stay := bookingDomain.Stay{
		CheckIn:  bookingDomain.NormalizeDate(m.CheckIn),
		CheckOut: bookingDomain.NormalizeDate(m.CheckOut),
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ListingID,
		m.GuestID,
		stay,
		m.Guests,
		m.TotalPrice,
		status,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
