package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	reviewDomain "github.com/havenstay/service-rental/internal/domain/review"
	userDomain "github.com/havenstay/service-rental/internal/domain/user"
)

// OverviewDTO holds the admin dashboard counters.
type OverviewDTO struct {
	UserCount    int64 `json:"userCount"`
	ListingCount int64 `json:"listingCount"`
	BookingCount int64 `json:"bookingCount"`
	ReviewCount  int64 `json:"reviewCount"`
}

// AdminService aggregates marketplace metrics.
type AdminService struct {
	users    userDomain.UserRepository
	listings listingDomain.ListingRepository
	bookings bookingDomain.BookingRepository
	reviews  reviewDomain.ReviewRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	users userDomain.UserRepository,
	listings listingDomain.ListingRepository,
	bookings bookingDomain.BookingRepository,
	reviews reviewDomain.ReviewRepository,
) *AdminService {
	return &AdminService{users: users, listings: listings, bookings: bookings, reviews: reviews}
}

// Overview counts every record type.
func (s *AdminService) Overview(ctx context.Context) (*OverviewDTO, error) {
	var out OverviewDTO
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.UserCount, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.ListingCount, err = s.listings.Count(ctx)
		return err
	})
	g.Go(func() error {
		counts, err := s.bookings.CountByStatus(ctx)
		for _, n := range counts {
			out.BookingCount += n
		}
		return err
	})
	g.Go(func() (err error) {
		out.ReviewCount, err = s.reviews.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
