package application

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	userDomain "github.com/havenstay/service-rental/internal/domain/user"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/kafka"
	"github.com/havenstay/service-rental/internal/repository"
	"github.com/havenstay/service-rental/internal/repository/repotest"
)

type publishedEvent struct {
	topic string
	key   string
	event kafka.CloudEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, evt kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: evt})
	return nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type fixture struct {
	users    *repository.GormUserRepository
	listings *repository.GormListingRepository
	bookings *repository.GormBookingRepository
	reviews  *repository.GormReviewRepository
	events   *recordingPublisher

	bookingSvc *BookingService
	listingSvc *ListingService
	reviewSvc  *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	log := zap.NewNop()

	f := &fixture{
		users:    repository.NewGormUserRepository(db),
		listings: repository.NewGormListingRepository(db),
		bookings: repository.NewGormBookingRepository(db),
		reviews:  repository.NewGormReviewRepository(db),
		events:   &recordingPublisher{},
	}
	f.bookingSvc = NewBookingService(f.bookings, f.listings, f.users, bookingDomain.NewNightlyPricingStrategy(), f.events, log)
	f.listingSvc = NewListingService(f.listings, log)
	f.reviewSvc = NewReviewService(f.reviews, f.listings, f.bookings, f.users, f.events, log)
	return f
}

func (f *fixture) user(t *testing.T, name string, role auth.Role) auth.Principal {
	t.Helper()
	u, err := userDomain.NewUser(name, name+"@example.com", "hash")
	require.NoError(t, err)
	if role != auth.RoleGuest {
		require.NoError(t, u.Promote(role))
	}
	require.NoError(t, f.users.Save(context.Background(), u))
	return u.Principal()
}

func (f *fixture) listing(t *testing.T, host auth.Principal, price float64, maxGuests int) *listingDomain.Listing {
	t.Helper()
	l, err := listingDomain.NewListing(host.ID, listingDomain.Details{
		Title:         "Cliff House",
		Description:   "Sea views",
		PricePerNight: price,
		Location:      "Goa",
		MaxGuests:     maxGuests,
	})
	require.NoError(t, err)
	require.NoError(t, f.listings.Save(context.Background(), l))
	return l
}

func (f *fixture) book(t *testing.T, guest auth.Principal, listingID uuid.UUID, in, out string) *BookingDTO {
	t.Helper()
	guests := 1
	bk, err := f.bookingSvc.CreateBooking(context.Background(), guest, CreateBookingRequest{
		ListingID: listingID.String(), CheckIn: in, CheckOut: out, Guests: &guests,
	})
	require.NoError(t, err)
	return bk
}

func intPtr(n int) *int { return &n }
