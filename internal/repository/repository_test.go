package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	reviewDomain "github.com/havenstay/service-rental/internal/domain/review"
	userDomain "github.com/havenstay/service-rental/internal/domain/user"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/repository"
	"github.com/havenstay/service-rental/internal/repository/repotest"
)

func day(s string) time.Time {
	t, err := bookingDomain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newBooking(t *testing.T, listingID uuid.UUID, in, out string) *bookingDomain.Booking {
	t.Helper()
	stay, err := bookingDomain.NewStay(day(in), day(out))
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(listingID, uuid.New(), stay, 1, float64(stay.Nights())*100)
	require.NoError(t, err)
	return bk
}

func seedListing(t *testing.T, repo *repository.GormListingRepository, hostID uuid.UUID, d listingDomain.Details) *listingDomain.Listing {
	t.Helper()
	l, err := listingDomain.NewListing(hostID, d)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), l))
	return l
}

func cabin(title, location string, price float64, guests int) listingDomain.Details {
	return listingDomain.Details{
		Title: title, Description: "A place to stay", Location: location,
		PricePerNight: price, MaxGuests: guests,
	}
}

func TestBookingRepository_SaveIfAvailable(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormBookingRepository(repotest.NewDB(t))
	listingID := uuid.New()

	first := newBooking(t, listingID, "2024-06-01", "2024-06-04")
	require.NoError(t, repo.SaveIfAvailable(ctx, first))

	err := repo.SaveIfAvailable(ctx, newBooking(t, listingID, "2024-06-03", "2024-06-05"))
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, repository.ErrDatesUnavailable, apperror.PublicMessage(err))

	assert.NoError(t, repo.SaveIfAvailable(ctx, newBooking(t, listingID, "2024-06-04", "2024-06-06")))
	assert.NoError(t, repo.SaveIfAvailable(ctx, newBooking(t, listingID, "2024-05-30", "2024-06-01")))
	assert.NoError(t, repo.SaveIfAvailable(ctx, newBooking(t, uuid.New(), "2024-06-01", "2024-06-04")))

	got, err := repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	assert.Equal(t, day("2024-06-01"), got.CheckIn())
	assert.Equal(t, day("2024-06-04"), got.CheckOut())
	assert.Equal(t, 3, got.Nights())
	assert.Equal(t, bookingDomain.StatusConfirmed, got.Status())
}

func TestBookingRepository_CancelledBookingFreesDates(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	repo := repository.NewGormBookingRepository(db)
	listingID := uuid.New()

	now := time.Now().UTC()
	require.NoError(t, db.Create(&repository.BookingModel{
		ID: uuid.New(), ListingID: listingID, GuestID: uuid.New(),
		CheckIn: day("2024-08-01"), CheckOut: day("2024-08-05"),
		Guests: 1, TotalPrice: 400, Status: string(bookingDomain.StatusCancelled),
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	assert.NoError(t, repo.SaveIfAvailable(ctx, newBooking(t, listingID, "2024-08-02", "2024-08-04")))

	err := repo.SaveIfAvailable(ctx, newBooking(t, listingID, "2024-08-03", "2024-08-06"))
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestBookingRepository_ConcurrentOverlapsYieldOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormBookingRepository(repotest.NewDB(t))
	listingID := uuid.New()

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		bk := newBooking(t, listingID, "2024-07-01", "2024-07-05")
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := repo.SaveIfAvailable(ctx, bk)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperror.Is(err, apperror.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, conflicts)
}

func TestBookingRepository_FindByID_NotFound(t *testing.T) {
	repo := repository.NewGormBookingRepository(repotest.NewDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestBookingRepository_HostAndGuestViews(t *testing.T) {
	ctx := context.Background()
	db := repotest.NewDB(t)
	bookings := repository.NewGormBookingRepository(db)
	listings := repository.NewGormListingRepository(db)

	hostID := uuid.New()
	mine := seedListing(t, listings, hostID, cabin("Mine", "Goa", 100, 2))
	theirs := seedListing(t, listings, uuid.New(), cabin("Theirs", "Pune", 100, 2))

	older := newBooking(t, mine.ID(), "2024-06-01", "2024-06-02")
	require.NoError(t, bookings.SaveIfAvailable(ctx, older))
	time.Sleep(5 * time.Millisecond)
	newer := newBooking(t, mine.ID(), "2024-06-02", "2024-06-03")
	require.NoError(t, bookings.SaveIfAvailable(ctx, newer))
	require.NoError(t, bookings.SaveIfAvailable(ctx, newBooking(t, theirs.ID(), "2024-06-01", "2024-06-02")))

	hostView, err := bookings.FindByHostID(ctx, hostID)
	require.NoError(t, err)
	require.Len(t, hostView, 2)
	assert.Equal(t, newer.ID(), hostView[0].ID())
	assert.Equal(t, older.ID(), hostView[1].ID())

	guestView, err := bookings.FindByGuestID(ctx, older.GuestID())
	require.NoError(t, err)
	require.Len(t, guestView, 1)

	none, err := bookings.FindByGuestID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingRepository_HasCompletedStay(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormBookingRepository(repotest.NewDB(t))
	bk := newBooking(t, uuid.New(), "2024-06-01", "2024-06-04")
	require.NoError(t, repo.SaveIfAvailable(ctx, bk))

	ok, err := repo.HasCompletedStay(ctx, bk.ListingID(), bk.GuestID(), day("2024-06-10"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasCompletedStay(ctx, bk.ListingID(), bk.GuestID(), day("2024-06-04"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.HasCompletedStay(ctx, bk.ListingID(), uuid.New(), day("2024-06-10"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookingRepository_AdminQueries(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormBookingRepository(repotest.NewDB(t))
	listingID := uuid.New()
	for _, r := range [][2]string{{"2024-06-01", "2024-06-02"}, {"2024-06-02", "2024-06-03"}, {"2024-06-03", "2024-06-04"}} {
		require.NoError(t, repo.SaveIfAvailable(ctx, newBooking(t, listingID, r[0], r[1])))
	}

	page, total, err := repo.ListAll(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"confirmed": 3}, counts)
}

func TestListingRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormListingRepository(repotest.NewDB(t))
	hostID := uuid.New()

	seedListing(t, repo, hostID, cabin("Beach Hut", "Goa", 1000, 2))
	time.Sleep(2 * time.Millisecond)
	seedListing(t, repo, hostID, cabin("Hill Villa", "Manali", 2500, 6))
	time.Sleep(2 * time.Millisecond)
	seedListing(t, repo, hostID, cabin("100% Cotton Loft", "North Goa", 1500, 4))

	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		filter listingDomain.SearchFilter
		titles []string
	}{
		{"all newest first", listingDomain.SearchFilter{}, []string{"100% Cotton Loft", "Hill Villa", "Beach Hut"}},
		{"query is case-insensitive", listingDomain.SearchFilter{Query: "VILLA"}, []string{"Hill Villa"}},
		{"query matches location", listingDomain.SearchFilter{Query: "goa"}, []string{"100% Cotton Loft", "Beach Hut"}},
		{"query percent is literal", listingDomain.SearchFilter{Query: "100%"}, []string{"100% Cotton Loft"}},
		{"location", listingDomain.SearchFilter{Location: "north"}, []string{"100% Cotton Loft"}},
		{"price range", listingDomain.SearchFilter{MinPrice: price(1200), MaxPrice: price(2000)}, []string{"100% Cotton Loft"}},
		{"guests", listingDomain.SearchFilter{MinGuests: 5}, []string{"Hill Villa"}},
		{"page two", listingDomain.SearchFilter{Page: 2, Limit: 2}, []string{"Beach Hut"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.filter
			if f.Page == 0 {
				f.Page, f.Limit = 1, 10
			}
			got, total, err := repo.Search(ctx, f)
			require.NoError(t, err)

			titles := make([]string, len(got))
			for i, l := range got {
				titles[i] = l.Title()
			}
			assert.Equal(t, tt.titles, titles)
			if tt.name != "page two" {
				assert.Equal(t, int64(len(tt.titles)), total)
			} else {
				assert.Equal(t, int64(3), total)
			}
		})
	}
}

func TestListingRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormListingRepository(repotest.NewDB(t))
	l := seedListing(t, repo, uuid.New(), cabin("Beach Hut", "Goa", 1000, 2))

	guests := 3
	require.NoError(t, l.Apply(listingDomain.Patch{MaxGuests: &guests, SetImages: true, Images: []string{"a.jpg"}}))
	require.NoError(t, repo.Update(ctx, l))

	got, err := repo.FindByID(ctx, l.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, got.MaxGuests())
	assert.Equal(t, []string{"a.jpg"}, got.Images())

	byID, err := repo.FindByIDs(ctx, []uuid.UUID{l.ID(), uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	require.NoError(t, repo.Delete(ctx, l.ID()))
	_, err = repo.FindByID(ctx, l.ID())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(repo.Delete(ctx, l.ID()), apperror.KindNotFound))
}

func TestReviewRepository_UniquePerAuthor(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormReviewRepository(repotest.NewDB(t))
	listingID, authorID := uuid.New(), uuid.New()

	first, err := reviewDomain.NewReview(listingID, authorID, 5, "Wonderful")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	dup, err := reviewDomain.NewReview(listingID, authorID, 1, "Changed my mind")
	require.NoError(t, err)
	err = repo.Save(ctx, dup)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	assert.Equal(t, repository.ErrAlreadyReviewed, apperror.PublicMessage(err))

	exists, err := repo.ExistsByAuthor(ctx, listingID, authorID)
	require.NoError(t, err)
	assert.True(t, exists)

	reviews, err := repo.FindByListingID(ctx, listingID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGormUserRepository(repotest.NewDB(t))

	u, err := userDomain.NewUser("Asha", "Asha@Example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	again, err := userDomain.NewUser("Other", "asha@example.com", "hash")
	require.NoError(t, err)
	err = repo.Save(ctx, again)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	got, err := repo.FindByEmail(ctx, " ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), got.ID())

	_, err = repo.FindFirstByRoles(ctx, "host", "admin")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, got.Promote("host"))
	require.NoError(t, repo.UpdateRole(ctx, got))
	host, err := repo.FindFirstByRoles(ctx, "host", "admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), host.ID())

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
