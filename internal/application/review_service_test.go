package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
)

func TestCreateReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reviewSvc.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }

	host := f.user(t, "host", auth.RoleHost)
	guest := f.user(t, "guest", auth.RoleGuest)
	stranger := f.user(t, "stranger", auth.RoleGuest)
	l := f.listing(t, host, 100, 2)
	f.book(t, guest, l.ID(), "2024-06-01", "2024-06-04")
	// Still upcoming on the fixed clock.
	f.book(t, stranger, l.ID(), "2024-07-01", "2024-07-04")

	req := CreateReviewRequest{ListingID: l.ID().String(), Rating: intPtr(5), Comment: "  Lovely stay  "}

	_, err := f.reviewSvc.CreateReview(ctx, stranger, req)
	require.Error(t, err)
	assert.Equal(t, "You can only review listings you have completed a stay at.", apperror.PublicMessage(err))

	rv, err := f.reviewSvc.CreateReview(ctx, guest, req)
	require.NoError(t, err)
	assert.Equal(t, 5, rv.Rating)
	assert.Equal(t, "Lovely stay", rv.Comment)
	require.NotNil(t, rv.Author)
	assert.Equal(t, "guest", rv.Author.Name)

	_, err = f.reviewSvc.CreateReview(ctx, guest, req)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
	assert.Equal(t, "You have already reviewed this listing.", apperror.PublicMessage(err))

	var reviewEvents int
	for _, e := range f.events.published() {
		if e.event.Type == ReviewCreated {
			reviewEvents++
			assert.Equal(t, TopicReviewEvents, e.topic)
		}
	}
	assert.Equal(t, 1, reviewEvents)
}

func TestCreateReview_Validation(t *testing.T) {
	f := newFixture(t)
	guest := f.user(t, "guest", auth.RoleGuest)
	l := f.listing(t, f.user(t, "host", auth.RoleHost), 100, 2)

	tests := []struct {
		name    string
		req     CreateReviewRequest
		kind    apperror.Kind
		message string
	}{
		{"missing rating", CreateReviewRequest{ListingID: l.ID().String(), Comment: "Great"}, apperror.KindInvalidInput, "listingId, rating and comment are required"},
		{"rating too high", CreateReviewRequest{ListingID: l.ID().String(), Rating: intPtr(6), Comment: "Great"}, apperror.KindInvalidInput, ""},
		{"comment too short", CreateReviewRequest{ListingID: l.ID().String(), Rating: intPtr(4), Comment: " ok "}, apperror.KindInvalidInput, ""},
		{"unknown listing", CreateReviewRequest{ListingID: uuid.NewString(), Rating: intPtr(4), Comment: "Great"}, apperror.KindNotFound, "Listing not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviewSvc.CreateReview(context.Background(), guest, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
			if tt.message != "" {
				assert.Equal(t, tt.message, apperror.PublicMessage(err))
			}
		})
	}
}

func TestListListingReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "host", auth.RoleHost)
	l := f.listing(t, host, 100, 4)

	empty, err := f.reviewSvc.ListListingReviews(ctx, l.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.Nil(t, empty.AverageRating)
	assert.NotNil(t, empty.Items)

	for i, rating := range []int{4, 5} {
		g := f.user(t, []string{"ana", "ben"}[i], auth.RoleGuest)
		f.book(t, g, l.ID(), []string{"2024-01-01", "2024-02-01"}[i], []string{"2024-01-03", "2024-02-03"}[i])
		_, err := f.reviewSvc.CreateReview(ctx, g, CreateReviewRequest{
			ListingID: l.ID().String(), Rating: intPtr(rating), Comment: "Would return",
		})
		require.NoError(t, err)
	}

	got, err := f.reviewSvc.ListListingReviews(ctx, l.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.5, *got.AverageRating, 1e-9)
	for _, item := range got.Items {
		assert.Equal(t, l.ID(), item.Listing)
		require.NotNil(t, item.Author)
	}
}
