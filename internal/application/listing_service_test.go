package application

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "host", auth.RoleHost)
	guest := f.user(t, "guest", auth.RoleGuest)
	req := CreateListingRequest{
		Title: "Treehouse", Description: "Up high", Location: "Coorg",
		PricePerNight: floatPtr(2500), MaxGuests: intPtr(3),
	}

	_, err := f.listingSvc.CreateListing(ctx, guest, req)
	require.Error(t, err)
	assert.Equal(t, "Forbidden: Host access only", apperror.PublicMessage(err))

	got, err := f.listingSvc.CreateListing(ctx, host, req)
	require.NoError(t, err)
	assert.Equal(t, host.ID, got.Host)
	assert.NotNil(t, got.Images)

	req.PricePerNight = floatPtr(0)
	_, err = f.listingSvc.CreateListing(ctx, host, req)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestUpdateListing_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "host", auth.RoleHost)
	other := f.user(t, "other", auth.RoleHost)
	admin := f.user(t, "admin", auth.RoleAdmin)
	l := f.listing(t, host, 100, 2)

	_, err := f.listingSvc.UpdateListing(ctx, other, l.ID(), UpdateListingRequest{Title: strPtr("Mine now")})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, "Forbidden: Not your listing", apperror.PublicMessage(err))

	images := []string{"a.jpg", " ", "b.jpg"}
	got, err := f.listingSvc.UpdateListing(ctx, host, l.ID(), UpdateListingRequest{
		PricePerNight: floatPtr(120), Images: &images,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.PricePerNight)
	assert.Equal(t, "Cliff House", got.Title)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)

	got, err = f.listingSvc.UpdateListing(ctx, admin, l.ID(), UpdateListingRequest{Title: strPtr("Cliff Villa")})
	require.NoError(t, err)
	assert.Equal(t, "Cliff Villa", got.Title)

	require.Error(t, f.listingSvc.DeleteListing(ctx, other, l.ID()))
	require.NoError(t, f.listingSvc.DeleteListing(ctx, admin, l.ID()))

	_, err = f.listingSvc.GetListing(ctx, l.ID())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSearchListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := f.user(t, "host", auth.RoleHost)
	for i := 0; i < 3; i++ {
		f.listing(t, host, float64(100*(i+1)), i+1)
	}

	got, err := f.listingSvc.SearchListings(ctx, SearchListingsQuery{Location: strPtr("goa"), MinPrice: floatPtr(150), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, 2, got.TotalPages)
	assert.Equal(t, 1, got.Page.Page)
	assert.Len(t, got.Items, 1)
	require.NotNil(t, got.FiltersUsed.Location)
	assert.Equal(t, "goa", *got.FiltersUsed.Location)
	assert.Nil(t, got.FiltersUsed.Guests)

	got, err = f.listingSvc.SearchListings(ctx, SearchListingsQuery{Guests: intPtr(10), Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxSearchLimit, got.Limit)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)

	got, err = f.listingSvc.SearchListings(ctx, SearchListingsQuery{Page: math.MaxInt / 2, Limit: MaxSearchLimit})
	require.NoError(t, err)
	assert.Equal(t, MaxPage, got.Page.Page)
	assert.Empty(t, got.Items)
}
