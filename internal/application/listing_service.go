package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/response"
)

// Search paging defaults.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
	MaxPage            = 10000
)

// CreateListingRequest is the body of POST /listings.
type CreateListingRequest struct {
	Title         string   `json:"title" binding:"required,notblank"`
	Description   string   `json:"description" binding:"required,notblank"`
	PricePerNight *float64 `json:"pricePerNight" binding:"required"`
	Location      string   `json:"location" binding:"required,notblank"`
	MaxGuests     *int     `json:"maxGuests" binding:"required"`
	Images        []string `json:"images"`
}

// UpdateListingRequest is the body of PUT /listings/:id. Omitted fields are
// left unchanged.
type UpdateListingRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	PricePerNight *float64  `json:"pricePerNight"`
	Location      *string   `json:"location"`
	MaxGuests     *int      `json:"maxGuests"`
	Images        *[]string `json:"images"`
}

// ListingDTO is the response representation of a listing.
type ListingDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PricePerNight float64   `json:"pricePerNight"`
	Location      string    `json:"location"`
	MaxGuests     int       `json:"maxGuests"`
	Host          uuid.UUID `json:"host"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SearchListingsQuery is a parsed listing search. Nil filters were not
// supplied.
type SearchListingsQuery struct {
	Q        *string
	Location *string
	MinPrice *float64
	MaxPrice *float64
	Guests   *int
	Page     int
	Limit    int
}

// FiltersUsedDTO echoes the applied filters, null when absent.
type FiltersUsedDTO struct {
	Q        *string  `json:"q"`
	Location *string  `json:"location"`
	MinPrice *float64 `json:"minPrice"`
	MaxPrice *float64 `json:"maxPrice"`
	Guests   *int     `json:"guests"`
}

// SearchListingsResult is one page of search results.
type SearchListingsResult struct {
	response.Page[ListingDTO]
	FiltersUsed FiltersUsedDTO `json:"filtersUsed"`
}

// ListingService manages listings.
type ListingService struct {
	repo   listingDomain.ListingRepository
	logger *zap.Logger
}

// NewListingService creates a new ListingService.
func NewListingService(repo listingDomain.ListingRepository, logger *zap.Logger) *ListingService {
	return &ListingService{repo: repo, logger: logger}
}

// CreateListing creates a listing hosted by the caller.
func (s *ListingService) CreateListing(ctx context.Context, host auth.Principal, req CreateListingRequest) (*ListingDTO, error) {
	if err := auth.Authorize(auth.OpCreateListing, host); err != nil {
		return nil, err
	}

	d := listingDomain.Details{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Images:      req.Images,
	}
	if req.PricePerNight != nil {
		d.PricePerNight = *req.PricePerNight
	}
	if req.MaxGuests != nil {
		d.MaxGuests = *req.MaxGuests
	}

	l, err := listingDomain.NewListing(host.ID, d)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("listing created",
		zap.String("listing_id", l.ID().String()),
		zap.String("host_id", host.ID.String()),
	)
	result := toListingDTO(l)
	return &result, nil
}

// GetListing returns one listing.
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toListingDTO(l)
	return &result, nil
}

// SearchListings filters listings and returns one page, newest first.
func (s *ListingService) SearchListings(ctx context.Context, q SearchListingsQuery) (*SearchListingsResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}

	filter := listingDomain.SearchFilter{
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Q != nil {
		filter.Query = *q.Q
	}
	if q.Location != nil {
		filter.Location = *q.Location
	}
	if q.Guests != nil {
		filter.MinGuests = *q.Guests
	}

	listings, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ListingDTO, len(listings))
	for i, l := range listings {
		items[i] = toListingDTO(l)
	}
	return &SearchListingsResult{
		Page: response.NewPage(items, total, q.Page, q.Limit),
		FiltersUsed: FiltersUsedDTO{
			Q:        q.Q,
			Location: q.Location,
			MinPrice: q.MinPrice,
			MaxPrice: q.MaxPrice,
			Guests:   q.Guests,
		},
	}, nil
}

// UpdateListing applies a partial update. Only the host or an admin may
// edit a listing.
func (s *ListingService) UpdateListing(ctx context.Context, caller auth.Principal, id uuid.UUID, req UpdateListingRequest) (*ListingDTO, error) {
	l, err := s.loadManaged(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	patch := listingDomain.Patch{
		Title:         req.Title,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		Location:      req.Location,
		MaxGuests:     req.MaxGuests,
	}
	if req.Images != nil {
		patch.SetImages = true
		patch.Images = *req.Images
	}
	if err := l.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	result := toListingDTO(l)
	return &result, nil
}

// DeleteListing removes a listing. Existing bookings keep their listing id.
func (s *ListingService) DeleteListing(ctx context.Context, caller auth.Principal, id uuid.UUID) error {
	if _, err := s.loadManaged(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("listing deleted",
		zap.String("listing_id", id.String()),
		zap.String("by", caller.ID.String()),
	)
	return nil
}

func (s *ListingService) loadManaged(ctx context.Context, caller auth.Principal, id uuid.UUID) (*listingDomain.Listing, error) {
	if err := auth.Authorize(auth.OpManageListing, caller); err != nil {
		return nil, err
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanManage(caller, l.HostID()) {
		return nil, apperror.NewForbiddenError("Forbidden: Not your listing")
	}
	return l, nil
}

func toListingDTO(l *listingDomain.Listing) ListingDTO {
	return ListingDTO{
		ID:            l.ID(),
		Title:         l.Title(),
		Description:   l.Description(),
		PricePerNight: l.PricePerNight(),
		Location:      l.Location(),
		MaxGuests:     l.MaxGuests(),
		Host:          l.HostID(),
		Images:        l.Images(),
		CreatedAt:     l.CreatedAt(),
		UpdatedAt:     l.UpdatedAt(),
	}
}
