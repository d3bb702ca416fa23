package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/havenstay/service-rental/internal/domain/booking"
	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	reviewDomain "github.com/havenstay/service-rental/internal/domain/review"
	userDomain "github.com/havenstay/service-rental/internal/domain/user"
	"github.com/havenstay/service-rental/internal/platform/apperror"
	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/repository"
)

// CreateReviewRequest is the body of POST /reviews.
type CreateReviewRequest struct {
	ListingID string `json:"listingId" binding:"required,notblank"`
	Rating    *int   `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"required,notblank"`
}

// ReviewAuthorDTO is the public projection of a review's author.
type ReviewAuthorDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID        uuid.UUID        `json:"id"`
	Rating    int              `json:"rating"`
	Comment   string           `json:"comment"`
	Listing   uuid.UUID        `json:"listing"`
	Author    *ReviewAuthorDTO `json:"author"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// ListingReviewsDTO is the review list of one listing.
type ListingReviewsDTO struct {
	Items         []ReviewDTO `json:"items"`
	Count         int         `json:"count"`
	AverageRating *float64    `json:"averageRating"`
}

// ReviewService manages guest reviews.
type ReviewService struct {
	repo      reviewDomain.ReviewRepository
	listings  listingDomain.ListingRepository
	bookings  bookingDomain.BookingRepository
	users     userDomain.UserRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	repo reviewDomain.ReviewRepository,
	listings listingDomain.ListingRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		repo:      repo,
		listings:  listings,
		bookings:  bookings,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateReview records the caller's review of a listing they have stayed at.
func (s *ReviewService) CreateReview(ctx context.Context, author auth.Principal, req CreateReviewRequest) (*ReviewDTO, error) {
	if err := auth.Authorize(auth.OpCreateReview, author); err != nil {
		return nil, err
	}
	if req.Rating == nil {
		return nil, apperror.NewValidationError("listingId, rating and comment are required")
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return nil, apperror.NewNotFoundError("Listing", req.ListingID)
	}

	rv, err := reviewDomain.NewReview(listingID, author.ID, *req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	stayed, err := s.bookings.HasCompletedStay(ctx, listingID, author.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !stayed {
		return nil, apperror.NewValidationError("You can only review listings you have completed a stay at.")
	}

	exists, err := s.repo.ExistsByAuthor(ctx, listingID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewValidationError(repository.ErrAlreadyReviewed)
	}

	if err := s.repo.Save(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.String("review_id", rv.ID().String()),
		zap.String("listing_id", listingID.String()),
		zap.Int("rating", rv.Rating()),
	)
	publishEvent(ctx, s.publisher, s.logger, TopicReviewEvents, ReviewCreated, listingID.String(), ReviewCreatedEvent{
		ReviewID:   rv.ID(),
		ListingID:  listingID,
		HostID:     listing.HostID(),
		AuthorID:   author.ID,
		Rating:     rv.Rating(),
		OccurredAt: time.Now().UTC(),
	})

	authors, err := s.users.FindByIDs(ctx, []uuid.UUID{author.ID})
	if err != nil {
		return nil, err
	}
	result := toReviewDTO(rv, authors)
	return &result, nil
}

// ListListingReviews returns a listing's reviews, newest first, with the
// average rating.
func (s *ReviewService) ListListingReviews(ctx context.Context, listingID uuid.UUID) (*ListingReviewsDTO, error) {
	reviews, err := s.repo.FindByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	ids := make([]uuid.UUID, len(reviews))
	for i, rv := range reviews {
		ids[i] = rv.AuthorID()
	}
	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		items[i] = toReviewDTO(rv, authors)
	}
	return &ListingReviewsDTO{
		Items:         items,
		Count:         len(items),
		AverageRating: reviewDomain.AverageRating(reviews),
	}, nil
}

func toReviewDTO(rv *reviewDomain.Review, authors map[uuid.UUID]*userDomain.User) ReviewDTO {
	dto := ReviewDTO{
		ID:        rv.ID(),
		Rating:    rv.Rating(),
		Comment:   rv.Comment(),
		Listing:   rv.ListingID(),
		CreatedAt: rv.CreatedAt(),
		UpdatedAt: rv.UpdatedAt(),
	}
	if u, ok := authors[rv.AuthorID()]; ok {
		dto.Author = &ReviewAuthorDTO{ID: u.ID(), Name: u.Name()}
	}
	return dto
}
