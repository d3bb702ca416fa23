package review

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MinCommentLength = 3
	MaxCommentLength = 2000
)

// Review is a guest's rating of a listing they stayed at.
type Review struct {
	id        uuid.UUID
	listingID uuid.UUID
	authorID  uuid.UUID
	rating    int
	comment   string
	createdAt time.Time
	updatedAt time.Time
}

// NewReview creates a new review. Eligibility (a completed stay, one review
// per listing) is checked by the caller.
func NewReview(listingID, authorID uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, apperror.NewValidationError("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if n := utf8.RuneCountInString(comment); n < MinCommentLength || n > MaxCommentLength {
		return nil, apperror.NewValidationError("comment must be between 3 and 2000 characters")
	}
	if listingID == uuid.Nil || authorID == uuid.Nil {
		return nil, apperror.NewValidationError("listingId, rating and comment are required")
	}

	now := time.Now().UTC()
	return &Review{
		id:        uuid.New(),
		listingID: listingID,
		authorID:  authorID,
		rating:    rating,
		comment:   comment,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Review from persistence.
func Reconstruct(id, listingID, authorID uuid.UUID, rating int, comment string, createdAt, updatedAt time.Time) *Review {
	return &Review{
		id:        id,
		listingID: listingID,
		authorID:  authorID,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID { return r.id }
func (r *Review) ListingID() uuid.UUID { return r.listingID }
func (r *Review) AuthorID() uuid.UUID { return r.authorID }
func (r *Review) Rating() int { return r.rating }
func (r *Review) Comment() string { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) UpdatedAt() time.Time { return r.updatedAt }

// AverageRating returns the mean rating, or nil for no reviews.
func AverageRating(reviews []*Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.rating
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg
}
