package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Save inserts a review. A second review by the same author on the same
	// listing fails with an InvalidInput error.
	Save(ctx context.Context, review *Review) error
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*Review, error)
	ExistsByAuthor(ctx context.Context, listingID, authorID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}
