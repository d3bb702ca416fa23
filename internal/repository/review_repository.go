package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	reviewDomain "github.com/havenstay/service-rental/internal/domain/review"
	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// ErrAlreadyReviewed is returned when an author reviews a listing twice.
const ErrAlreadyReviewed = "You have already reviewed this listing."

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_listing_author,priority:1"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_listing_author,priority:2"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ReviewModel) TableName() string { return "reviews" }

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	model := toReviewModel(rv)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.NewValidationError(ErrAlreadyReviewed)
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

func (r *GormReviewRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*reviewDomain.Review, error) {
	var models []ReviewModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	reviews := make([]*reviewDomain.Review, len(models))
	for i := range models {
		reviews[i] = toReviewDomain(&models[i])
	}
	return reviews, nil
}

func (r *GormReviewRepository) ExistsByAuthor(ctx context.Context, listingID, authorID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("listing_id = ? AND author_id = ?", listingID, authorID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}
	return n > 0, nil
}

func (r *GormReviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}

func toReviewModel(rv *reviewDomain.Review) ReviewModel {
	return ReviewModel{
		ID:        rv.ID(),
		ListingID: rv.ListingID(),
		AuthorID:  rv.AuthorID(),
		Rating:    rv.Rating(),
		Comment:   rv.Comment(),
		CreatedAt: rv.CreatedAt(),
		UpdatedAt: rv.UpdatedAt(),
	}
}

func toReviewDomain(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(m.ID, m.ListingID, m.AuthorID, m.Rating, m.Comment, m.CreatedAt.UTC(), m.UpdatedAt.UTC())
}
