package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	listingDomain "github.com/havenstay/service-rental/internal/domain/listing"
	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// ListingModel is the GORM model for the listings table.
type ListingModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	HostID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title         string         `gorm:"size:200;not null"`
	Description   string         `gorm:"type:text;not null"`
	PricePerNight float64        `gorm:"not null;index"`
	Location      string         `gorm:"size:200;not null"`
	MaxGuests     int            `gorm:"not null"`
	Images        datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"not null;index"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

func (ListingModel) TableName() string { return "listings" }

// GormListingRepository implements ListingRepository using GORM.
type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listingDomain.Listing, error) {
	var model ListingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Listing", id.String())
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return toListingDomain(&model)
}

// FindByIDs loads the listings that still exist among ids.
func (r *GormListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*listingDomain.Listing, error) {
	out := make(map[uuid.UUID]*listingDomain.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var models []ListingModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	for i := range models {
		l, err := toListingDomain(&models[i])
		if err != nil {
			return nil, err
		}
		out[l.ID()] = l
	}
	return out, nil
}

// Search applies the filter and returns one page, newest first, plus the
// total match count.
func (r *GormListingRepository) Search(ctx context.Context, f listingDomain.SearchFilter) ([]*listingDomain.Listing, int64, error) {
	q := r.db.WithContext(ctx).Model(&ListingModel{})
	if f.Query != "" {
		like := containsPattern(f.Query)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if f.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, containsPattern(f.Location))
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_night >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_night <= ?", *f.MaxPrice)
	}
	if f.MinGuests > 0 {
		q = q.Where("max_guests >= ?", f.MinGuests)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	var models []ListingModel
	if err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search listings: %w", err)
	}

	listings := make([]*listingDomain.Listing, len(models))
	for i := range models {
		l, err := toListingDomain(&models[i])
		if err != nil {
			return nil, 0, err
		}
		listings[i] = l
	}
	return listings, total, nil
}

func (r *GormListingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ListingModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

func (r *GormListingRepository) Save(ctx context.Context, l *listingDomain.Listing) error {
	model, err := toListingModel(l)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

func (r *GormListingRepository) Update(ctx context.Context, l *listingDomain.Listing) error {
	model, err := toListingModel(l)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ListingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"title":           model.Title,
			"description":     model.Description,
			"price_per_night": model.PricePerNight,
			"location":        model.Location,
			"max_guests":      model.MaxGuests,
			"images":          model.Images,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Listing", model.ID.String())
	}
	return nil
}

func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ListingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete listing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Listing", id.String())
	}
	return nil
}

// DeleteByTitles removes the host's listings whose title is in titles and returns
// how many were deleted. Used by the seeder to keep reruns idempotent.
func (r *GormListingRepository) DeleteByTitles(ctx context.Context, hostID uuid.UUID, titles []string) (int64, error) {
	if len(titles) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("host_id = ? AND title IN ?", hostID, titles).Delete(&ListingModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete listings by title: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern matching s as a
// literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func toListingModel(l *listingDomain.Listing) (*ListingModel, error) {
	images, err := json.Marshal(l.Images())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}
	return &ListingModel{
		ID:            l.ID(),
		HostID:        l.HostID(),
		Title:         l.Title(),
		Description:   l.Description(),
		PricePerNight: l.PricePerNight(),
		Location:      l.Location(),
		MaxGuests:     l.MaxGuests(),
		Images:        datatypes.JSON(images),
		CreatedAt:     l.CreatedAt(),
		UpdatedAt:     l.UpdatedAt(),
	}, nil
}

func toListingDomain(m *ListingModel) (*listingDomain.Listing, error) {
	images := []string{}
	if len(m.Images) > 0 {
		if err := json.Unmarshal(m.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to unmarshal images: %w", err)
		}
	}
	return listingDomain.Reconstruct(
		m.ID, m.HostID,
		m.Title, m.Description,
		m.PricePerNight,
		m.Location,
		m.MaxGuests,
		images,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	), nil
}
