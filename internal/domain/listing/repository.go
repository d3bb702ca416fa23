package listing

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a listing search. Zero values disable a filter.
type SearchFilter struct {
	Query     string
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
	MinGuests int
	Page      int
	Limit     int
}

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Listing, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Listing, int64, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}
