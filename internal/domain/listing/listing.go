package listing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// Listing is the aggregate root for a bookable property.
type Listing struct {
	id            uuid.UUID
	hostID        uuid.UUID
	title         string
	description   string
	pricePerNight float64
	location      string
	maxGuests     int
	images        []string
	createdAt     time.Time
	updatedAt     time.Time
}

// Details are the host-editable fields of a listing.
type Details struct {
	Title         string
	Description   string
	PricePerNight float64
	Location      string
	MaxGuests     int
	Images        []string
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title         *string
	Description   *string
	PricePerNight *float64
	Location      *string
	MaxGuests     *int
	Images        []string
	SetImages     bool
}

// NewListing creates a listing owned by hostID.
func NewListing(hostID uuid.UUID, d Details) (*Listing, error) {
	if hostID == uuid.Nil {
		return nil, apperror.NewValidationError("host is required")
	}
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	if d.Title == "" || d.Description == "" || d.Location == "" {
		return nil, apperror.NewValidationError("title, description, pricePerNight, location and maxGuests are required")
	}
	if err := validateNumbers(d.PricePerNight, d.MaxGuests); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Listing{
		id:            uuid.New(),
		hostID:        hostID,
		title:         d.Title,
		description:   d.Description,
		pricePerNight: d.PricePerNight,
		location:      d.Location,
		maxGuests:     d.MaxGuests,
		images:        CleanImages(d.Images),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Listing from persistence data (no validation).
func Reconstruct(
	id, hostID uuid.UUID,
	title, description string,
	pricePerNight float64,
	location string,
	maxGuests int,
	images []string,
	createdAt, updatedAt time.Time,
) *Listing {
	return &Listing{
		id:            id,
		hostID:        hostID,
		title:         title,
		description:   description,
		pricePerNight: pricePerNight,
		location:      location,
		maxGuests:     maxGuests,
		images:        images,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (l *Listing) ID() uuid.UUID { return l.id }
func (l *Listing) HostID() uuid.UUID { return l.hostID }
func (l *Listing) Title() string { return l.title }
func (l *Listing) Description() string { return l.description }
func (l *Listing) PricePerNight() float64 { return l.pricePerNight }
func (l *Listing) Location() string { return l.location }
func (l *Listing) MaxGuests() int { return l.maxGuests }
func (l *Listing) Images() []string {
	out := make([]string, len(l.images))
	copy(out, l.images)
	return out
}
func (l *Listing) CreatedAt() time.Time { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time { return l.updatedAt }

// --- Behavior ---

// IsHostedBy checks if the listing belongs to the given host.
func (l *Listing) IsHostedBy(hostID uuid.UUID) bool {
	return l.hostID == hostID
}

// Accommodates reports whether a party of the given size fits.
func (l *Listing) Accommodates(guests int) bool {
	return guests >= 1 && guests <= l.maxGuests
}

// Apply validates and applies a partial update. Nothing changes on error.
func (l *Listing) Apply(p Patch) error {
	next := *l
	if p.Title != nil {
		next.title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.description = strings.TrimSpace(*p.Description)
	}
	if p.Location != nil {
		next.location = strings.TrimSpace(*p.Location)
	}
	if next.title == "" || next.description == "" || next.location == "" {
		return apperror.NewValidationError("title, description and location cannot be empty")
	}
	if p.PricePerNight != nil {
		next.pricePerNight = *p.PricePerNight
	}
	if p.MaxGuests != nil {
		next.maxGuests = *p.MaxGuests
	}
	if err := validateNumbers(next.pricePerNight, next.maxGuests); err != nil {
		return err
	}
	if p.SetImages {
		next.images = CleanImages(p.Images)
	}

	next.updatedAt = time.Now().UTC()
	*l = next
	return nil
}

// CleanImages drops blank entries and keeps order.
func CleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if s := strings.TrimSpace(img); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validateNumbers(price float64, maxGuests int) error {
	if price <= 0 || maxGuests <= 0 {
		return apperror.NewValidationError("pricePerNight and maxGuests must be positive")
	}
	return nil
}
