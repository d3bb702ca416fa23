package booking

import (
	"fmt"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// PricingStrategy defines the interface for calculating booking prices.
type PricingStrategy interface {
	// Calculate returns the total price of the stay.
	Calculate(params PricingParams) (float64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	Nights        int
	PricePerNight float64
}

// NightlyPricingStrategy charges the listing's nightly rate for every night
// of the stay, with no fees or discounts.
type NightlyPricingStrategy struct{}

var _ PricingStrategy = (*NightlyPricingStrategy)(nil)

// NewNightlyPricingStrategy creates a new NightlyPricingStrategy.
func NewNightlyPricingStrategy() *NightlyPricingStrategy {
	return &NightlyPricingStrategy{}
}

// Calculate returns nights * pricePerNight.
func (s *NightlyPricingStrategy) Calculate(params PricingParams) (float64, error) {
	if params.Nights < 1 {
		return 0, apperror.NewValidationError("Stay must be at least 1 night")
	}
	if params.PricePerNight <= 0 {
		return 0, fmt.Errorf("nightly price must be positive, got %v", params.PricePerNight)
	}
	return float64(params.Nights) * params.PricePerNight, nil
}
