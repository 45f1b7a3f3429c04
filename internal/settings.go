package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plateful/plateful/internal/model"
)

// LoyaltySettingsResolver loads per-business loyalty configuration and
// falls back to the disabled defaults for businesses that never saved any.
type LoyaltySettingsResolver struct {
	store IStore
}

func NewLoyaltySettingsResolver(store IStore) *LoyaltySettingsResolver {
	return &LoyaltySettingsResolver{store: store}
}

func (r *LoyaltySettingsResolver) Resolve(ctx context.Context, businessID int64) (model.LoyaltySettings, error) {
	s, err := r.store.GetLoyaltySettings(ctx, businessID)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultLoyaltySettings(businessID), nil
	}
	if err != nil {
		return model.LoyaltySettings{}, err
	}
	return s, nil
}

func (r *LoyaltySettingsResolver) Update(ctx context.Context, businessID int64, in model.LoyaltySettingsInput) (model.LoyaltySettings, error) {
	s := model.LoyaltySettings{
		BusinessID:      businessID,
		IsEnabled:       in.IsEnabled,
		PointsPerDollar: in.PointsPerDollar,
		MinimumSpend:    in.MinimumSpend,
		TierThresholds:  in.TierThresholds,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := ValidateLoyaltySettings(s); err != nil {
		return model.LoyaltySettings{}, err
	}
	if err := r.store.SaveLoyaltySettings(ctx, &s); err != nil {
		return model.LoyaltySettings{}, err
	}
	return s, nil
}

// ValidateLoyaltySettings rejects configurations that would corrupt the
// ledger: a non-positive earn rate, a negative minimum spend, or tier
// thresholds that are not strictly increasing.
func ValidateLoyaltySettings(s model.LoyaltySettings) error {
	if s.PointsPerDollar < 1 {
		return fmt.Errorf("%w: pointsPerDollar must be at least 1", ErrValidation)
	}
	if s.MinimumSpend != nil && s.MinimumSpend.IsNegative() {
		return fmt.Errorf("%w: minimumSpend must not be negative", ErrValidation)
	}

	prev := int64(0)
	for _, th := range []struct {
		name  string
		value *int64
	}{
		{"silver", s.TierThresholds.Silver},
		{"gold", s.TierThresholds.Gold},
		{"platinum", s.TierThresholds.Platinum},
	} {
		if th.value == nil {
			continue
		}
		if *th.value <= prev {
			return fmt.Errorf("%w: %s threshold must exceed the previous tier", ErrValidation, th.name)
		}
		prev = *th.value
	}
	return nil
}
