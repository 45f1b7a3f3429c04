package internal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/model"
	"github.com/plateful/plateful/internal/money"
)

// Award outcomes for orders that complete without earning points.
const (
	AwardSkippedGuest        = "guest_order"
	AwardSkippedDisabled     = "loyalty_disabled"
	AwardSkippedBelowMinimum = "below_minimum_spend"
	AwardSkippedZeroPoints   = "zero_points"
	AwardSkippedDuplicate    = "already_awarded"
)

// AwardResult reports what an award attempt did. Skipped awards are not
// errors: the order still completes, the ledger just stays untouched.
type AwardResult struct {
	Awarded     bool
	Skipped     string
	Points      int64
	Account     model.LoyaltyAccount
	Transaction model.LoyaltyTransaction
}

// LoyaltyLedger owns every mutation of points balances. Balances are never
// written directly by anyone else, which keeps the transaction log and the
// account in agreement.
type LoyaltyLedger struct {
	store    IStore
	settings *LoyaltySettingsResolver
	logger   *zap.SugaredLogger
}

func NewLoyaltyLedger(store IStore, settings *LoyaltySettingsResolver, logger *zap.SugaredLogger) *LoyaltyLedger {
	return &LoyaltyLedger{store: store, settings: settings, logger: logger}
}

// Award credits points for a completed order. It runs on the store view st
// supplied by the caller so the credit commits together with the status
// flip. Awarding twice for the same order is a no-op: the earn log carries
// one entry per order, enforced by the store.
func (l *LoyaltyLedger) Award(ctx context.Context, st IStore, order model.Order, settings model.LoyaltySettings) (AwardResult, error) {
	if order.CustomerID == nil {
		return AwardResult{Skipped: AwardSkippedGuest}, nil
	}
	if !settings.IsEnabled {
		return AwardResult{Skipped: AwardSkippedDisabled}, nil
	}
	if settings.MinimumSpend != nil && order.TotalAmount.LessThan(*settings.MinimumSpend) {
		return AwardResult{Skipped: AwardSkippedBelowMinimum}, nil
	}

	points := money.Points(order.TotalAmount, settings.PointsPerDollar)
	if points <= 0 {
		return AwardResult{Skipped: AwardSkippedZeroPoints}, nil
	}

	acc, err := st.EnsureLoyaltyAccount(ctx, order.BusinessID, *order.CustomerID)
	if err != nil {
		return AwardResult{}, err
	}
	acc, err = st.GetLoyaltyAccountForUpdate(ctx, acc.ID)
	if err != nil {
		return AwardResult{}, err
	}

	now := time.Now().UTC()
	orderID := order.ID
	txn := model.LoyaltyTransaction{
		AccountID:    acc.ID,
		Type:         model.LoyaltyEarned,
		PointsDelta:  points,
		BalanceAfter: acc.PointsBalance + points,
		OrderID:      &orderID,
		Description:  fmt.Sprintf("earned on order %s", order.OrderNumber),
		CreatedAt:    now,
	}
	inserted, err := st.AppendEarnedTransaction(ctx, &txn)
	if err != nil {
		return AwardResult{}, err
	}
	if !inserted {
		l.logger.Infof("order %d already earned points, skipping award", order.ID)
		existing, err := st.GetEarnedTransactionForOrder(ctx, acc.ID, order.ID)
		if err != nil {
			return AwardResult{}, err
		}
		return AwardResult{Skipped: AwardSkippedDuplicate, Points: existing.PointsDelta, Account: acc, Transaction: existing}, nil
	}

	acc.PointsBalance += points
	acc.LifetimeEarned += points
	acc.Tier = TierFor(acc.LifetimeEarned, settings.TierThresholds)
	acc.UpdatedAt = now
	if err = st.SaveLoyaltyAccount(ctx, &acc); err != nil {
		return AwardResult{}, err
	}

	return AwardResult{Awarded: true, Points: points, Account: acc, Transaction: txn}, nil
}

// Redeem spends points against the balance. The account row is locked for
// the duration, so two concurrent redemptions can never both pass the
// balance check.
func (l *LoyaltyLedger) Redeem(ctx context.Context, businessID, customerID, points int64, orderID *int64) (model.LoyaltyAccount, error) {
	if points <= 0 {
		return model.LoyaltyAccount{}, fmt.Errorf("%w: points must be positive", ErrValidation)
	}

	settings, err := l.settings.Resolve(ctx, businessID)
	if err != nil {
		return model.LoyaltyAccount{}, err
	}

	var updated model.LoyaltyAccount
	err = l.store.WithinTx(ctx, func(st IStore) error {
		if _, err := st.GetCustomer(ctx, businessID, customerID); err != nil {
			return err
		}
		acc, err := st.EnsureLoyaltyAccount(ctx, businessID, customerID)
		if err != nil {
			return err
		}
		acc, err = st.GetLoyaltyAccountForUpdate(ctx, acc.ID)
		if err != nil {
			return err
		}
		if points > acc.PointsBalance {
			return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientPoints, acc.PointsBalance, points)
		}

		now := time.Now().UTC()
		txn := model.LoyaltyTransaction{
			AccountID:    acc.ID,
			Type:         model.LoyaltyRedeemed,
			PointsDelta:  -points,
			BalanceAfter: acc.PointsBalance - points,
			OrderID:      orderID,
			Description:  "points redemption",
			CreatedAt:    now,
		}
		if err = st.AppendLoyaltyTransaction(ctx, &txn); err != nil {
			return err
		}

		acc.PointsBalance -= points
		acc.LifetimeRedeemed += points
		acc.Tier = TierFor(acc.LifetimeEarned, settings.TierThresholds)
		acc.UpdatedAt = now
		if err = st.SaveLoyaltyAccount(ctx, &acc); err != nil {
			return err
		}
		updated = acc
		return nil
	})
	if err != nil {
		return model.LoyaltyAccount{}, err
	}
	return updated, nil
}

// Adjust applies a signed manual correction. Positive deltas count toward
// lifetime earnings; negative deltas must not drive the balance below zero.
func (l *LoyaltyLedger) Adjust(ctx context.Context, businessID, customerID, delta int64, description string) (model.LoyaltyAccount, error) {
	if delta == 0 {
		return model.LoyaltyAccount{}, fmt.Errorf("%w: adjustment must not be zero", ErrValidation)
	}
	if description == "" {
		return model.LoyaltyAccount{}, fmt.Errorf("%w: adjustment needs a description", ErrValidation)
	}

	settings, err := l.settings.Resolve(ctx, businessID)
	if err != nil {
		return model.LoyaltyAccount{}, err
	}

	var updated model.LoyaltyAccount
	err = l.store.WithinTx(ctx, func(st IStore) error {
		if _, err := st.GetCustomer(ctx, businessID, customerID); err != nil {
			return err
		}
		acc, err := st.EnsureLoyaltyAccount(ctx, businessID, customerID)
		if err != nil {
			return err
		}
		acc, err = st.GetLoyaltyAccountForUpdate(ctx, acc.ID)
		if err != nil {
			return err
		}
		if delta < 0 && acc.PointsBalance+delta < 0 {
			return fmt.Errorf("%w: balance %d, adjustment %d", ErrInsufficientPoints, acc.PointsBalance, delta)
		}

		now := time.Now().UTC()
		txn := model.LoyaltyTransaction{
			AccountID:    acc.ID,
			Type:         model.LoyaltyAdjusted,
			PointsDelta:  delta,
			BalanceAfter: acc.PointsBalance + delta,
			Description:  description,
			CreatedAt:    now,
		}
		if err = st.AppendLoyaltyTransaction(ctx, &txn); err != nil {
			return err
		}

		acc.PointsBalance += delta
		if delta > 0 {
			acc.LifetimeEarned += delta
		}
		acc.Tier = TierFor(acc.LifetimeEarned, settings.TierThresholds)
		acc.UpdatedAt = now
		if err = st.SaveLoyaltyAccount(ctx, &acc); err != nil {
			return err
		}
		updated = acc
		return nil
	})
	if err != nil {
		return model.LoyaltyAccount{}, err
	}
	return updated, nil
}

// TierFor derives the tier from lifetime earnings. Tiers only ever move up
// because lifetime earnings only ever grow.
func TierFor(lifetimeEarned int64, t model.TierThresholds) model.Tier {
	tier := model.TierBronze
	if t.Silver != nil && lifetimeEarned >= *t.Silver {
		tier = model.TierSilver
	}
	if t.Gold != nil && lifetimeEarned >= *t.Gold {
		tier = model.TierGold
	}
	if t.Platinum != nil && lifetimeEarned >= *t.Platinum {
		tier = model.TierPlatinum
	}
	return tier
}
