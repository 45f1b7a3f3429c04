package internal

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/money"
)

// CustomerAggregateUpdater maintains the visit counters shown on customer
// profiles. It runs on the completion transaction, so counters move
// exactly once per completed order.
type CustomerAggregateUpdater struct {
	logger *zap.SugaredLogger
}

func NewCustomerAggregateUpdater(logger *zap.SugaredLogger) *CustomerAggregateUpdater {
	return &CustomerAggregateUpdater{logger: logger}
}

// Apply folds one completed order into the customer's lifetime stats. An
// unknown customer is logged and ignored rather than failing the
// completion: the platform may have purged the profile.
func (u *CustomerAggregateUpdater) Apply(ctx context.Context, st IStore, businessID, customerID int64, total decimal.Decimal, at time.Time) error {
	c, err := st.GetCustomer(ctx, businessID, customerID)
	if errors.Is(err, ErrNotFound) {
		u.logger.Warnf("customer %d not found, visit stats not updated", customerID)
		return nil
	}
	if err != nil {
		return err
	}

	visitAt := at
	c.TotalVisits++
	c.TotalSpent = money.Round(c.TotalSpent.Add(total))
	c.AverageSpend = money.AverageSpend(c.TotalSpent, c.TotalVisits)
	c.LastVisitAt = &visitAt
	c.UpdatedAt = at

	return st.SaveCustomerStats(ctx, &c)
}
