package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/model"
)

// StatusUpdate is the message published to interested consumers (kitchen
// displays, the dashboard) after a transition commits.
type StatusUpdate struct {
	OrderID     int64             `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	BusinessID  int64             `json:"business_id"`
	OldStatus   model.OrderStatus `json:"old_status"`
	NewStatus   model.OrderStatus `json:"new_status"`
	ChangedAt   time.Time         `json:"changed_at"`
}

type IStatusPublisher interface {
	PublishStatusUpdate(ctx context.Context, upd StatusUpdate) error
}

// statusRank orders the forward path. Cancellation sits outside the rank:
// it is reachable from any non-terminal status.
var statusRank = map[model.OrderStatus]int{
	model.OrderStatusPending:   0,
	model.OrderStatusConfirmed: 1,
	model.OrderStatusPreparing: 2,
	model.OrderStatusReady:     3,
	model.OrderStatusCompleted: 4,
}

const transitionAttempts = 3

var errTransitionRaced = errors.New("transition raced")

// OrderLifecycle drives status changes and the side effects of completion.
// The status flip is a compare-and-set, so when two staff devices race,
// exactly one transition wins and the loser reconciles against the fresh
// state.
type OrderLifecycle struct {
	store      IStore
	ledger     *LoyaltyLedger
	aggregates *CustomerAggregateUpdater
	settings   *LoyaltySettingsResolver
	publisher  IStatusPublisher
	logger     *zap.SugaredLogger
}

func NewOrderLifecycle(store IStore, ledger *LoyaltyLedger, aggregates *CustomerAggregateUpdater, settings *LoyaltySettingsResolver, publisher IStatusPublisher, logger *zap.SugaredLogger) *OrderLifecycle {
	return &OrderLifecycle{
		store:      store,
		ledger:     ledger,
		aggregates: aggregates,
		settings:   settings,
		publisher:  publisher,
		logger:     logger,
	}
}

// Transition moves an order to target. Repeating the order's current
// status is a no-op success. Completion awards loyalty points and bumps
// customer aggregates in the same transaction as the status flip.
func (l *OrderLifecycle) Transition(ctx context.Context, businessID, orderID int64, target model.OrderStatus, reason *string) (model.Order, error) {
	if !target.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		order, err := l.store.GetOrder(ctx, businessID, orderID)
		if err != nil {
			return model.Order{}, err
		}

		if order.Status == target {
			return order, nil
		}
		if err = checkTransition(order.Status, target); err != nil {
			return model.Order{}, err
		}

		cfg := model.LoyaltySettings{}
		if target == model.OrderStatusCompleted && order.CustomerID != nil {
			cfg, err = l.settings.Resolve(ctx, businessID)
			if err != nil {
				return model.Order{}, err
			}
		}

		now := time.Now().UTC()
		err = l.store.WithinTx(ctx, func(st IStore) error {
			won, err := st.AdvanceOrderStatus(ctx, order.ID, order.Status, target, now, reason)
			if err != nil {
				return err
			}
			if !won {
				return errTransitionRaced
			}
			if target != model.OrderStatusCompleted || order.CustomerID == nil {
				return nil
			}

			res, err := l.ledger.Award(ctx, st, order, cfg)
			if err != nil {
				return err
			}
			if res.Awarded {
				l.logger.Infof("order %s completed, %d points awarded", order.OrderNumber, res.Points)
			} else {
				l.logger.Infof("order %s completed, no points: %s", order.OrderNumber, res.Skipped)
			}

			return l.aggregates.Apply(ctx, st, businessID, *order.CustomerID, order.TotalAmount, now)
		})
		if errors.Is(err, errTransitionRaced) {
			continue
		}
		if err != nil {
			return model.Order{}, err
		}

		l.publish(ctx, order, target, now)
		return l.store.GetOrder(ctx, businessID, orderID)
	}

	// Every attempt lost the flip to someone else; the last re-read decides
	// whether the order already sits in target.
	order, err := l.store.GetOrder(ctx, businessID, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Status == target {
		return order, nil
	}
	return model.Order{}, fmt.Errorf("%w: order %d kept changing", ErrConflict, orderID)
}

func checkTransition(current, target model.OrderStatus) error {
	if current.Terminal() {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, current)
	}
	if target == model.OrderStatusCancelled {
		return nil
	}
	if statusRank[target] < statusRank[current] {
		return fmt.Errorf("%w: cannot move from %s back to %s", ErrInvalidTransition, current, target)
	}
	return nil
}

// publish emits the transition this call committed. The event is built
// from the pre-flip snapshot and the target, never from a re-read, so a
// racing later transition cannot leak into it.
func (l *OrderLifecycle) publish(ctx context.Context, order model.Order, target model.OrderStatus, at time.Time) {
	if l.publisher == nil {
		return
	}
	upd := StatusUpdate{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BusinessID:  order.BusinessID,
		OldStatus:   order.Status,
		NewStatus:   target,
		ChangedAt:   at,
	}
	if err := l.publisher.PublishStatusUpdate(ctx, upd); err != nil {
		l.logger.Errorf("status update for order %d not published: %s", order.ID, err)
	}
}
