package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/model"
	"github.com/plateful/plateful/internal/money"
)

type IService interface {
	CreateOrder(ctx context.Context, businessID int64, in model.CreateOrderInput) (model.Order, error)
	GetOrder(ctx context.Context, businessID, orderID int64) (model.Order, error)
	TransitionOrder(ctx context.Context, businessID, orderID int64, target string, reason *string) (model.Order, error)
	UpdateOrderPayment(ctx context.Context, businessID, orderID int64, status string) (model.Order, error)
	GetOrderHistory(ctx context.Context, businessID, orderID int64) ([]model.StatusChange, error)
	GetLoyaltyAccount(ctx context.Context, businessID, customerID int64) (model.LoyaltyAccountView, error)
	RedeemPoints(ctx context.Context, businessID, customerID int64, in model.RedeemInput) (model.LoyaltyAccount, error)
	AdjustPoints(ctx context.Context, businessID, customerID int64, in model.AdjustInput) (model.LoyaltyAccount, error)
	GetLoyaltySettings(ctx context.Context, businessID int64) (model.LoyaltySettings, error)
	UpdateLoyaltySettings(ctx context.Context, businessID int64, in model.LoyaltySettingsInput) (model.LoyaltySettings, error)
}

const (
	writeAttempts      = 3
	recentTransactions = 20
)

type Service struct {
	store     IStore
	allocator *OrderNumberAllocator
	lifecycle *OrderLifecycle
	ledger    *LoyaltyLedger
	settings  *LoyaltySettingsResolver
	taxRate   decimal.Decimal
	logger    *zap.SugaredLogger
}

func NewService(store IStore, publisher IStatusPublisher, taxRate decimal.Decimal, logger *zap.SugaredLogger) *Service {
	settings := NewLoyaltySettingsResolver(store)
	ledger := NewLoyaltyLedger(store, settings, logger)
	aggregates := NewCustomerAggregateUpdater(logger)

	return &Service{
		store:     store,
		allocator: NewOrderNumberAllocator(store),
		lifecycle: NewOrderLifecycle(store, ledger, aggregates, settings, publisher, logger),
		ledger:    ledger,
		settings:  settings,
		taxRate:   taxRate,
		logger:    logger,
	}
}

// CreateOrder prices the cart server-side, allocates an order number and
// persists the order as pending. A lost race on the number's unique index
// allocates a fresh number and tries again.
func (s *Service) CreateOrder(ctx context.Context, businessID int64, in model.CreateOrderInput) (model.Order, error) {
	if err := validateCreateOrder(in); err != nil {
		return model.Order{}, err
	}
	if in.CustomerID != nil {
		if _, err := s.store.GetCustomer(ctx, businessID, *in.CustomerID); err != nil {
			return model.Order{}, err
		}
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	lineTotals := make([]decimal.Decimal, 0, len(in.Items))
	for _, it := range in.Items {
		modifiers := make([]model.OrderItemModifier, len(it.Modifiers))
		copy(modifiers, it.Modifiers)

		modTotal := decimal.Zero
		for _, m := range modifiers {
			modTotal = modTotal.Add(m.Price)
		}
		lineTotal := money.LineTotal(it.UnitPrice, modTotal, it.Quantity)

		items = append(items, model.OrderItem{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			UnitPrice:      it.UnitPrice,
			Quantity:       it.Quantity,
			Modifiers:      modifiers,
			ModifiersTotal: money.Round(modTotal),
			LineTotal:      lineTotal,
		})
		lineTotals = append(lineTotals, lineTotal)
	}

	subtotal := money.Subtotal(lineTotals...)
	tax := money.Tax(subtotal, s.taxRate)
	total := money.Total(subtotal, tax, in.TipAmount, in.DeliveryFee, in.DiscountAmount)
	if total.IsNegative() {
		return model.Order{}, fmt.Errorf("%w: discount exceeds order total", ErrValidation)
	}

	var created model.Order
	err := s.withRetry(ctx, writeAttempts, func() error {
		now := time.Now().UTC()
		number, err := s.allocator.Allocate(ctx, businessID, now)
		if err != nil {
			return err
		}

		order := model.Order{
			BusinessID:     businessID,
			CustomerID:     in.CustomerID,
			OrderNumber:    number,
			OrderType:      model.OrderType(in.OrderType),
			Status:         model.OrderStatusPending,
			Subtotal:       subtotal,
			TaxAmount:      tax,
			TipAmount:      money.Round(in.TipAmount),
			DeliveryFee:    money.Round(in.DeliveryFee),
			DiscountAmount: money.Round(in.DiscountAmount),
			TotalAmount:    total,
			PaymentStatus:  model.PaymentStatusPending,
			Items:          items,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err = s.store.CreateOrder(ctx, &order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.logger.Infof("order %s created for business %d", created.OrderNumber, businessID)
	return created, nil
}

func (s *Service) GetOrder(ctx context.Context, businessID, orderID int64) (model.Order, error) {
	return s.store.GetOrder(ctx, businessID, orderID)
}

func (s *Service) TransitionOrder(ctx context.Context, businessID, orderID int64, target string, reason *string) (model.Order, error) {
	var order model.Order
	err := s.withRetry(ctx, writeAttempts, func() error {
		var err error
		order, err = s.lifecycle.Transition(ctx, businessID, orderID, model.OrderStatus(target), reason)
		return err
	})
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (s *Service) UpdateOrderPayment(ctx context.Context, businessID, orderID int64, status string) (model.Order, error) {
	ps := model.PaymentStatus(status)
	if !ps.Valid() {
		return model.Order{}, fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}
	err := s.withRetry(ctx, writeAttempts, func() error {
		return s.store.UpdateOrderPayment(ctx, businessID, orderID, ps)
	})
	if err != nil {
		return model.Order{}, err
	}
	return s.store.GetOrder(ctx, businessID, orderID)
}

func (s *Service) GetOrderHistory(ctx context.Context, businessID, orderID int64) ([]model.StatusChange, error) {
	if _, err := s.store.GetOrder(ctx, businessID, orderID); err != nil {
		return nil, err
	}
	return s.store.GetOrderStatusHistory(ctx, orderID)
}

func (s *Service) GetLoyaltyAccount(ctx context.Context, businessID, customerID int64) (model.LoyaltyAccountView, error) {
	if _, err := s.store.GetCustomer(ctx, businessID, customerID); err != nil {
		return model.LoyaltyAccountView{}, err
	}
	acc, err := s.store.EnsureLoyaltyAccount(ctx, businessID, customerID)
	if err != nil {
		return model.LoyaltyAccountView{}, err
	}
	txns, err := s.store.GetLoyaltyTransactions(ctx, acc.ID, recentTransactions)
	if err != nil {
		return model.LoyaltyAccountView{}, err
	}
	return model.LoyaltyAccountView{Account: acc, Transactions: txns}, nil
}

func (s *Service) RedeemPoints(ctx context.Context, businessID, customerID int64, in model.RedeemInput) (model.LoyaltyAccount, error) {
	var acc model.LoyaltyAccount
	err := s.withRetry(ctx, writeAttempts, func() error {
		var err error
		acc, err = s.ledger.Redeem(ctx, businessID, customerID, in.Points, in.OrderID)
		return err
	})
	if err != nil {
		return model.LoyaltyAccount{}, err
	}
	return acc, nil
}

func (s *Service) AdjustPoints(ctx context.Context, businessID, customerID int64, in model.AdjustInput) (model.LoyaltyAccount, error) {
	var acc model.LoyaltyAccount
	err := s.withRetry(ctx, writeAttempts, func() error {
		var err error
		acc, err = s.ledger.Adjust(ctx, businessID, customerID, in.Points, in.Description)
		return err
	})
	if err != nil {
		return model.LoyaltyAccount{}, err
	}
	return acc, nil
}

func (s *Service) GetLoyaltySettings(ctx context.Context, businessID int64) (model.LoyaltySettings, error) {
	return s.settings.Resolve(ctx, businessID)
}

func (s *Service) UpdateLoyaltySettings(ctx context.Context, businessID int64, in model.LoyaltySettingsInput) (model.LoyaltySettings, error) {
	var cfg model.LoyaltySettings
	err := s.withRetry(ctx, writeAttempts, func() error {
		var err error
		cfg, err = s.settings.Update(ctx, businessID, in)
		return err
	})
	if err != nil {
		return model.LoyaltySettings{}, err
	}
	return cfg, nil
}

// withRetry reruns fn on conflict or store hiccups, backing off briefly.
// Every mutation goes through it: they are atomic or idempotent, so a
// rerun is safe. Anything else returns straight away.
func (s *Service) withRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		s.logger.Infof("retrying after: %s", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 25 * time.Millisecond):
		}
	}
	return err
}

func retryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreUnavailable)
}

func validateCreateOrder(in model.CreateOrderInput) error {
	if !model.OrderType(in.OrderType).Valid() {
		return fmt.Errorf("%w: unknown order type %q", ErrValidation, in.OrderType)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}
	if in.CustomerID != nil && *in.CustomerID <= 0 {
		return fmt.Errorf("%w: invalid customer id", ErrValidation)
	}
	for _, amt := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"tipAmount", in.TipAmount},
		{"deliveryFee", in.DeliveryFee},
		{"discountAmount", in.DiscountAmount},
	} {
		if amt.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, amt.name)
		}
	}
	for i, it := range in.Items {
		if it.Name == "" {
			return fmt.Errorf("%w: item %d has no name", ErrValidation, i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: item %q needs a positive quantity", ErrValidation, it.Name)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %q has a negative price", ErrValidation, it.Name)
		}
		for _, m := range it.Modifiers {
			if m.Price.IsNegative() {
				return fmt.Errorf("%w: modifier %q has a negative price", ErrValidation, m.Name)
			}
		}
	}
	return nil
}
