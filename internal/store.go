package internal

import (
	"context"
	"time"

	"github.com/plateful/plateful/internal/model"
)

// IStore is the persistence contract shared by the Postgres store and the
// in-memory store used in tests.
//
// WithinTx runs fn against a transactional view of the store. Everything fn
// does through the passed store commits or rolls back as one unit. The
// completion flow relies on this: status flip, points award and customer
// aggregates either all land or none do.
type IStore interface {
	WithinTx(ctx context.Context, fn func(IStore) error) error

	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, businessID, orderID int64) (model.Order, error)
	// AdvanceOrderStatus flips the status only if the order is still in
	// from, stamping the matching timestamp column. It reports whether
	// this caller won the flip.
	AdvanceOrderStatus(ctx context.Context, orderID int64, from, to model.OrderStatus, at time.Time, reason *string) (bool, error)
	UpdateOrderPayment(ctx context.Context, businessID, orderID int64, status model.PaymentStatus) error
	GetOrderStatusHistory(ctx context.Context, orderID int64) ([]model.StatusChange, error)
	// NextOrderSequence atomically increments and returns the per-business
	// counter for the given calendar day.
	NextOrderSequence(ctx context.Context, businessID int64, date time.Time) (int, error)

	GetLoyaltySettings(ctx context.Context, businessID int64) (model.LoyaltySettings, error)
	SaveLoyaltySettings(ctx context.Context, settings *model.LoyaltySettings) error
	EnsureLoyaltyAccount(ctx context.Context, businessID, customerID int64) (model.LoyaltyAccount, error)
	GetLoyaltyAccountForUpdate(ctx context.Context, accountID int64) (model.LoyaltyAccount, error)
	SaveLoyaltyAccount(ctx context.Context, account *model.LoyaltyAccount) error
	AppendLoyaltyTransaction(ctx context.Context, txn *model.LoyaltyTransaction) error
	// AppendEarnedTransaction inserts an earn entry unless one already
	// exists for the same account and order. It reports whether the row
	// was written.
	AppendEarnedTransaction(ctx context.Context, txn *model.LoyaltyTransaction) (bool, error)
	GetEarnedTransactionForOrder(ctx context.Context, accountID, orderID int64) (model.LoyaltyTransaction, error)
	GetLoyaltyTransactions(ctx context.Context, accountID int64, limit int) ([]model.LoyaltyTransaction, error)

	GetCustomer(ctx context.Context, businessID, customerID int64) (model.Customer, error)
	SaveCustomerStats(ctx context.Context, customer *model.Customer) error
}
