package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plateful/plateful/internal"
	"github.com/plateful/plateful/internal/model"
)

const (
	orderFields = `id, business_id, customer_id, order_number, order_type, status,
		subtotal, tax_amount, tip_amount, delivery_fee, discount_amount, total_amount, payment_status,
		confirmed_at, preparing_at, ready_at, completed_at, cancelled_at, cancellation_reason,
		created_at, updated_at`
	orderItemFields = "id, order_id, menu_item_id, name, unit_price, quantity, modifiers, modifiers_total, line_total"
	statusLogFields = "id, order_id, status, reason, changed_at"

	counterDateLayout = "2006-01-02"
)

// statusStampColumn maps each reachable target status to the timestamp it
// stamps. Skipped intermediate statuses keep a NULL stamp.
var statusStampColumn = map[model.OrderStatus]string{
	model.OrderStatusConfirmed: "confirmed_at",
	model.OrderStatusPreparing: "preparing_at",
	model.OrderStatusReady:     "ready_at",
	model.OrderStatusCompleted: "completed_at",
	model.OrderStatusCancelled: "cancelled_at",
}

func (s *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return wrapErr(err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `INSERT INTO orders
		(business_id, customer_id, order_number, order_type, status,
		subtotal, tax_amount, tip_amount, delivery_fee, discount_amount, total_amount, payment_status,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		order.BusinessID, order.CustomerID, order.OrderNumber, order.OrderType, order.Status,
		order.Subtotal, order.TaxAmount, order.TipAmount, order.DeliveryFee, order.DiscountAmount,
		order.TotalAmount, order.PaymentStatus, order.CreatedAt, order.UpdatedAt)
	if err = row.Scan(&order.ID); err != nil {
		return wrapErr(err)
	}

	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.ID

		mods, err := json.Marshal(it.Modifiers)
		if err != nil {
			return fmt.Errorf("%w: bad modifiers on item %q", internal.ErrValidation, it.Name)
		}

		row = tx.QueryRow(ctx, `INSERT INTO order_items
			(order_id, menu_item_id, name, unit_price, quantity, modifiers, modifiers_total, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			it.OrderID, it.MenuItemID, it.Name, it.UnitPrice, it.Quantity, string(mods), it.ModifiersTotal, it.LineTotal)
		if err = row.Scan(&it.ID); err != nil {
			return wrapErr(err)
		}
	}

	_, err = tx.Exec(ctx, "INSERT INTO order_status_log (order_id, status, reason, changed_at) VALUES ($1, $2, $3, $4)",
		order.ID, order.Status, nil, order.CreatedAt)
	if err != nil {
		return wrapErr(err)
	}

	return wrapErr(tx.Commit(ctx))
}

func (s *Store) GetOrder(ctx context.Context, businessID, orderID int64) (model.Order, error) {
	var o model.Order
	row := s.db.QueryRow(ctx, "SELECT "+orderFields+" FROM orders WHERE id = $1 AND business_id = $2", orderID, businessID)
	err := row.Scan(&o.ID, &o.BusinessID, &o.CustomerID, &o.OrderNumber, &o.OrderType, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.TipAmount, &o.DeliveryFee, &o.DiscountAmount, &o.TotalAmount, &o.PaymentStatus,
		&o.ConfirmedAt, &o.PreparingAt, &o.ReadyAt, &o.CompletedAt, &o.CancelledAt, &o.CancellationReason,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return model.Order{}, wrapErr(err)
	}

	o.Items, err = s.orderItems(ctx, o.ID)
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (s *Store) orderItems(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := s.db.Query(ctx, "SELECT "+orderItemFields+" FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		var mods []byte
		err = rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.UnitPrice, &it.Quantity,
			&mods, &it.ModifiersTotal, &it.LineTotal)
		if err != nil {
			return nil, wrapErr(err)
		}
		if len(mods) > 0 {
			if err = json.Unmarshal(mods, &it.Modifiers); err != nil {
				return nil, err
			}
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return items, nil
}

func (s *Store) AdvanceOrderStatus(ctx context.Context, orderID int64, from, to model.OrderStatus, at time.Time, reason *string) (bool, error) {
	stamp, ok := statusStampColumn[to]
	if !ok {
		return false, fmt.Errorf("%w: no timestamp column for status %q", internal.ErrValidation, to)
	}

	// Only cancellation keeps its reason on the order row; other reasons
	// live in the status log.
	var cancelReason *string
	if to == model.OrderStatusCancelled {
		cancelReason = reason
	}

	query := fmt.Sprintf(`UPDATE orders
		SET status = $1, %s = $2, updated_at = $2, cancellation_reason = COALESCE($3, cancellation_reason)
		WHERE id = $4 AND status = $5`, stamp)
	tag, err := s.db.Exec(ctx, query, to, at, cancelReason, orderID, from)
	if err != nil {
		return false, wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = s.db.Exec(ctx, "INSERT INTO order_status_log (order_id, status, reason, changed_at) VALUES ($1, $2, $3, $4)",
		orderID, to, reason, at)
	if err != nil {
		return false, wrapErr(err)
	}
	return true, nil
}

func (s *Store) UpdateOrderPayment(ctx context.Context, businessID, orderID int64, status model.PaymentStatus) error {
	tag, err := s.db.Exec(ctx, "UPDATE orders SET payment_status = $1, updated_at = $2 WHERE id = $3 AND business_id = $4",
		status, time.Now().UTC(), orderID, businessID)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (s *Store) GetOrderStatusHistory(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	rows, err := s.db.Query(ctx, "SELECT "+statusLogFields+" FROM order_status_log WHERE order_id = $1 ORDER BY id", orderID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var history []model.StatusChange
	for rows.Next() {
		var sc model.StatusChange
		if err = rows.Scan(&sc.ID, &sc.OrderID, &sc.Status, &sc.Reason, &sc.ChangedAt); err != nil {
			return nil, wrapErr(err)
		}
		history = append(history, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return history, nil
}

// NextOrderSequence is a single upsert, so the read-modify-write happens
// inside Postgres and concurrent requests each get their own number.
func (s *Store) NextOrderSequence(ctx context.Context, businessID int64, date time.Time) (int, error) {
	var seq int
	row := s.db.QueryRow(ctx, `INSERT INTO order_counters (business_id, counter_date, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (business_id, counter_date) DO UPDATE SET seq = order_counters.seq + 1
		RETURNING seq`,
		businessID, date.UTC().Format(counterDateLayout))
	if err := row.Scan(&seq); err != nil {
		return 0, wrapErr(err)
	}
	return seq, nil
}
