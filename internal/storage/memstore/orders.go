package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/plateful/plateful/internal"
	"github.com/plateful/plateful/internal/model"
)

func (m *Memstore) CreateOrder(ctx context.Context, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.createOrder(order)
}

func (t *txView) CreateOrder(ctx context.Context, order *model.Order) error {
	return t.m.st.createOrder(order)
}

func (m *Memstore) GetOrder(ctx context.Context, businessID, orderID int64) (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getOrder(businessID, orderID)
}

func (t *txView) GetOrder(ctx context.Context, businessID, orderID int64) (model.Order, error) {
	return t.m.st.getOrder(businessID, orderID)
}

func (m *Memstore) AdvanceOrderStatus(ctx context.Context, orderID int64, from, to model.OrderStatus, at time.Time, reason *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.advanceOrderStatus(orderID, from, to, at, reason)
}

func (t *txView) AdvanceOrderStatus(ctx context.Context, orderID int64, from, to model.OrderStatus, at time.Time, reason *string) (bool, error) {
	return t.m.st.advanceOrderStatus(orderID, from, to, at, reason)
}

func (m *Memstore) UpdateOrderPayment(ctx context.Context, businessID, orderID int64, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.updateOrderPayment(businessID, orderID, status)
}

func (t *txView) UpdateOrderPayment(ctx context.Context, businessID, orderID int64, status model.PaymentStatus) error {
	return t.m.st.updateOrderPayment(businessID, orderID, status)
}

func (m *Memstore) GetOrderStatusHistory(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.orderStatusHistory(orderID), nil
}

func (t *txView) GetOrderStatusHistory(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	return t.m.st.orderStatusHistory(orderID), nil
}

func (m *Memstore) NextOrderSequence(ctx context.Context, businessID int64, date time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.nextOrderSequence(businessID, date), nil
}

func (t *txView) NextOrderSequence(ctx context.Context, businessID int64, date time.Time) (int, error) {
	return t.m.st.nextOrderSequence(businessID, date), nil
}

func (s *state) createOrder(order *model.Order) error {
	for _, o := range s.orders {
		if o.BusinessID == order.BusinessID && o.OrderNumber == order.OrderNumber {
			return fmt.Errorf("%w: order number %s", internal.ErrConflict, order.OrderNumber)
		}
	}

	s.orderSeq++
	order.ID = s.orderSeq
	for i := range order.Items {
		s.itemSeq++
		order.Items[i].ID = s.itemSeq
		order.Items[i].OrderID = order.ID
	}

	stored := copyOrder(order)
	s.orders[order.ID] = &stored
	s.appendStatusLog(order.ID, order.Status, nil, order.CreatedAt)
	return nil
}

func (s *state) getOrder(businessID, orderID int64) (model.Order, error) {
	o, ok := s.orders[orderID]
	if !ok || o.BusinessID != businessID {
		return model.Order{}, internal.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *state) advanceOrderStatus(orderID int64, from, to model.OrderStatus, at time.Time, reason *string) (bool, error) {
	o, ok := s.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}

	o.Status = to
	o.UpdatedAt = at
	stamp := at
	switch to {
	case model.OrderStatusConfirmed:
		o.ConfirmedAt = &stamp
	case model.OrderStatusPreparing:
		o.PreparingAt = &stamp
	case model.OrderStatusReady:
		o.ReadyAt = &stamp
	case model.OrderStatusCompleted:
		o.CompletedAt = &stamp
	case model.OrderStatusCancelled:
		o.CancelledAt = &stamp
		if reason != nil {
			r := *reason
			o.CancellationReason = &r
		}
	}

	s.appendStatusLog(orderID, to, reason, at)
	return true, nil
}

func (s *state) updateOrderPayment(businessID, orderID int64, status model.PaymentStatus) error {
	o, ok := s.orders[orderID]
	if !ok || o.BusinessID != businessID {
		return internal.ErrNotFound
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *state) orderStatusHistory(orderID int64) []model.StatusChange {
	var history []model.StatusChange
	for _, sc := range s.statusLog {
		if sc.OrderID == orderID {
			history = append(history, sc)
		}
	}
	return history
}

func (s *state) nextOrderSequence(businessID int64, date time.Time) int {
	key := counterKey(businessID, date)
	s.counters[key]++
	return s.counters[key]
}

func (s *state) appendStatusLog(orderID int64, status model.OrderStatus, reason *string, at time.Time) {
	s.logSeq++
	entry := model.StatusChange{ID: s.logSeq, OrderID: orderID, Status: status, ChangedAt: at}
	if reason != nil {
		r := *reason
		entry.Reason = &r
	}
	s.statusLog = append(s.statusLog, entry)
}
