// Package memstore is an in-memory implementation of the persistence
// contract, used by the behavior suites. A single mutex serializes all
// access, and WithinTx gets transactional semantics by snapshotting state
// and restoring it when fn fails.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/plateful/plateful/internal"
	"github.com/plateful/plateful/internal/model"
)

type Memstore struct {
	mu sync.Mutex
	st *state
}

var (
	_ internal.IStore = (*Memstore)(nil)
	_ internal.IStore = (*txView)(nil)
)

func New() *Memstore {
	return &Memstore{st: newState()}
}

type state struct {
	orders    map[int64]*model.Order
	statusLog []model.StatusChange
	counters  map[string]int
	customers map[int64]*model.Customer
	settings  map[int64]*model.LoyaltySettings
	accounts  map[int64]*model.LoyaltyAccount
	txns      []model.LoyaltyTransaction

	orderSeq    int64
	itemSeq     int64
	logSeq      int64
	accountSeq  int64
	txnSeq      int64
	customerSeq int64
}

func newState() *state {
	return &state{
		orders:    make(map[int64]*model.Order),
		counters:  make(map[string]int),
		customers: make(map[int64]*model.Customer),
		settings:  make(map[int64]*model.LoyaltySettings),
		accounts:  make(map[int64]*model.LoyaltyAccount),
	}
}

func (s *state) clone() *state {
	c := &state{
		orders:      make(map[int64]*model.Order, len(s.orders)),
		statusLog:   append([]model.StatusChange(nil), s.statusLog...),
		counters:    make(map[string]int, len(s.counters)),
		customers:   make(map[int64]*model.Customer, len(s.customers)),
		settings:    make(map[int64]*model.LoyaltySettings, len(s.settings)),
		accounts:    make(map[int64]*model.LoyaltyAccount, len(s.accounts)),
		txns:        append([]model.LoyaltyTransaction(nil), s.txns...),
		orderSeq:    s.orderSeq,
		itemSeq:     s.itemSeq,
		logSeq:      s.logSeq,
		accountSeq:  s.accountSeq,
		txnSeq:      s.txnSeq,
		customerSeq: s.customerSeq,
	}
	for id, o := range s.orders {
		v := copyOrder(o)
		c.orders[id] = &v
	}
	for id, cu := range s.customers {
		v := *cu
		c.customers[id] = &v
	}
	for id, cfg := range s.settings {
		v := *cfg
		c.settings[id] = &v
	}
	for id, a := range s.accounts {
		v := *a
		c.accounts[id] = &v
	}
	return c
}

func copyOrder(o *model.Order) model.Order {
	v := *o
	v.Items = make([]model.OrderItem, len(o.Items))
	copy(v.Items, o.Items)
	for i := range v.Items {
		mods := make([]model.OrderItemModifier, len(v.Items[i].Modifiers))
		copy(mods, v.Items[i].Modifiers)
		v.Items[i].Modifiers = mods
	}
	return v
}

// WithinTx holds the lock for the whole callback, which also makes the
// snapshot-restore rollback safe.
func (m *Memstore) WithinTx(ctx context.Context, fn func(internal.IStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fn(&txView{m}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// SeedCustomer registers a customer profile, standing in for the platform
// CRM that owns customer creation in production.
func (m *Memstore) SeedCustomer(c model.Customer) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == 0 {
		m.st.customerSeq++
		c.ID = m.st.customerSeq
	} else if c.ID > m.st.customerSeq {
		m.st.customerSeq = c.ID
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	m.st.customers[c.ID] = &c
	return c.ID
}

// txView exposes the state of a Memstore already locked by WithinTx.
type txView struct {
	m *Memstore
}

// WithinTx on a transactional view joins the enclosing transaction.
func (t *txView) WithinTx(ctx context.Context, fn func(internal.IStore) error) error {
	return fn(t)
}

func counterKey(businessID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", businessID, date.UTC().Format("2006-01-02"))
}
