package memstore

import (
	"context"
	"time"

	"github.com/plateful/plateful/internal"
	"github.com/plateful/plateful/internal/model"
)

func (m *Memstore) GetLoyaltySettings(ctx context.Context, businessID int64) (model.LoyaltySettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getLoyaltySettings(businessID)
}

func (t *txView) GetLoyaltySettings(ctx context.Context, businessID int64) (model.LoyaltySettings, error) {
	return t.m.st.getLoyaltySettings(businessID)
}

func (m *Memstore) SaveLoyaltySettings(ctx context.Context, settings *model.LoyaltySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.saveLoyaltySettings(settings)
}

func (t *txView) SaveLoyaltySettings(ctx context.Context, settings *model.LoyaltySettings) error {
	return t.m.st.saveLoyaltySettings(settings)
}

func (m *Memstore) EnsureLoyaltyAccount(ctx context.Context, businessID, customerID int64) (model.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.ensureLoyaltyAccount(businessID, customerID), nil
}

func (t *txView) EnsureLoyaltyAccount(ctx context.Context, businessID, customerID int64) (model.LoyaltyAccount, error) {
	return t.m.st.ensureLoyaltyAccount(businessID, customerID), nil
}

func (m *Memstore) GetLoyaltyAccountForUpdate(ctx context.Context, accountID int64) (model.LoyaltyAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getLoyaltyAccount(accountID)
}

func (t *txView) GetLoyaltyAccountForUpdate(ctx context.Context, accountID int64) (model.LoyaltyAccount, error) {
	return t.m.st.getLoyaltyAccount(accountID)
}

func (m *Memstore) SaveLoyaltyAccount(ctx context.Context, account *model.LoyaltyAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.saveLoyaltyAccount(account)
}

func (t *txView) SaveLoyaltyAccount(ctx context.Context, account *model.LoyaltyAccount) error {
	return t.m.st.saveLoyaltyAccount(account)
}

func (m *Memstore) AppendLoyaltyTransaction(ctx context.Context, txn *model.LoyaltyTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.appendTransaction(txn)
	return nil
}

func (t *txView) AppendLoyaltyTransaction(ctx context.Context, txn *model.LoyaltyTransaction) error {
	t.m.st.appendTransaction(txn)
	return nil
}

func (m *Memstore) AppendEarnedTransaction(ctx context.Context, txn *model.LoyaltyTransaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.appendEarnedTransaction(txn), nil
}

func (t *txView) AppendEarnedTransaction(ctx context.Context, txn *model.LoyaltyTransaction) (bool, error) {
	return t.m.st.appendEarnedTransaction(txn), nil
}

func (m *Memstore) GetEarnedTransactionForOrder(ctx context.Context, accountID, orderID int64) (model.LoyaltyTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.earnedTransactionForOrder(accountID, orderID)
}

func (t *txView) GetEarnedTransactionForOrder(ctx context.Context, accountID, orderID int64) (model.LoyaltyTransaction, error) {
	return t.m.st.earnedTransactionForOrder(accountID, orderID)
}

func (m *Memstore) GetLoyaltyTransactions(ctx context.Context, accountID int64, limit int) ([]model.LoyaltyTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.loyaltyTransactions(accountID, limit), nil
}

func (t *txView) GetLoyaltyTransactions(ctx context.Context, accountID int64, limit int) ([]model.LoyaltyTransaction, error) {
	return t.m.st.loyaltyTransactions(accountID, limit), nil
}

func (m *Memstore) GetCustomer(ctx context.Context, businessID, customerID int64) (model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.getCustomer(businessID, customerID)
}

func (t *txView) GetCustomer(ctx context.Context, businessID, customerID int64) (model.Customer, error) {
	return t.m.st.getCustomer(businessID, customerID)
}

func (m *Memstore) SaveCustomerStats(ctx context.Context, customer *model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.saveCustomerStats(customer)
}

func (t *txView) SaveCustomerStats(ctx context.Context, customer *model.Customer) error {
	return t.m.st.saveCustomerStats(customer)
}

func (s *state) getLoyaltySettings(businessID int64) (model.LoyaltySettings, error) {
	cfg, ok := s.settings[businessID]
	if !ok {
		return model.LoyaltySettings{}, internal.ErrNotFound
	}
	return *cfg, nil
}

func (s *state) saveLoyaltySettings(settings *model.LoyaltySettings) error {
	v := *settings
	s.settings[v.BusinessID] = &v
	return nil
}

func (s *state) ensureLoyaltyAccount(businessID, customerID int64) model.LoyaltyAccount {
	for _, a := range s.accounts {
		if a.BusinessID == businessID && a.CustomerID == customerID {
			return *a
		}
	}

	s.accountSeq++
	now := time.Now().UTC()
	a := &model.LoyaltyAccount{
		ID:         s.accountSeq,
		BusinessID: businessID,
		CustomerID: customerID,
		Tier:       model.TierBronze,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.accounts[a.ID] = a
	return *a
}

func (s *state) getLoyaltyAccount(accountID int64) (model.LoyaltyAccount, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return model.LoyaltyAccount{}, internal.ErrNotFound
	}
	return *a, nil
}

func (s *state) saveLoyaltyAccount(account *model.LoyaltyAccount) error {
	a, ok := s.accounts[account.ID]
	if !ok {
		return internal.ErrNotFound
	}
	*a = *account
	return nil
}

func (s *state) appendTransaction(txn *model.LoyaltyTransaction) {
	s.txnSeq++
	txn.ID = s.txnSeq
	s.txns = append(s.txns, *txn)
}

func (s *state) appendEarnedTransaction(txn *model.LoyaltyTransaction) bool {
	if txn.OrderID != nil {
		for _, t := range s.txns {
			if t.Type == model.LoyaltyEarned && t.AccountID == txn.AccountID &&
				t.OrderID != nil && *t.OrderID == *txn.OrderID {
				return false
			}
		}
	}
	txn.Type = model.LoyaltyEarned
	s.appendTransaction(txn)
	return true
}

func (s *state) earnedTransactionForOrder(accountID, orderID int64) (model.LoyaltyTransaction, error) {
	for _, t := range s.txns {
		if t.Type == model.LoyaltyEarned && t.AccountID == accountID &&
			t.OrderID != nil && *t.OrderID == orderID {
			return t, nil
		}
	}
	return model.LoyaltyTransaction{}, internal.ErrNotFound
}

func (s *state) loyaltyTransactions(accountID int64, limit int) []model.LoyaltyTransaction {
	var txns []model.LoyaltyTransaction
	for i := len(s.txns) - 1; i >= 0 && len(txns) < limit; i-- {
		if s.txns[i].AccountID == accountID {
			txns = append(txns, s.txns[i])
		}
	}
	return txns
}

func (s *state) getCustomer(businessID, customerID int64) (model.Customer, error) {
	c, ok := s.customers[customerID]
	if !ok || c.BusinessID != businessID {
		return model.Customer{}, internal.ErrNotFound
	}
	return *c, nil
}

func (s *state) saveCustomerStats(customer *model.Customer) error {
	c, ok := s.customers[customer.ID]
	if !ok {
		return internal.ErrNotFound
	}
	*c = *customer
	return nil
}
