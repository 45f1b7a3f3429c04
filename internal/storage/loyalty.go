package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/plateful/plateful/internal/model"
)

const (
	settingsFields = "business_id, is_enabled, points_per_dollar, minimum_spend, silver_threshold, gold_threshold, platinum_threshold, updated_at"
	accountFields  = "id, business_id, customer_id, points_balance, lifetime_earned, lifetime_redeemed, tier, created_at, updated_at"
	loyaltyFields  = "id, account_id, type, points_delta, balance_after, order_id, description, created_at"
)

func (s *Store) GetLoyaltySettings(ctx context.Context, businessID int64) (model.LoyaltySettings, error) {
	var cfg model.LoyaltySettings
	var minSpend decimal.NullDecimal

	row := s.db.QueryRow(ctx, "SELECT "+settingsFields+" FROM loyalty_settings WHERE business_id = $1", businessID)
	err := row.Scan(&cfg.BusinessID, &cfg.IsEnabled, &cfg.PointsPerDollar, &minSpend,
		&cfg.TierThresholds.Silver, &cfg.TierThresholds.Gold, &cfg.TierThresholds.Platinum, &cfg.UpdatedAt)
	if err != nil {
		return model.LoyaltySettings{}, wrapErr(err)
	}

	if minSpend.Valid {
		cfg.MinimumSpend = &minSpend.Decimal
	}
	return cfg, nil
}

func (s *Store) SaveLoyaltySettings(ctx context.Context, settings *model.LoyaltySettings) error {
	var minSpend decimal.NullDecimal
	if settings.MinimumSpend != nil {
		minSpend = decimal.NullDecimal{Decimal: *settings.MinimumSpend, Valid: true}
	}

	_, err := s.db.Exec(ctx, `INSERT INTO loyalty_settings
		(business_id, is_enabled, points_per_dollar, minimum_spend, silver_threshold, gold_threshold, platinum_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (business_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			points_per_dollar = EXCLUDED.points_per_dollar,
			minimum_spend = EXCLUDED.minimum_spend,
			silver_threshold = EXCLUDED.silver_threshold,
			gold_threshold = EXCLUDED.gold_threshold,
			platinum_threshold = EXCLUDED.platinum_threshold,
			updated_at = EXCLUDED.updated_at`,
		settings.BusinessID, settings.IsEnabled, settings.PointsPerDollar, minSpend,
		settings.TierThresholds.Silver, settings.TierThresholds.Gold, settings.TierThresholds.Platinum,
		settings.UpdatedAt)
	return wrapErr(err)
}

// EnsureLoyaltyAccount creates the account on first touch. The insert is
// an upsert no-op when the row exists, so two racing callers converge on
// the same account.
func (s *Store) EnsureLoyaltyAccount(ctx context.Context, businessID, customerID int64) (model.LoyaltyAccount, error) {
	_, err := s.db.Exec(ctx, `INSERT INTO loyalty_accounts
		(business_id, customer_id, points_balance, lifetime_earned, lifetime_redeemed, tier, created_at, updated_at)
		VALUES ($1, $2, 0, 0, 0, $3, now(), now())
		ON CONFLICT (business_id, customer_id) DO NOTHING`,
		businessID, customerID, model.TierBronze)
	if err != nil {
		return model.LoyaltyAccount{}, wrapErr(err)
	}

	row := s.db.QueryRow(ctx, "SELECT "+accountFields+" FROM loyalty_accounts WHERE business_id = $1 AND customer_id = $2",
		businessID, customerID)
	return scanAccount(row)
}

func (s *Store) GetLoyaltyAccountForUpdate(ctx context.Context, accountID int64) (model.LoyaltyAccount, error) {
	row := s.db.QueryRow(ctx, "SELECT "+accountFields+" FROM loyalty_accounts WHERE id = $1 FOR UPDATE", accountID)
	return scanAccount(row)
}

func (s *Store) SaveLoyaltyAccount(ctx context.Context, account *model.LoyaltyAccount) error {
	_, err := s.db.Exec(ctx, `UPDATE loyalty_accounts
		SET points_balance = $1, lifetime_earned = $2, lifetime_redeemed = $3, tier = $4, updated_at = $5
		WHERE id = $6`,
		account.PointsBalance, account.LifetimeEarned, account.LifetimeRedeemed, account.Tier,
		account.UpdatedAt, account.ID)
	return wrapErr(err)
}

func (s *Store) AppendLoyaltyTransaction(ctx context.Context, txn *model.LoyaltyTransaction) error {
	row := s.db.QueryRow(ctx, `INSERT INTO loyalty_transactions
		(account_id, type, points_delta, balance_after, order_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		txn.AccountID, txn.Type, txn.PointsDelta, txn.BalanceAfter, txn.OrderID, txn.Description, txn.CreatedAt)
	return wrapErr(row.Scan(&txn.ID))
}

// AppendEarnedTransaction leans on the partial unique index over
// (account_id, order_id) for earn rows: a duplicate award inserts nothing
// and reports false instead of failing.
func (s *Store) AppendEarnedTransaction(ctx context.Context, txn *model.LoyaltyTransaction) (bool, error) {
	row := s.db.QueryRow(ctx, `INSERT INTO loyalty_transactions
		(account_id, type, points_delta, balance_after, order_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, order_id) WHERE type = 'earned' DO NOTHING
		RETURNING id`,
		txn.AccountID, model.LoyaltyEarned, txn.PointsDelta, txn.BalanceAfter, txn.OrderID, txn.Description, txn.CreatedAt)
	err := row.Scan(&txn.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrapErr(err)
	}
	return true, nil
}

func (s *Store) GetEarnedTransactionForOrder(ctx context.Context, accountID, orderID int64) (model.LoyaltyTransaction, error) {
	row := s.db.QueryRow(ctx, "SELECT "+loyaltyFields+" FROM loyalty_transactions WHERE account_id = $1 AND order_id = $2 AND type = $3",
		accountID, orderID, model.LoyaltyEarned)

	var t model.LoyaltyTransaction
	err := row.Scan(&t.ID, &t.AccountID, &t.Type, &t.PointsDelta, &t.BalanceAfter, &t.OrderID, &t.Description, &t.CreatedAt)
	if err != nil {
		return model.LoyaltyTransaction{}, wrapErr(err)
	}
	return t, nil
}

func (s *Store) GetLoyaltyTransactions(ctx context.Context, accountID int64, limit int) ([]model.LoyaltyTransaction, error) {
	rows, err := s.db.Query(ctx, "SELECT "+loyaltyFields+" FROM loyalty_transactions WHERE account_id = $1 ORDER BY id DESC LIMIT $2",
		accountID, limit)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var txns []model.LoyaltyTransaction
	for rows.Next() {
		var t model.LoyaltyTransaction
		err = rows.Scan(&t.ID, &t.AccountID, &t.Type, &t.PointsDelta, &t.BalanceAfter, &t.OrderID, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, wrapErr(err)
		}
		txns = append(txns, t)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return txns, nil
}

func scanAccount(row pgx.Row) (model.LoyaltyAccount, error) {
	var a model.LoyaltyAccount
	err := row.Scan(&a.ID, &a.BusinessID, &a.CustomerID, &a.PointsBalance, &a.LifetimeEarned,
		&a.LifetimeRedeemed, &a.Tier, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.LoyaltyAccount{}, wrapErr(err)
	}
	return a, nil
}
