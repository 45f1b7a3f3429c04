package storage

import (
	"context"

	"github.com/plateful/plateful/internal/model"
)

const customerFields = "id, business_id, name, total_visits, total_spent, average_spend, last_visit_at, created_at, updated_at"

func (s *Store) GetCustomer(ctx context.Context, businessID, customerID int64) (model.Customer, error) {
	var c model.Customer
	row := s.db.QueryRow(ctx, "SELECT "+customerFields+" FROM customers WHERE id = $1 AND business_id = $2", customerID, businessID)
	err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &c.TotalVisits, &c.TotalSpent, &c.AverageSpend,
		&c.LastVisitAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Customer{}, wrapErr(err)
	}
	return c, nil
}

func (s *Store) SaveCustomerStats(ctx context.Context, customer *model.Customer) error {
	_, err := s.db.Exec(ctx, `UPDATE customers
		SET total_visits = $1, total_spent = $2, average_spend = $3, last_visit_at = $4, updated_at = $5
		WHERE id = $6`,
		customer.TotalVisits, customer.TotalSpent, customer.AverageSpend, customer.LastVisitAt,
		customer.UpdatedAt, customer.ID)
	return wrapErr(err)
}
