package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer carries the visit aggregates owned by this service. Profile
// fields beyond the name live in the platform's CRM.
type Customer struct {
	ID           int64           `json:"ID"`
	BusinessID   int64           `json:"businessID"`
	Name         string          `json:"name"`
	TotalVisits  int64           `json:"totalVisits"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	AverageSpend decimal.Decimal `json:"averageSpend"`
	LastVisitAt  *time.Time      `json:"lastVisitAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
