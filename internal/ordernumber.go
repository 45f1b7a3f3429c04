package internal

import (
	"context"
	"fmt"
	"time"
)

const orderNumberDateLayout = "20060102"

// OrderNumberAllocator hands out kitchen-facing order numbers, formatted
// YYYYMMDD-NNNN. The sequence restarts at 1 for every business each day.
type OrderNumberAllocator struct {
	store IStore
}

func NewOrderNumberAllocator(store IStore) *OrderNumberAllocator {
	return &OrderNumberAllocator{store: store}
}

// Allocate reserves the next number for the business on the given day.
// The counter increment is atomic in the store, so concurrent callers
// never see the same sequence value.
func (a *OrderNumberAllocator) Allocate(ctx context.Context, businessID int64, date time.Time) (string, error) {
	seq, err := a.store.NextOrderSequence(ctx, businessID, date)
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(date, seq), nil
}

func FormatOrderNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", date.UTC().Format(orderNumberDateLayout), seq)
}
