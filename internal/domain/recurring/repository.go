package recurring

import (
	"context"
	"time"

	"household-finance/internal/domain/transactions"
)

type Repository interface {
	transactions.Writer

	Transaction(ctx context.Context, fn func(Repository) error) error
	ListActive(ctx context.Context, householdID string) ([]RecurringItem, error)
	Get(ctx context.Context, id string) (*RecurringItem, error)
	Lock(ctx context.Context, id string) (*RecurringItem, error)
	Create(ctx context.Context, item *RecurringItem) error
	Save(ctx context.Context, item *RecurringItem) error
	// Payments returns the live recurring-instance transactions of a
	// household dated within [from, to], keyed by recurring item id.
	Payments(ctx context.Context, householdID string, from, to time.Time) (map[string]transactions.Transaction, error)
}
