package transactions

import (
	"context"
	"time"

	"household-finance/internal/domain/audit"
)

// Writer is the part of a transaction-scoped repository needed to record a
// new transaction. Other domains embed it to create transactions inside
// their own unit of work.
type Writer interface {
	audit.Appender
	CreateTransaction(ctx context.Context, transaction *Transaction) error
}

type Repository interface {
	Writer

	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, householdID string, from, to time.Time) ([]TransactionView, error)
	ListForExport(ctx context.Context, scope Scope, from, to time.Time) ([]TransactionView, error)
	// Lock reads a live transaction and holds its row until the unit of work ends.
	Lock(ctx context.Context, id string) (*Transaction, error)
	SoftDelete(ctx context.Context, id string) error
	RecurringItemBelongsTo(ctx context.Context, recurringItemID, householdID string) (bool, error)
}
