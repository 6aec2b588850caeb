package savings

import (
	"context"

	"github.com/shopspring/decimal"
	"household-finance/internal/domain/audit"
)

type Repository interface {
	audit.Appender

	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, householdID string) ([]Goal, error)
	Get(ctx context.Context, id string) (*Goal, error)
	// Lock reads a live goal with a row lock held until the surrounding
	// transaction ends.
	Lock(ctx context.Context, id string) (*Goal, error)
	Create(ctx context.Context, goal *Goal) error
	Save(ctx context.Context, goal *Goal) error
	SetBalance(ctx context.Context, id string, amount decimal.Decimal) error
	SoftDelete(ctx context.Context, id string) error
	// BalanceEntries returns the UPDATE_SAVING_BALANCE audit entries that
	// reference the goal, newest first.
	BalanceEntries(ctx context.Context, householdID, goalID string) ([]audit.EntryView, error)
}
