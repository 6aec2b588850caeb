package stats

import (
	"context"
	"time"

	"household-finance/internal/domain/transactions"
)

// Repository aggregates live EXPENSE transactions within a scope. Date bounds
// are inclusive calendar days.
type Repository interface {
	DailyExpenses(ctx context.Context, scope transactions.Scope, from, to time.Time) ([]DayTotal, error)
	MonthlyCategoryExpenses(ctx context.Context, scope transactions.Scope, from, to time.Time) ([]MonthCategoryTotal, error)
	CategoryExpenses(ctx context.Context, scope transactions.Scope, from, to time.Time) ([]CategoryTotal, error)
}
