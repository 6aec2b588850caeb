package stats

import (
	"context"
	"time"

	"gorm.io/gorm"
	statsdomain "household-finance/internal/domain/stats"
	txdomain "household-finance/internal/domain/transactions"
	txrepo "household-finance/internal/repository/postgres/transactions"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) DailyExpenses(ctx context.Context, scope txdomain.Scope, from, to time.Time) ([]statsdomain.DayTotal, error) {
	var rows []statsdomain.DayTotal
	if err := r.expenses(ctx, scope, from, to).
		Select("transactions.date AS date, SUM(transactions.amount) AS total").
		Group("transactions.date").
		Order("transactions.date asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) MonthlyCategoryExpenses(ctx context.Context, scope txdomain.Scope, from, to time.Time) ([]statsdomain.MonthCategoryTotal, error) {
	var rows []statsdomain.MonthCategoryTotal
	if err := r.expenses(ctx, scope, from, to).
		Select("to_char(transactions.date, 'YYYY-MM') AS month, transactions.category AS category, SUM(transactions.amount) AS total").
		Group("month, transactions.category").
		Order("month asc, total desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) CategoryExpenses(ctx context.Context, scope txdomain.Scope, from, to time.Time) ([]statsdomain.CategoryTotal, error) {
	var rows []statsdomain.CategoryTotal
	if err := r.expenses(ctx, scope, from, to).
		Select("transactions.category AS category, SUM(transactions.amount) AS total").
		Group("transactions.category").
		Order("total desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) expenses(ctx context.Context, scope txdomain.Scope, from, to time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("transactions").
		Where("transactions.deleted_at IS NULL").
		Where("transactions.type = ?", txdomain.TypeExpense).
		Where("transactions.date BETWEEN ? AND ?", from, to)
	return txrepo.Scoped(query, scope)
}
