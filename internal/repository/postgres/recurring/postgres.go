package recurring

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	auditdomain "household-finance/internal/domain/audit"
	recurringdomain "household-finance/internal/domain/recurring"
	txdomain "household-finance/internal/domain/transactions"
	auditrepo "household-finance/internal/repository/postgres/audit"
	txrepo "household-finance/internal/repository/postgres/transactions"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(recurringdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	return auditrepo.Append(ctx, r.db, entry)
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *txdomain.Transaction) error {
	return txrepo.Create(ctx, r.db, transaction)
}

func (r *PostgresRepository) ListActive(ctx context.Context, householdID string) ([]recurringdomain.RecurringItem, error) {
	var items []recurringdomain.RecurringItem
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND active", householdID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*recurringdomain.RecurringItem, error) {
	return r.item(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PostgresRepository) Lock(ctx context.Context, id string) (*recurringdomain.RecurringItem, error) {
	return r.item(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *PostgresRepository) item(query *gorm.DB) (*recurringdomain.RecurringItem, error) {
	var item recurringdomain.RecurringItem
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recurringdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *recurringdomain.RecurringItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) Save(ctx context.Context, item *recurringdomain.RecurringItem) error {
	return r.db.WithContext(ctx).
		Model(&recurringdomain.RecurringItem{}).
		Where("id = ? AND household_id = ?", item.ID, item.HouseholdID).
		Updates(map[string]interface{}{
			"name":       item.Name,
			"category":   item.Category,
			"amount":     item.Amount,
			"frequency":  item.Frequency,
			"active":     item.Active,
			"auto_pay":   item.AutoPay,
			"start_date": item.StartDate,
			"pay_day":    item.PayDay,
		}).Error
}

func (r *PostgresRepository) Payments(ctx context.Context, householdID string, from, to time.Time) (map[string]txdomain.Transaction, error) {
	var rows []txdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND recurring_item_id IS NOT NULL", householdID).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date asc, created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make(map[string]txdomain.Transaction, len(rows))
	for _, row := range rows {
		if _, ok := payments[*row.RecurringItemID]; !ok {
			payments[*row.RecurringItemID] = row
		}
	}
	return payments, nil
}
