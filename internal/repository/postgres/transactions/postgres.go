package transactions

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	auditdomain "household-finance/internal/domain/audit"
	txdomain "household-finance/internal/domain/transactions"
	auditrepo "household-finance/internal/repository/postgres/audit"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(txdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	return auditrepo.Append(ctx, r.db, entry)
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *txdomain.Transaction) error {
	return Create(ctx, r.db, transaction)
}

// Create inserts a transaction through db so other domains' repositories can
// write one inside their own unit of work.
func Create(ctx context.Context, db *gorm.DB, transaction *txdomain.Transaction) error {
	return db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) List(ctx context.Context, householdID string, from, to time.Time) ([]txdomain.TransactionView, error) {
	var rows []txdomain.TransactionView
	if err := views(r.db.WithContext(ctx)).
		Where("transactions.household_id = ?", householdID).
		Where("transactions.date BETWEEN ? AND ?", from, to).
		Order("transactions.date desc, transactions.created_at desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ListForExport(ctx context.Context, scope txdomain.Scope, from, to time.Time) ([]txdomain.TransactionView, error) {
	var rows []txdomain.TransactionView
	if err := Scoped(views(r.db.WithContext(ctx)), scope).
		Where("transactions.date BETWEEN ? AND ?", from, to).
		Order("transactions.date asc, transactions.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) Lock(ctx context.Context, id string) (*txdomain.Transaction, error) {
	var transaction txdomain.Transaction
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, txdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&txdomain.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return txdomain.ErrTransactionNotFound
	}
	return nil
}

func (r *PostgresRepository) RecurringItemBelongsTo(ctx context.Context, recurringItemID, householdID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM recurring_items WHERE id = ? AND household_id = ?", recurringItemID, householdID).
		Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Scoped restricts a transactions query to the scope's creator or household.
func Scoped(query *gorm.DB, scope txdomain.Scope) *gorm.DB {
	if scope.Kind == txdomain.ScopeHousehold {
		return query.Where("transactions.household_id = ?", scope.HouseholdID)
	}
	return query.Where("transactions.created_by = ?", scope.UserID)
}

func views(db *gorm.DB) *gorm.DB {
	return db.Table("transactions").
		Select("transactions.*, users.display_name AS creator_name").
		Joins("left join users on users.id = transactions.created_by").
		Where("transactions.deleted_at IS NULL")
}
