package savings

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	auditdomain "household-finance/internal/domain/audit"
	savingsdomain "household-finance/internal/domain/savings"
	auditrepo "household-finance/internal/repository/postgres/audit"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(savingsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	return auditrepo.Append(ctx, r.db, entry)
}

func (r *PostgresRepository) List(ctx context.Context, householdID string) ([]savingsdomain.Goal, error) {
	var goals []savingsdomain.Goal
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at asc").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*savingsdomain.Goal, error) {
	return r.goal(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PostgresRepository) Lock(ctx context.Context, id string) (*savingsdomain.Goal, error) {
	return r.goal(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *PostgresRepository) goal(query *gorm.DB) (*savingsdomain.Goal, error) {
	var goal savingsdomain.Goal
	if err := query.First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, savingsdomain.ErrGoalNotFound
		}
		return nil, err
	}
	return &goal, nil
}

func (r *PostgresRepository) Create(ctx context.Context, goal *savingsdomain.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

// Save writes the goal's metadata. The balance column is only written by
// SetBalance.
func (r *PostgresRepository) Save(ctx context.Context, goal *savingsdomain.Goal) error {
	return r.db.WithContext(ctx).
		Model(&savingsdomain.Goal{}).
		Where("id = ?", goal.ID).
		Updates(map[string]interface{}{
			"name":          goal.Name,
			"color":         goal.Color,
			"target_amount": goal.TargetAmount,
		}).Error
}

func (r *PostgresRepository) SetBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&savingsdomain.Goal{}).
		Where("id = ?", id).
		Update("current_amount", amount).Error
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&savingsdomain.Goal{}, "id = ?", id).Error
}

func (r *PostgresRepository) BalanceEntries(ctx context.Context, householdID, goalID string) ([]auditdomain.EntryView, error) {
	return auditrepo.ListByPayload(ctx, r.db, householdID, auditdomain.ActionUpdateSavingBalance, "savingId", goalID)
}
