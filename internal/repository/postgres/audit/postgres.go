package audit

import (
	"context"

	"gorm.io/gorm"
	auditdomain "household-finance/internal/domain/audit"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts an entry through db, which is expected to be the handle of
// the caller's open transaction.
func Append(ctx context.Context, db *gorm.DB, entry *auditdomain.Entry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) ListRecent(ctx context.Context, householdID string, limit int) ([]auditdomain.EntryView, error) {
	var rows []auditdomain.EntryView
	if err := views(r.db.WithContext(ctx)).
		Where("audit_logs.household_id = ?", householdID).
		Order("audit_logs.timestamp desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByPayload returns the household's entries of one action type whose
// payload has field equal to value, newest first.
func ListByPayload(ctx context.Context, db *gorm.DB, householdID string, action auditdomain.ActionType, field, value string) ([]auditdomain.EntryView, error) {
	var rows []auditdomain.EntryView
	if err := views(db.WithContext(ctx)).
		Where("audit_logs.household_id = ? AND audit_logs.action_type = ?", householdID, action).
		Where("audit_logs.original_data ->> ? = ?", field, value).
		Order("audit_logs.timestamp desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func views(db *gorm.DB) *gorm.DB {
	return db.Table("audit_logs").
		Select("audit_logs.*, users.display_name AS performed_by_name").
		Joins("left join users on users.id = audit_logs.performed_by_user_id")
}
