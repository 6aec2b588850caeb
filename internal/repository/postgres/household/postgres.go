package household

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	auditdomain "household-finance/internal/domain/audit"
	householddomain "household-finance/internal/domain/household"
	userdomain "household-finance/internal/domain/user"
	auditrepo "household-finance/internal/repository/postgres/audit"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(householddomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	return auditrepo.Append(ctx, r.db, entry)
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID string) (*userdomain.User, error) {
	return r.user(r.db.WithContext(ctx).Where("id = ?", userID))
}

func (r *PostgresRepository) LockUser(ctx context.Context, userID string) (*userdomain.User, error) {
	return r.user(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID))
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	return r.user(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *PostgresRepository) user(query *gorm.DB) (*userdomain.User, error) {
	var user userdomain.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) UpdateMembership(ctx context.Context, userID string, householdID *string, status string) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"household_id":      householdID,
			"membership_status": status,
		}).Error
}

func (r *PostgresRepository) ListMembers(ctx context.Context, householdID string) ([]householddomain.Member, error) {
	var members []householddomain.Member
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("id, display_name, email, membership_status").
		Where("household_id = ?", householdID).
		Order("created_at asc").
		Scan(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) CountMembers(ctx context.Context, householdID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("household_id = ?", householdID).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, householdID string) (*householddomain.Household, error) {
	var household householddomain.Household
	if err := r.db.WithContext(ctx).Where("id = ?", householdID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &household, nil
}

func (r *PostgresRepository) GetHouseholdByCode(ctx context.Context, code string) (*householddomain.Household, error) {
	var household householddomain.Household
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrInvalidCode
		}
		return nil, err
	}
	return &household, nil
}

func (r *PostgresRepository) IsInviteCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&householddomain.Household{}).
		Where("invite_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateHousehold(ctx context.Context, household *householddomain.Household) error {
	err := r.db.WithContext(ctx).Create(household).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return householddomain.ErrInviteCodeTaken
	}
	return err
}

// CreateInvitation inserts under a savepoint so a unique violation leaves the
// surrounding transaction usable for telling the two constraints apart.
func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation *householddomain.Invitation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(invitation).Error
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	taken, err := r.IsInvitationCodeTaken(ctx, invitation.Code)
	if err != nil {
		return err
	}
	if taken {
		return householddomain.ErrInvitationCodeTaken
	}
	return householddomain.ErrDuplicatePending
}

func (r *PostgresRepository) GetInvitation(ctx context.Context, invitationID string) (*householddomain.Invitation, error) {
	return r.invitation(r.db.WithContext(ctx).Where("id = ?", invitationID))
}

func (r *PostgresRepository) GetPendingInvitationByCode(ctx context.Context, code string) (*householddomain.Invitation, error) {
	return r.invitation(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ? AND status = ?", code, householddomain.InvitationPending))
}

func (r *PostgresRepository) invitation(query *gorm.DB) (*householddomain.Invitation, error) {
	var invitation householddomain.Invitation
	if err := query.First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) HasPendingInvitation(ctx context.Context, email, householdID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&householddomain.Invitation{}).
		Where("email = ? AND household_id = ? AND status = ?", email, householdID, householddomain.InvitationPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) IsInvitationCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&householddomain.Invitation{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) UpdateInvitationStatus(ctx context.Context, invitationID, status string) error {
	return r.db.WithContext(ctx).
		Model(&householddomain.Invitation{}).
		Where("id = ?", invitationID).
		Update("status", status).Error
}

func (r *PostgresRepository) ListPendingInvitations(ctx context.Context, householdID string) ([]householddomain.Invitation, error) {
	var invitations []householddomain.Invitation
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND status = ?", householdID, householddomain.InvitationPending).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}
