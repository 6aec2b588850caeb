package household

import (
	"context"

	"household-finance/internal/domain/audit"
	"household-finance/internal/domain/user"
)

type Repository interface {
	audit.Appender

	Transaction(ctx context.Context, fn func(Repository) error) error

	GetUser(ctx context.Context, userID string) (*user.User, error)
	LockUser(ctx context.Context, userID string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateMembership(ctx context.Context, userID string, householdID *string, status string) error
	ListMembers(ctx context.Context, householdID string) ([]Member, error)
	CountMembers(ctx context.Context, householdID string) (int64, error)

	GetHousehold(ctx context.Context, householdID string) (*Household, error)
	GetHouseholdByCode(ctx context.Context, code string) (*Household, error)
	IsInviteCodeTaken(ctx context.Context, code string) (bool, error)
	CreateHousehold(ctx context.Context, household *Household) error

	// CreateInvitation reports ErrInvitationCodeTaken when the code is in
	// use and ErrDuplicatePending when the email already has a pending
	// invitation to the household.
	CreateInvitation(ctx context.Context, invitation *Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (*Invitation, error)
	GetPendingInvitationByCode(ctx context.Context, code string) (*Invitation, error)
	HasPendingInvitation(ctx context.Context, email, householdID string) (bool, error)
	IsInvitationCodeTaken(ctx context.Context, code string) (bool, error)
	UpdateInvitationStatus(ctx context.Context, invitationID, status string) error
	ListPendingInvitations(ctx context.Context, householdID string) ([]Invitation, error)
}
