package household

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"household-finance/internal/apperr"
	"household-finance/internal/domain/audit"
	"household-finance/internal/domain/user"
)

const (
	defaultInviteCodeAttempts     = 50
	defaultInvitationCodeAttempts = 10
)

type Config struct {
	InviteCodeAttempts     int
	InvitationCodeAttempts int
}

type Service struct {
	repo Repository

	inviteCode             func() (string, error)
	invitationCode         func() (string, error)
	inviteCodeAttempts     int
	invitationCodeAttempts int
}

func NewService(repo Repository, cfg Config) *Service {
	if cfg.InviteCodeAttempts <= 0 {
		cfg.InviteCodeAttempts = defaultInviteCodeAttempts
	}
	if cfg.InvitationCodeAttempts <= 0 {
		cfg.InvitationCodeAttempts = defaultInvitationCodeAttempts
	}

	return &Service{
		repo:                   repo,
		inviteCode:             generateInviteCode,
		invitationCode:         generateInvitationCode,
		inviteCodeAttempts:     cfg.InviteCodeAttempts,
		invitationCodeAttempts: cfg.InvitationCodeAttempts,
	}
}

func (s *Service) CreateHousehold(ctx context.Context, userID, name, currency string) (*Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = CurrencyHUF
	}
	if !validCurrency(currency) {
		return nil, ErrInvalidCurrency
	}

	var result Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		if actor.HasHousehold() {
			return ErrAlreadyMember
		}

		code, err := s.uniqueCode(ctx, s.inviteCode, s.inviteCodeAttempts, tx.IsInviteCodeTaken)
		if err != nil {
			return err
		}

		household := Household{
			ID:         uuid.NewString(),
			Name:       name,
			InviteCode: code,
			Currency:   currency,
			OwnerID:    userID,
		}
		if err := tx.CreateHousehold(ctx, &household); err != nil {
			return err
		}
		if err := tx.UpdateMembership(ctx, userID, &household.ID, user.StatusApproved); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionCreateHousehold, userID, household.ID, audit.CreateHouseholdPayload{
			Name:       name,
			InviteCode: code,
		}); err != nil {
			return err
		}

		result = household
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// JoinHousehold attaches the user to the household owning code as a pending
// member. The code stays valid for other users.
func (s *Service) JoinHousehold(ctx context.Context, userID, code string) (*Household, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperr.Validation("code is required")
	}

	var result Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		household, err := tx.GetHouseholdByCode(ctx, code)
		if err != nil {
			return err
		}

		actor, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		if actor.HasHousehold() {
			return ErrAlreadyMember
		}

		status := user.StatusPending
		if household.OwnerID == userID {
			status = user.StatusApproved
		}
		if err := tx.UpdateMembership(ctx, userID, &household.ID, status); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionJoinHousehold, userID, household.ID, audit.JoinHouseholdPayload{Code: code}); err != nil {
			return err
		}

		result = *household
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) ApproveMember(ctx context.Context, actorID, memberID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		household, err := s.ownedHousehold(ctx, tx, actorID)
		if err != nil {
			return err
		}

		member, err := s.lockMember(ctx, tx, household.ID, memberID)
		if err != nil {
			return err
		}

		if err := tx.UpdateMembership(ctx, member.ID, member.HouseholdID, user.StatusApproved); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionApproveMember, actorID, household.ID, audit.MemberPayload{
			MemberID:   member.ID,
			MemberName: member.DisplayName,
		})
	})
}

// RemoveMember detaches memberID from its household. The owner may remove
// anyone in their household; any user may remove themself.
func (s *Service) RemoveMember(ctx context.Context, actorID, memberID string) error {
	if actorID == memberID {
		return s.leave(ctx, actorID)
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		household, err := s.ownedHousehold(ctx, tx, actorID)
		if err != nil {
			if errors.Is(err, ErrNotOwner) || errors.Is(err, ErrNoHousehold) {
				return ErrNotAuthorized
			}
			return err
		}

		member, err := s.lockMember(ctx, tx, household.ID, memberID)
		if err != nil {
			return err
		}

		if err := tx.UpdateMembership(ctx, member.ID, nil, user.StatusPending); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionRemoveMember, actorID, household.ID, audit.MemberPayload{
			MemberID:   member.ID,
			MemberName: member.DisplayName,
		})
	})
}

func (s *Service) leave(ctx context.Context, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.LockUser(ctx, userID)
		if err != nil {
			return err
		}
		// Nothing to leave and no household to attribute an entry to.
		if !actor.HasHousehold() {
			return nil
		}

		household, err := tx.GetHousehold(ctx, *actor.HouseholdID)
		if err != nil {
			return err
		}
		if household.OwnerID == actor.ID {
			count, err := tx.CountMembers(ctx, household.ID)
			if err != nil {
				return err
			}
			if count > 1 {
				return ErrOwnerMustStay
			}
		}

		if err := tx.UpdateMembership(ctx, actor.ID, nil, user.StatusPending); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionRemoveMember, actor.ID, household.ID, audit.MemberPayload{
			MemberID:   actor.ID,
			MemberName: actor.DisplayName,
		})
	})
}

// RequireMembership resolves the household of userID without caching.
func (s *Service) RequireMembership(ctx context.Context, userID string) (*Membership, error) {
	actor, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.HasHousehold() {
		return nil, ErrNoHousehold
	}

	household, err := s.repo.GetHousehold(ctx, *actor.HouseholdID)
	if err != nil {
		return nil, err
	}

	return &Membership{
		UserID:      actor.ID,
		HouseholdID: household.ID,
		Status:      actor.MembershipStatus,
		IsOwner:     household.OwnerID == actor.ID,
	}, nil
}

// RequireApproved is RequireMembership for actions reserved to approved
// members.
func (s *Service) RequireApproved(ctx context.Context, userID string) (*Membership, error) {
	membership, err := s.RequireMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if membership.Status != user.StatusApproved {
		return nil, ErrNotApproved
	}
	return membership, nil
}

func (s *Service) GetCurrent(ctx context.Context, userID string) (*HouseholdWithMembers, error) {
	membership, err := s.RequireMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	household, err := s.repo.GetHousehold(ctx, membership.HouseholdID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, household.ID)
	if err != nil {
		return nil, err
	}

	return &HouseholdWithMembers{Household: *household, Members: members}, nil
}

func (s *Service) ownedHousehold(ctx context.Context, tx Repository, actorID string) (*Household, error) {
	actor, err := tx.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.HasHousehold() {
		return nil, ErrNotOwner
	}

	household, err := tx.GetHousehold(ctx, *actor.HouseholdID)
	if err != nil {
		return nil, err
	}
	if household.OwnerID != actor.ID {
		return nil, ErrNotOwner
	}
	return household, nil
}

func (s *Service) lockMember(ctx context.Context, tx Repository, householdID, memberID string) (*user.User, error) {
	member, err := tx.LockUser(ctx, memberID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	if !member.HasHousehold() || *member.HouseholdID != householdID {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *Service) uniqueCode(ctx context.Context, generate func() (string, error), attempts int, taken func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < attempts; i++ {
		code, err := generate()
		if err != nil {
			return "", err
		}
		exists, err := taken(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

func generateInviteCode() (string, error) {
	n, err := randomInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("HOME- %d", n), nil
}

func generateInvitationCode() (string, error) {
	n, err := randomInt(100000, 999999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

// randomInt returns a uniformly random integer in [min, max].
func randomInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
