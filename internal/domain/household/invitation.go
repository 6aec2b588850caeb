package household

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"household-finance/internal/apperr"
	"household-finance/internal/domain/audit"
	"household-finance/internal/domain/user"
)

func (s *Service) SendInvitation(ctx context.Context, actorID, email string) (*Invitation, error) {
	email = user.NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	var result Invitation
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.GetUser(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.HasHousehold() {
			return ErrNoHousehold
		}
		if actor.MembershipStatus != user.StatusApproved {
			return ErrNotApproved
		}
		householdID := *actor.HouseholdID

		target, err := tx.GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				return ErrUnknownRecipient
			}
			return err
		}
		if target.ID == actor.ID {
			return ErrSelfInvite
		}
		if target.HasHousehold() {
			return ErrAlreadyInHousehold
		}

		pending, err := tx.HasPendingInvitation(ctx, email, householdID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicatePending
		}

		invitation := Invitation{
			ID:          uuid.NewString(),
			Email:       email,
			Status:      InvitationPending,
			HouseholdID: householdID,
			InvitedByID: actor.ID,
		}
		if err := s.insertInvitation(ctx, tx, &invitation); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionSendInvitation, actor.ID, householdID, audit.InvitationPayload{Email: email}); err != nil {
			return err
		}

		result = invitation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// insertInvitation assigns a fresh code and inserts the invitation. A code
// claimed by a concurrent insert is replaced until the attempts run out.
func (s *Service) insertInvitation(ctx context.Context, tx Repository, invitation *Invitation) error {
	for attempt := 1; ; attempt++ {
		code, err := s.uniqueCode(ctx, s.invitationCode, s.invitationCodeAttempts, tx.IsInvitationCodeTaken)
		if err != nil {
			return err
		}
		invitation.Code = code

		err = tx.CreateInvitation(ctx, invitation)
		if errors.Is(err, ErrInvitationCodeTaken) && attempt < s.invitationCodeAttempts {
			continue
		}
		return err
	}
}

// RevokeInvitation marks a pending invitation of the actor's household as
// revoked. Invitations of other households are reported as not found.
func (s *Service) RevokeInvitation(ctx context.Context, actorID, invitationID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		actor, err := tx.GetUser(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.HasHousehold() {
			return ErrNoHousehold
		}
		if actor.MembershipStatus != user.StatusApproved {
			return ErrNotApproved
		}

		invitation, err := tx.GetInvitation(ctx, invitationID)
		if err != nil {
			return err
		}
		if invitation.HouseholdID != *actor.HouseholdID {
			return ErrInvitationNotFound
		}
		if invitation.Status != InvitationPending {
			return ErrInvitationNotPending
		}

		if err := tx.UpdateInvitationStatus(ctx, invitation.ID, InvitationRevoked); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionRevokeInvitation, actor.ID, invitation.HouseholdID, audit.InvitationPayload{Email: invitation.Email})
	})
}

func (s *Service) ListPendingInvitations(ctx context.Context, actorID string) ([]Invitation, error) {
	membership, err := s.RequireMembership(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPendingInvitations(ctx, membership.HouseholdID)
}

// AcceptInvitation redeems a pending invitation addressed to the user's email.
// The user joins as a pending member, exactly like joining by invite code.
func (s *Service) AcceptInvitation(ctx context.Context, userID, code string) (*Household, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Validation("code is required")
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

		invitation, err := tx.GetPendingInvitationByCode(ctx, code)
		if err != nil {
			return err
		}
		if invitation.Email != user.NormalizeEmail(actor.Email) {
			return ErrInvitationNotFound
		}

		household, err := tx.GetHousehold(ctx, invitation.HouseholdID)
		if err != nil {
			return err
		}

		if err := tx.UpdateInvitationStatus(ctx, invitation.ID, InvitationAccepted); err != nil {
			return err
		}
		if err := tx.UpdateMembership(ctx, actor.ID, &household.ID, user.StatusPending); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionAcceptInvitation, actor.ID, household.ID, audit.InvitationPayload{
			Email: invitation.Email,
			Code:  invitation.Code,
		}); err != nil {
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
