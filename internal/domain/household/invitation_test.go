package household

import (
	"context"
	"errors"
	"testing"

	"household-finance/internal/domain/audit"
	"household-finance/internal/domain/user"
)

func newInvitationFixture() (*Service, *fakeHouseholdRepo) {
	repo := newFakeHouseholdRepo()
	repo.addUser("owner", "o@x.com")
	repo.addUser("pending", "p@x.com")
	repo.addUser("target", "t@x.com")
	repo.addUser("taken", "k@x.com")
	repo.addUser("other-owner", "z@x.com")
	repo.addHousehold("home-1", "HOME- 1111", "owner")
	repo.addHousehold("home-2", "HOME- 2222", "other-owner")
	repo.attach("pending", "home-1", user.StatusPending)
	repo.attach("taken", "home-2", user.StatusApproved)

	svc := NewService(repo, Config{})
	svc.invitationCode = sequence("123456", "654321")
	return svc, repo
}

func TestSendInvitationChecks(t *testing.T) {
	svc, _ := newInvitationFixture()
	ctx := context.Background()

	cases := []struct {
		name  string
		actor string
		email string
		want  error
	}{
		{name: "pending actor", actor: "pending", email: "t@x.com", want: ErrNotApproved},
		{name: "unknown recipient", actor: "owner", email: "nobody@x.com", want: ErrUnknownRecipient},
		{name: "self", actor: "owner", email: "O@x.com", want: ErrSelfInvite},
		{name: "already in household", actor: "owner", email: "k@x.com", want: ErrAlreadyInHousehold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SendInvitation(ctx, tc.actor, tc.email); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSendInvitationDuplicatePending(t *testing.T) {
	svc, repo := newInvitationFixture()
	ctx := context.Background()

	invitation, err := svc.SendInvitation(ctx, "owner", "t@x.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invitation.Code != "123456" || invitation.Status != InvitationPending || invitation.HouseholdID != "home-1" {
		t.Fatalf("unexpected invitation %+v", invitation)
	}
	if _, err := svc.SendInvitation(ctx, "owner", "t@x.com"); !errors.Is(err, ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending, got %v", err)
	}
	if len(repo.entries) != 1 || repo.entries[0].ActionType != audit.ActionSendInvitation {
		t.Fatalf("expected one SEND_INVITATION entry, got %v", repo.actions())
	}
}

func TestSendInvitationCodeCollisionRetries(t *testing.T) {
	svc, repo := newInvitationFixture()
	repo.invitations["old"] = &Invitation{ID: "old", Email: "gone@x.com", Code: "123456", Status: InvitationRevoked, HouseholdID: "home-1"}

	invitation, err := svc.SendInvitation(context.Background(), "owner", "t@x.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invitation.Code != "654321" {
		t.Fatalf("expected retried code, got %q", invitation.Code)
	}
}

func TestSendInvitationCodeRace(t *testing.T) {
	svc, repo := newInvitationFixture()
	repo.beforeCreateInvitation = func() {
		repo.invitations["raced"] = &Invitation{ID: "raced", Email: "r@x.com", Code: "123456", Status: InvitationPending, HouseholdID: "home-2"}
	}

	invitation, err := svc.SendInvitation(context.Background(), "owner", "t@x.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if invitation.Code != "654321" {
		t.Fatalf("expected a fresh code after the race, got %q", invitation.Code)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one SEND_INVITATION entry, got %v", repo.actions())
	}
}

func TestSendInvitationCodeRaceExhausted(t *testing.T) {
	repo := newFakeHouseholdRepo()
	repo.addUser("owner", "o@x.com")
	repo.addUser("target", "t@x.com")
	repo.addHousehold("home-1", "HOME- 1111", "owner")
	svc := NewService(repo, Config{InvitationCodeAttempts: 1})
	svc.invitationCode = sequence("123456")
	repo.beforeCreateInvitation = func() {
		repo.invitations["raced"] = &Invitation{ID: "raced", Email: "r@x.com", Code: "123456", Status: InvitationPending, HouseholdID: "home-1"}
	}

	if _, err := svc.SendInvitation(context.Background(), "owner", "t@x.com"); !errors.Is(err, ErrInvitationCodeTaken) {
		t.Fatalf("expected ErrInvitationCodeTaken, got %v", err)
	}
}

func TestSendInvitationPendingRace(t *testing.T) {
	svc, repo := newInvitationFixture()
	repo.beforeCreateInvitation = func() {
		repo.invitations["raced"] = &Invitation{ID: "raced", Email: "t@x.com", Code: "999999", Status: InvitationPending, HouseholdID: "home-1"}
	}

	if _, err := svc.SendInvitation(context.Background(), "owner", "t@x.com"); !errors.Is(err, ErrDuplicatePending) {
		t.Fatalf("expected ErrDuplicatePending, got %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("expected no audit entry, got %v", repo.actions())
	}
}

func TestRevokeInvitation(t *testing.T) {
	svc, repo := newInvitationFixture()
	ctx := context.Background()

	invitation, err := svc.SendInvitation(ctx, "owner", "t@x.com")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.RevokeInvitation(ctx, "other-owner", invitation.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound for foreign household, got %v", err)
	}
	if err := svc.RevokeInvitation(ctx, "owner", invitation.ID); err != nil {
		t.Fatalf("expected revoke, got %v", err)
	}
	if repo.invitations[invitation.ID].Status != InvitationRevoked {
		t.Fatalf("expected revoked status")
	}
	if err := svc.RevokeInvitation(ctx, "owner", invitation.ID); !errors.Is(err, ErrInvitationNotPending) {
		t.Fatalf("expected ErrInvitationNotPending, got %v", err)
	}

	pending, err := svc.ListPendingInvitations(ctx, "owner")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending invitations, got %d", len(pending))
	}
}

func TestAcceptInvitation(t *testing.T) {
	svc, repo := newInvitationFixture()
	ctx := context.Background()

	invitation, err := svc.SendInvitation(ctx, "owner", "t@x.com")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.AcceptInvitation(ctx, "pending", invitation.Code); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	household, err := svc.AcceptInvitation(ctx, "target", invitation.Code)
	if err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	if household.ID != "home-1" {
		t.Fatalf("expected home-1, got %s", household.ID)
	}
	target := repo.users["target"]
	if !target.HasHousehold() || target.MembershipStatus != user.StatusPending {
		t.Fatalf("expected pending member of home-1, got %+v", target)
	}
	if repo.invitations[invitation.ID].Status != InvitationAccepted {
		t.Fatalf("expected accepted invitation")
	}
}

func TestAcceptInvitationWrongRecipient(t *testing.T) {
	svc, repo := newInvitationFixture()
	ctx := context.Background()
	repo.addUser("stranger", "s@x.com")

	invitation, err := svc.SendInvitation(ctx, "owner", "t@x.com")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.AcceptInvitation(ctx, "stranger", invitation.Code); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound, got %v", err)
	}
}
