package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"household-finance/internal/apperr"
	"household-finance/internal/auth"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(identity auth.Identity) (string, error) {
	return "token-" + identity.UserID, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewService(repo, plainHasher{}, fakeIssuer{}), repo
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	svc, repo := newTestService()

	result, err := svc.Register(context.Background(), RegisterInput{Email: " A@X.com ", Password: "pw1", DisplayName: "A"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Token != "token-"+result.User.ID {
		t.Fatalf("unexpected token %q", result.Token)
	}
	stored := repo.users[result.User.ID]
	if stored == nil {
		t.Fatalf("expected user stored")
	}
	if stored.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %q", stored.Email)
	}
	if stored.MembershipStatus != StatusPending || stored.HasHousehold() {
		t.Fatalf("expected pending user without household, got %+v", stored)
	}
	if stored.PasswordHash != "hashed:pw1" {
		t.Fatalf("expected hashed password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo := newTestService()
	repo.users["u-1"] = &User{ID: "u-1", Email: "a@x.com"}

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw", DisplayName: "A"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "pw"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterPasswordTooLong(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, auth.NewBcryptHasher(bcrypt.MinCost), fakeIssuer{})

	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: strings.Repeat("p", 73), DisplayName: "A"})
	if !errors.Is(err, auth.ErrPasswordTooLong) || apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected ErrPasswordTooLong validation error, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no user stored")
	}
}

func TestLoginGenericFailure(t *testing.T) {
	svc, repo := newTestService()
	repo.users["u-1"] = &User{ID: "u-1", Email: "a@x.com", PasswordHash: "hashed:pw1"}

	if _, err := svc.Login(context.Background(), "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@x.com", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	result, err := svc.Login(context.Background(), "A@x.com", "pw1")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if result.User.ID != "u-1" {
		t.Fatalf("unexpected user %+v", result.User)
	}
}
