package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"household-finance/internal/apperr"
	"household-finance/internal/auth"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(repo Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	displayName := strings.TrimSpace(input.DisplayName)
	if email == "" || input.Password == "" || displayName == "" {
		return nil, apperr.Validation("email, password and displayName are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("invalid email")
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	created := User{
		ID:               uuid.NewString(),
		DisplayName:      displayName,
		Email:            email,
		PasswordHash:     hash,
		MembershipStatus: StatusPending,
	}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}

	return s.issue(&created)
}

func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(found.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issue(found)
}

func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) issue(u *User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}
