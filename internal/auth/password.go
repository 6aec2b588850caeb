package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"household-finance/internal/apperr"
)

var (
	ErrPasswordMismatch = errors.New("password mismatch")
	// bcrypt only reads the first 72 bytes of a password.
	ErrPasswordTooLong = apperr.New(apperr.KindValidation, "password_too_long", "password must not exceed 72 bytes")
)

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// Compare returns ErrPasswordMismatch when the password does not match hash.
func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
