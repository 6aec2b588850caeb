package user

import "household-finance/internal/apperr"

var (
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "email_taken", "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "invalid_credentials", "invalid email or password")
)
