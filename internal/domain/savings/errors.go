package savings

import "household-finance/internal/apperr"

var (
	ErrGoalNotFound      = apperr.New(apperr.KindNotFound, "saving_not_found", "savings goal not found")
	ErrNotAuthorized     = apperr.New(apperr.KindAuthorization, "saving_forbidden", "savings goal belongs to another household")
	ErrInsufficientFunds = apperr.New(apperr.KindInvariant, "insufficient_funds", "balance cannot go below zero")
	ErrZeroDelta         = apperr.New(apperr.KindValidation, "zero_delta", "amountDiff must not be zero")
	ErrNegativeAmount    = apperr.New(apperr.KindValidation, "negative_amount", "amounts must not be negative")
)
