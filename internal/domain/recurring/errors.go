package recurring

import "household-finance/internal/apperr"

var (
	ErrItemNotFound     = apperr.New(apperr.KindNotFound, "recurring_item_not_found", "recurring item not found")
	ErrForbidden        = apperr.New(apperr.KindAuthorization, "recurring_forbidden", "recurring item belongs to another household")
	ErrInvalidFrequency = apperr.New(apperr.KindValidation, "invalid_frequency", "unknown frequency")
	ErrInvalidPayDay    = apperr.New(apperr.KindValidation, "invalid_pay_day", "payDay must be between 1 and 31")
	ErrInvalidAmount    = apperr.New(apperr.KindValidation, "invalid_amount", "amount must be positive")
	ErrInvalidMonth     = apperr.New(apperr.KindValidation, "invalid_month", "month must be between 1 and 12")
	ErrNotDue           = apperr.New(apperr.KindValidation, "not_due", "item is not due in this month")
	ErrFutureMonth      = apperr.New(apperr.KindValidation, "future_month", "cannot pay for a future month")
	ErrDateOutsideMonth = apperr.New(apperr.KindValidation, "date_outside_month", "payment date must fall within the paid month")
	ErrAlreadyPaid      = apperr.New(apperr.KindConflict, "already_paid", "item already paid for this month")
)
