package transactions

import "household-finance/internal/apperr"

var (
	ErrTransactionNotFound  = apperr.New(apperr.KindNotFound, "transaction_not_found", "transaction not found")
	ErrNotCreator           = apperr.New(apperr.KindAuthorization, "not_creator", "only the creator can delete this transaction")
	ErrInvalidType          = apperr.New(apperr.KindValidation, "invalid_type", "type must be INCOME or EXPENSE")
	ErrInvalidAmount        = apperr.New(apperr.KindValidation, "invalid_amount", "amount must be positive")
	ErrRecurringItemUnknown = apperr.New(apperr.KindNotFound, "recurring_item_not_found", "recurring item not found")
	ErrInvalidScope         = apperr.New(apperr.KindValidation, "invalid_scope", "scope must be creator or household")
	ErrInvalidRange         = apperr.New(apperr.KindValidation, "invalid_range", "startDate must not be after endDate")
)
