package stats

import "household-finance/internal/apperr"

var (
	ErrInvalidMonth = apperr.New(apperr.KindValidation, "invalid_month", "month must be between 0 and 11")
	ErrInvalidYear  = apperr.New(apperr.KindValidation, "invalid_year", "year is required")
)
