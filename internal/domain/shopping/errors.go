package shopping

import "household-finance/internal/apperr"

var (
	ErrListNotFound    = apperr.New(apperr.KindNotFound, "shopping_list_not_found", "shopping list not found")
	ErrItemNotFound    = apperr.New(apperr.KindNotFound, "shopping_item_not_found", "shopping item not found")
	ErrInvalidUnit     = apperr.New(apperr.KindValidation, "invalid_unit", "unit must be db, kg or l")
	ErrInvalidQuantity = apperr.New(apperr.KindValidation, "invalid_quantity", "quantity must not be negative")
	ErrNothingToUpdate = apperr.New(apperr.KindValidation, "invalid_request", "isBought or quantity is required")
)
