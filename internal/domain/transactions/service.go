package transactions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"household-finance/internal/apperr"
	"household-finance/internal/domain/audit"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the household's transactions dated within [from, to]. Missing
// bounds default to the current calendar month.
func (s *Service) List(ctx context.Context, householdID string, from, to *time.Time) ([]TransactionView, error) {
	start, end, err := s.resolveRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, householdID, start, end)
}

func (s *Service) Create(ctx context.Context, userID, householdID string, input CreateInput) (*Transaction, error) {
	transaction, err := New(userID, householdID, input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if transaction.RecurringItemID != nil {
			ok, err := tx.RecurringItemBelongsTo(ctx, *transaction.RecurringItemID, householdID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrRecurringItemUnknown
			}
		}
		return Insert(ctx, tx, transaction)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Delete soft-deletes a transaction. Only its creator may delete it.
func (s *Service) Delete(ctx context.Context, userID, householdID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		transaction, err := tx.Lock(ctx, id)
		if err != nil {
			return err
		}
		if transaction.HouseholdID != householdID {
			return ErrTransactionNotFound
		}
		if transaction.CreatedBy != userID {
			return ErrNotCreator
		}

		if err := tx.SoftDelete(ctx, transaction.ID); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionDeleteTransaction, userID, householdID, audit.DeleteTransactionPayload{
			Amount:      transaction.Amount,
			Description: transaction.Description,
		})
	})
}

// Export returns rows in ascending date order for spreadsheet export.
func (s *Service) Export(ctx context.Context, scope Scope, from, to *time.Time) ([]TransactionView, error) {
	start, end, err := s.resolveRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForExport(ctx, scope, start, end)
}

// Insert writes a validated transaction and its CREATE_TRANSACTION entry
// through a transaction-scoped repository.
func Insert(ctx context.Context, tx Writer, transaction *Transaction) error {
	if err := tx.CreateTransaction(ctx, transaction); err != nil {
		return err
	}
	return audit.Record(ctx, tx, audit.ActionCreateTransaction, transaction.CreatedBy, transaction.HouseholdID, audit.CreateTransactionPayload{
		Amount:          transaction.Amount,
		Description:     transaction.Description,
		Type:            transaction.Type,
		RecurringItemID: transaction.RecurringItemID,
	})
}

// New validates input and builds a transaction owned by userID.
func New(userID, householdID string, input CreateInput) (*Transaction, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))
	if !ValidType(input.Type) {
		return nil, ErrInvalidType
	}
	if input.Date.IsZero() {
		return nil, apperr.Validation("date is required")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = DefaultCategory
	}

	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			description = &trimmed
		}
	}

	var recurringItemID *string
	if input.RecurringItemID != nil && strings.TrimSpace(*input.RecurringItemID) != "" {
		id := strings.TrimSpace(*input.RecurringItemID)
		recurringItemID = &id
	}

	return &Transaction{
		ID:                  uuid.NewString(),
		Amount:              input.Amount,
		Type:                input.Type,
		Category:            category,
		Date:                dateOnly(input.Date),
		Description:         description,
		IsRecurringInstance: recurringItemID != nil,
		RecurringItemID:     recurringItemID,
		CreatedBy:           userID,
		HouseholdID:         householdID,
	}, nil
}

func (s *Service) resolveRange(from, to *time.Time) (time.Time, time.Time, error) {
	monthStart, monthEnd := MonthBounds(s.now().UTC())

	start, end := monthStart, monthEnd
	if from != nil {
		start = dateOnly(*from)
	}
	if to != nil {
		end = dateOnly(*to)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
