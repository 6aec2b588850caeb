package recurring

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"household-finance/internal/apperr"
	"household-finance/internal/domain/audit"
	"household-finance/internal/domain/transactions"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the household's active items, newest first.
func (s *Service) List(ctx context.Context, householdID string) ([]RecurringItem, error) {
	return s.repo.ListActive(ctx, householdID)
}

func (s *Service) Create(ctx context.Context, userID, householdID string, input CreateInput) (*RecurringItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	frequency := strings.ToUpper(strings.TrimSpace(input.Frequency))
	if frequency == "" {
		frequency = FrequencyMonthly
	}
	if !ValidFrequency(frequency) {
		return nil, ErrInvalidFrequency
	}
	if err := validatePayDay(input.PayDay); err != nil {
		return nil, err
	}

	start := s.today()
	if input.StartDate != nil {
		start = dateOnly(*input.StartDate)
	}

	item := RecurringItem{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    strings.TrimSpace(input.Category),
		Amount:      input.Amount,
		Frequency:   frequency,
		Active:      true,
		AutoPay:     input.AutoPay,
		StartDate:   start,
		PayDay:      input.PayDay,
		HouseholdID: householdID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &item); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionCreateRecurring, userID, householdID, audit.CreateRecurringPayload{
			Name:   item.Name,
			Amount: item.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *Service) Update(ctx context.Context, userID, householdID, id string, input UpdateInput) (*RecurringItem, error) {
	input, updates, err := normalizeUpdate(input)
	if err != nil {
		return nil, err
	}

	var result RecurringItem
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := s.owned(ctx, tx, householdID, id)
		if err != nil {
			return err
		}

		applyUpdate(item, input)
		if err := tx.Save(ctx, item); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionUpdateRecurring, userID, householdID, audit.UpdateRecurringPayload{
			ID:      item.ID,
			Updates: updates,
		}); err != nil {
			return err
		}

		result = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Deactivate hides an item from listings and month views. Items are never
// removed so that past payments keep their reference.
func (s *Service) Deactivate(ctx context.Context, userID, householdID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := s.owned(ctx, tx, householdID, id)
		if err != nil {
			return err
		}

		item.Active = false
		if err := tx.Save(ctx, item); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionDeleteRecurring, userID, householdID, audit.NamePayload{Name: item.Name})
	})
}

// MonthView lists the active items due in the given month with their target
// payment date and the payment already recorded, if any.
func (s *Service) MonthView(ctx context.Context, householdID string, year int, month time.Month) ([]DueItem, error) {
	if month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	items, err := s.repo.ListActive(ctx, householdID)
	if err != nil {
		return nil, err
	}

	from, to := monthBounds(year, month)
	payments, err := s.repo.Payments(ctx, householdID, from, to)
	if err != nil {
		return nil, err
	}

	today := s.today()
	payable := !isFutureMonth(year, month, today)

	result := make([]DueItem, 0, len(items))
	for _, item := range items {
		if !IsDueInMonth(item, year, month) {
			continue
		}

		due := DueItem{
			Item:       item,
			TargetDate: TargetPaymentDate(item, year, month, today),
			Payable:    payable,
		}
		if payment, ok := payments[item.ID]; ok {
			paid := payment
			due.Payment = &paid
			due.Payable = false
		}
		result = append(result, due)
	}

	return result, nil
}

// Pay records the payment of a due item for one month as a recurring-instance
// transaction. A month can be paid only once.
func (s *Service) Pay(ctx context.Context, userID, householdID, id string, input PayInput) (*transactions.Transaction, error) {
	today := s.today()
	if input.Year == 0 {
		input.Year, input.Month = today.Year(), today.Month()
	}
	if input.Month < time.January || input.Month > time.December {
		return nil, ErrInvalidMonth
	}
	if isFutureMonth(input.Year, input.Month, today) {
		return nil, ErrFutureMonth
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	from, to := monthBounds(input.Year, input.Month)
	if input.Date != nil {
		date := dateOnly(*input.Date)
		if date.Before(from) || date.After(to) {
			return nil, ErrDateOutsideMonth
		}
	}

	var result *transactions.Transaction
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, err := tx.Lock(ctx, id)
		if err != nil {
			return err
		}
		if item.HouseholdID != householdID {
			return ErrForbidden
		}
		if !IsDueInMonth(*item, input.Year, input.Month) {
			return ErrNotDue
		}

		payments, err := tx.Payments(ctx, householdID, from, to)
		if err != nil {
			return err
		}
		if _, paid := payments[item.ID]; paid {
			return ErrAlreadyPaid
		}

		amount := item.Amount
		if input.Amount != nil {
			amount = *input.Amount
		}
		date := TargetPaymentDate(*item, input.Year, input.Month, today)
		if input.Date != nil {
			date = *input.Date
		}
		description := input.Description
		if description == nil {
			name := item.Name
			description = &name
		}
		itemID := item.ID

		transaction, err := transactions.New(userID, householdID, transactions.CreateInput{
			Amount:          amount,
			Type:            transactions.TypeExpense,
			Category:        item.Category,
			Date:            date,
			Description:     description,
			RecurringItemID: &itemID,
		})
		if err != nil {
			return err
		}
		if err := transactions.Insert(ctx, tx, transaction); err != nil {
			return err
		}

		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) owned(ctx context.Context, tx Repository, householdID, id string) (*RecurringItem, error) {
	item, err := tx.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.HouseholdID != householdID {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *Service) today() time.Time {
	return dateOnly(s.now())
}

// normalizeUpdate validates the set fields of input and returns the trimmed
// input with the audit view of the change.
func normalizeUpdate(input UpdateInput) (UpdateInput, map[string]any, error) {
	updates := make(map[string]any)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return input, nil, apperr.Validation("name cannot be empty")
		}
		input.Name = &name
		updates["name"] = name
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return input, nil, ErrInvalidAmount
		}
		updates["amount"] = *input.Amount
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		input.Category = &category
		updates["category"] = category
	}
	if input.Frequency != nil {
		frequency := strings.ToUpper(strings.TrimSpace(*input.Frequency))
		if !ValidFrequency(frequency) {
			return input, nil, ErrInvalidFrequency
		}
		input.Frequency = &frequency
		updates["frequency"] = frequency
	}
	if input.AutoPay != nil {
		updates["autoPay"] = *input.AutoPay
	}
	if input.PayDay.Set {
		if err := validatePayDay(input.PayDay.Value); err != nil {
			return input, nil, err
		}
		updates["payDay"] = input.PayDay.Value
	}
	if input.StartDate != nil {
		updates["startDate"] = dateOnly(*input.StartDate).Format(time.DateOnly)
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return input, nil, apperr.Validation("no fields to update")
	}
	return input, updates, nil
}

func applyUpdate(item *RecurringItem, input UpdateInput) {
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Amount != nil {
		item.Amount = *input.Amount
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Frequency != nil {
		item.Frequency = *input.Frequency
	}
	if input.AutoPay != nil {
		item.AutoPay = *input.AutoPay
	}
	if input.PayDay.Set {
		item.PayDay = input.PayDay.Value
	}
	if input.StartDate != nil {
		item.StartDate = dateOnly(*input.StartDate)
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
}

func validatePayDay(day *int) error {
	if day != nil && (*day < 1 || *day > 31) {
		return ErrInvalidPayDay
	}
	return nil
}

func isFutureMonth(year int, month time.Month, today time.Time) bool {
	return monthsBetween(today.Year(), today.Month(), year, month) > 0
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
