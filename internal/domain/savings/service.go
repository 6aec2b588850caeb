package savings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"household-finance/internal/apperr"
	"household-finance/internal/domain/audit"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, householdID string) ([]Goal, error) {
	return s.repo.List(ctx, householdID)
}

func (s *Service) Create(ctx context.Context, userID, householdID string, input CreateInput) (*Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if input.CurrentAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if input.TargetAmount.Valid && input.TargetAmount.Decimal.IsNegative() {
		return nil, ErrNegativeAmount
	}

	goal := Goal{
		ID:            uuid.NewString(),
		Name:          name,
		CurrentAmount: input.CurrentAmount,
		TargetAmount:  input.TargetAmount,
		Color:         strings.TrimSpace(input.Color),
		HouseholdID:   householdID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &goal); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionCreateSaving, userID, householdID, audit.CreateSavingPayload{
			Name:   goal.Name,
			Target: numberOrNil(goal.TargetAmount),
		})
	})
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

// EditGoal changes the goal's metadata. The balance is left untouched.
func (s *Service) EditGoal(ctx context.Context, userID, householdID, id string, input EditInput) (*Goal, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		input.Name = &name
	}
	if input.TargetAmount.Set && input.TargetAmount.Value != nil && input.TargetAmount.Value.IsNegative() {
		return nil, ErrNegativeAmount
	}

	var result Goal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := owned(ctx, tx, householdID, id)
		if err != nil {
			return err
		}

		old := snapshot(goal)
		if input.Name != nil {
			goal.Name = *input.Name
		}
		if input.Color != nil {
			goal.Color = strings.TrimSpace(*input.Color)
		}
		if input.TargetAmount.Set {
			goal.TargetAmount = decimal.NullDecimal{}
			if input.TargetAmount.Value != nil {
				goal.TargetAmount = decimal.NewNullDecimal(*input.TargetAmount.Value)
			}
		}

		if err := tx.Save(ctx, goal); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionUpdateSaving, userID, householdID, audit.UpdateSavingPayload{
			SavingID: goal.ID,
			Old:      old,
			New:      snapshot(goal),
		}); err != nil {
			return err
		}

		result = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ApplyBalanceDelta adds delta to the goal's balance under a row lock. A delta
// that would leave a negative balance is rejected without any write.
func (s *Service) ApplyBalanceDelta(ctx context.Context, userID, householdID, id string, input BalanceInput) (*Goal, error) {
	if input.Delta.IsZero() {
		return nil, ErrZeroDelta
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = DefaultWithdrawalDescription
		if input.Delta.IsPositive() {
			description = DefaultDepositDescription
		}
	}

	var result Goal
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := owned(ctx, tx, householdID, id)
		if err != nil {
			return err
		}

		balance := goal.CurrentAmount.Add(input.Delta)
		if balance.IsNegative() {
			return ErrInsufficientFunds
		}

		if err := tx.SetBalance(ctx, goal.ID, balance); err != nil {
			return err
		}
		goal.CurrentAmount = balance

		if err := audit.Record(ctx, tx, audit.ActionUpdateSavingBalance, userID, householdID, audit.SavingBalancePayload{
			SavingID:    goal.ID,
			Name:        goal.Name,
			Diff:        json.Number(input.Delta.String()),
			NewBalance:  json.Number(balance.String()),
			Description: description,
		}); err != nil {
			return err
		}

		result = *goal
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) Delete(ctx context.Context, userID, householdID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		goal, err := owned(ctx, tx, householdID, id)
		if err != nil {
			return err
		}
		if err := tx.SoftDelete(ctx, goal.ID); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionDeleteSaving, userID, householdID, audit.NamePayload{Name: goal.Name})
	})
}

// History rebuilds the goal's balance changes from the audit log, newest first.
func (s *Service) History(ctx context.Context, householdID, id string) ([]HistoryEntry, error) {
	goal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.HouseholdID != householdID {
		return nil, ErrNotAuthorized
	}

	entries, err := s.repo.BalanceEntries(ctx, householdID, goal.ID)
	if err != nil {
		return nil, err
	}

	result := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		var payload audit.SavingBalancePayload
		if err := json.Unmarshal(entry.OriginalData, &payload); err != nil {
			return nil, fmt.Errorf("decode audit entry %s: %w", entry.ID, err)
		}
		diff, err := decimal.NewFromString(payload.Diff.String())
		if err != nil {
			return nil, fmt.Errorf("decode diff of %s: %w", entry.ID, err)
		}
		balance, err := decimal.NewFromString(payload.NewBalance.String())
		if err != nil {
			return nil, fmt.Errorf("decode balance of %s: %w", entry.ID, err)
		}

		result = append(result, HistoryEntry{
			ID:              entry.ID,
			Diff:            diff,
			NewBalance:      balance,
			Description:     payload.Description,
			Timestamp:       entry.Timestamp,
			PerformedByID:   entry.PerformedByUserID,
			PerformedByName: entry.PerformedByName,
		})
	}

	return result, nil
}

func owned(ctx context.Context, tx Repository, householdID, id string) (*Goal, error) {
	goal, err := tx.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	if goal.HouseholdID != householdID {
		return nil, ErrNotAuthorized
	}
	return goal, nil
}

func snapshot(goal *Goal) audit.SavingSnapshot {
	return audit.SavingSnapshot{Name: goal.Name, Target: numberOrNil(goal.TargetAmount)}
}

func numberOrNil(value decimal.NullDecimal) *json.Number {
	if !value.Valid {
		return nil
	}
	number := json.Number(value.Decimal.String())
	return &number
}
