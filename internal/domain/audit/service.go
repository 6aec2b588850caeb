package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const ListLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the most recent entries of a household, newest first.
func (s *Service) List(ctx context.Context, householdID string) ([]EntryView, error) {
	return s.repo.ListRecent(ctx, householdID, ListLimit)
}

func NewEntry(action ActionType, actorID, householdID string, payload any) (*Entry, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", action, err)
	}

	return &Entry{
		ID:                uuid.NewString(),
		ActionType:        action,
		OriginalData:      datatypes.JSON(data),
		Timestamp:         time.Now().UTC(),
		PerformedByUserID: actorID,
		HouseholdID:       householdID,
	}, nil
}

// Record builds an entry and appends it through a transaction-scoped repository.
func Record(ctx context.Context, appender Appender, action ActionType, actorID, householdID string, payload any) error {
	entry, err := NewEntry(action, actorID, householdID, payload)
	if err != nil {
		return err
	}
	return appender.AppendAudit(ctx, entry)
}
