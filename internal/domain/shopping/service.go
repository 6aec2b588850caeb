package shopping

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"household-finance/internal/apperr"
	"household-finance/internal/domain/audit"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListLists returns the household's lists, newest first, each with its items.
func (s *Service) ListLists(ctx context.Context, householdID string) ([]ListWithItems, error) {
	lists, err := s.repo.ListLists(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return []ListWithItems{}, nil
	}

	listIDs := make([]string, 0, len(lists))
	for _, list := range lists {
		listIDs = append(listIDs, list.ID)
	}

	items, err := s.repo.ListItemsByListIDs(ctx, listIDs)
	if err != nil {
		return nil, err
	}
	itemsByList := map[string][]ItemView{}
	for _, item := range items {
		itemsByList[item.ListID] = append(itemsByList[item.ListID], item)
	}

	result := make([]ListWithItems, 0, len(lists))
	for _, list := range lists {
		listItems := itemsByList[list.ID]
		if listItems == nil {
			listItems = []ItemView{}
		}
		result = append(result, ListWithItems{List: list, Items: listItems})
	}

	return result, nil
}

func (s *Service) CreateList(ctx context.Context, userID, householdID, name string) (*List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	list := List{
		ID:          uuid.NewString(),
		Name:        name,
		Status:      StatusActive,
		HouseholdID: householdID,
		CreatedBy:   userID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateList(ctx, &list); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionCreateShoppingList, userID, householdID, audit.ShoppingListPayload{
			ListID: list.ID,
			Name:   list.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// DeleteList removes the list together with its items.
func (s *Service) DeleteList(ctx context.Context, userID, householdID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		list, err := lockOwnedList(ctx, tx, householdID, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteList(ctx, list.ID); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionDeleteShoppingList, userID, householdID, audit.ShoppingListPayload{
			ListID: list.ID,
			Name:   list.Name,
		})
	})
}

func (s *Service) AddItem(ctx context.Context, userID, householdID, listID string, input AddItemInput) (*Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	unit := strings.ToLower(strings.TrimSpace(input.Unit))
	if unit == "" {
		unit = UnitPiece
	}
	if !ValidUnit(unit) {
		return nil, ErrInvalidUnit
	}
	quantity := 1.0
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	addedBy := userID
	item := Item{
		ID:       uuid.NewString(),
		Name:     name,
		Unit:     unit,
		Quantity: quantity,
		AddedBy:  &addedBy,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		list, err := lockOwnedList(ctx, tx, householdID, listID)
		if err != nil {
			return err
		}

		item.ListID = list.ID
		if err := tx.CreateItem(ctx, &item); err != nil {
			return err
		}
		if err := recomputeStatus(ctx, tx, list); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionAddShoppingItem, userID, householdID, audit.ShoppingItemPayload{
			ListID:   list.ID,
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: &item.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// UpdateItem toggles the purchased flag and/or changes the quantity, then
// recomputes the owning list's status.
func (s *Service) UpdateItem(ctx context.Context, userID, householdID, id string, input UpdateItemInput) (*Item, error) {
	if input.Purchased == nil && input.Quantity == nil {
		return nil, ErrNothingToUpdate
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var result Item
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		item, list, err := lockOwnedItem(ctx, tx, householdID, id)
		if err != nil {
			return err
		}

		if input.Purchased != nil {
			item.Purchased = *input.Purchased
		}
		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if err := tx.SaveItem(ctx, item); err != nil {
			return err
		}
		if err := recomputeStatus(ctx, tx, list); err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, audit.ActionUpdateShoppingItem, userID, householdID, audit.ShoppingItemPayload{
			ListID:    list.ID,
			ItemID:    item.ID,
			Name:      item.Name,
			Purchased: input.Purchased,
			Quantity:  input.Quantity,
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

func (s *Service) DeleteItem(ctx context.Context, userID, householdID, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		item, list, err := lockOwnedItem(ctx, tx, householdID, id)
		if err != nil {
			return err
		}
		if err := tx.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		if err := recomputeStatus(ctx, tx, list); err != nil {
			return err
		}
		return audit.Record(ctx, tx, audit.ActionDeleteShoppingItem, userID, householdID, audit.ShoppingItemPayload{
			ListID: list.ID,
			ItemID: item.ID,
			Name:   item.Name,
		})
	})
}

func lockOwnedList(ctx context.Context, tx Repository, householdID, id string) (*List, error) {
	list, err := tx.LockList(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.HouseholdID != householdID {
		return nil, ErrListNotFound
	}
	return list, nil
}

// lockOwnedItem locks the item's list and reads the item again under that
// lock. Every item mutation takes the list lock first, so the second read
// sees the latest committed state.
func lockOwnedItem(ctx context.Context, tx Repository, householdID, id string) (*Item, *List, error) {
	unlocked, err := tx.GetItem(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	list, err := tx.LockList(ctx, unlocked.ListID)
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, err
	}
	if list.HouseholdID != householdID {
		return nil, nil, ErrItemNotFound
	}

	item, err := tx.GetItem(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if item.ListID != list.ID {
		return nil, nil, ErrItemNotFound
	}
	return item, list, nil
}

func recomputeStatus(ctx context.Context, tx Repository, list *List) error {
	items, err := tx.ItemsOf(ctx, list.ID)
	if err != nil {
		return err
	}
	status := StatusFor(items)
	if status == list.Status {
		return nil
	}
	if err := tx.SetListStatus(ctx, list.ID, status); err != nil {
		return err
	}
	list.Status = status
	return nil
}
