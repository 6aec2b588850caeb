package shopping

import (
	"context"

	"household-finance/internal/domain/audit"
)

type Repository interface {
	audit.Appender

	Transaction(ctx context.Context, fn func(Repository) error) error
	ListLists(ctx context.Context, householdID string) ([]List, error)
	ListItemsByListIDs(ctx context.Context, listIDs []string) ([]ItemView, error)
	GetList(ctx context.Context, id string) (*List, error)
	// LockList reads the list with a row lock so concurrent item changes
	// recompute its status one at a time.
	LockList(ctx context.Context, id string) (*List, error)
	CreateList(ctx context.Context, list *List) error
	DeleteList(ctx context.Context, id string) error
	SetListStatus(ctx context.Context, id, status string) error
	GetItem(ctx context.Context, id string) (*Item, error)
	ItemsOf(ctx context.Context, listID string) ([]Item, error)
	CreateItem(ctx context.Context, item *Item) error
	SaveItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id string) error
}
