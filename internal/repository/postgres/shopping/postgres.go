package shopping

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	auditdomain "household-finance/internal/domain/audit"
	shoppingdomain "household-finance/internal/domain/shopping"
	auditrepo "household-finance/internal/repository/postgres/audit"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(shoppingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	return auditrepo.Append(ctx, r.db, entry)
}

func (r *PostgresRepository) ListLists(ctx context.Context, householdID string) ([]shoppingdomain.List, error) {
	var lists []shoppingdomain.List
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at desc").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *PostgresRepository) ListItemsByListIDs(ctx context.Context, listIDs []string) ([]shoppingdomain.ItemView, error) {
	var items []shoppingdomain.ItemView
	if len(listIDs) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).
		Table("shopping_items").
		Select("shopping_items.*, users.display_name AS added_by_name").
		Joins("left join users on users.id = shopping_items.added_by").
		Where("shopping_items.list_id IN ?", listIDs).
		Order("shopping_items.created_at asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetList(ctx context.Context, id string) (*shoppingdomain.List, error) {
	return r.list(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PostgresRepository) LockList(ctx context.Context, id string) (*shoppingdomain.List, error) {
	return r.list(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *PostgresRepository) list(query *gorm.DB) (*shoppingdomain.List, error) {
	var list shoppingdomain.List
	if err := query.First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shoppingdomain.ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (r *PostgresRepository) CreateList(ctx context.Context, list *shoppingdomain.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

// DeleteList relies on the ON DELETE CASCADE foreign key to drop the items.
func (r *PostgresRepository) DeleteList(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&shoppingdomain.List{}, "id = ?", id).Error
}

func (r *PostgresRepository) SetListStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&shoppingdomain.List{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*shoppingdomain.Item, error) {
	var item shoppingdomain.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shoppingdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ItemsOf(ctx context.Context, listID string) ([]shoppingdomain.Item, error) {
	var items []shoppingdomain.Item
	if err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *shoppingdomain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) SaveItem(ctx context.Context, item *shoppingdomain.Item) error {
	return r.db.WithContext(ctx).
		Model(&shoppingdomain.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"purchased": item.Purchased,
			"quantity":  item.Quantity,
		}).Error
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&shoppingdomain.Item{}, "id = ?", id).Error
}
