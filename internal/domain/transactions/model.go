package transactions

import (
	"time"

	"gorm.io/gorm"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"

	DefaultCategory = "Egyéb"
)

type Transaction struct {
	ID                  string         `gorm:"type:uuid;primaryKey"`
	Amount              int64          `gorm:"not null"`
	Type                string         `gorm:"type:varchar(8);not null"`
	Category            string         `gorm:"not null"`
	Date                time.Time      `gorm:"type:date;not null"`
	Description         *string        `gorm:"type:text"`
	IsRecurringInstance bool           `gorm:"not null"`
	RecurringItemID     *string        `gorm:"type:uuid"`
	CreatedBy           string         `gorm:"type:uuid;not null"`
	HouseholdID         string         `gorm:"type:uuid;not null"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

type TransactionView struct {
	Transaction
	CreatorName string
}

type CreateInput struct {
	Amount          int64
	Type            string
	Category        string
	Date            time.Time
	Description     *string
	RecurringItemID *string
}

type ScopeKind string

const (
	ScopeCreator   ScopeKind = "creator"
	ScopeHousehold ScopeKind = "household"
)

// Scope selects whose transactions a report covers: the requesting user's own
// or the whole household's.
type Scope struct {
	Kind        ScopeKind
	UserID      string
	HouseholdID string
}

func ParseScopeKind(value string) (ScopeKind, error) {
	switch ScopeKind(value) {
	case "", ScopeCreator:
		return ScopeCreator, nil
	case ScopeHousehold:
		return ScopeHousehold, nil
	default:
		return "", ErrInvalidScope
	}
}

func ValidType(value string) bool {
	return value == TypeIncome || value == TypeExpense
}

// MonthBounds returns the first and last calendar day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
