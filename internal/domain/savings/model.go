package savings

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultDepositDescription    = "Deposit"
	DefaultWithdrawalDescription = "Withdrawal"
)

// Goal is a household savings target. CurrentAmount changes only through
// balance deltas and never goes below zero.
type Goal struct {
	ID            string              `gorm:"type:uuid;primaryKey"`
	Name          string              `gorm:"not null"`
	CurrentAmount decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	TargetAmount  decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	Color         string              `gorm:"type:varchar(16);not null"`
	HouseholdID   string              `gorm:"type:uuid;not null"`
	CreatedAt     time.Time           `gorm:"autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt      `gorm:"index"`
}

func (Goal) TableName() string {
	return "savings_goals"
}

type CreateInput struct {
	Name          string
	CurrentAmount decimal.Decimal
	TargetAmount  decimal.NullDecimal
	Color         string
}

// OptionalDecimal tells an omitted field (Set=false) apart from an explicit
// clear (Set=true, Value=nil).
type OptionalDecimal struct {
	Set   bool
	Value *decimal.Decimal
}

type EditInput struct {
	Name         *string
	Color        *string
	TargetAmount OptionalDecimal
}

type BalanceInput struct {
	Delta       decimal.Decimal
	Description string
}

// HistoryEntry is one balance change reconstructed from the audit log.
type HistoryEntry struct {
	ID              string
	Diff            decimal.Decimal
	NewBalance      decimal.Decimal
	Description     string
	Timestamp       time.Time
	PerformedByID   string
	PerformedByName string
}
