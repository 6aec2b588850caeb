package recurring

import (
	"time"

	"household-finance/internal/domain/transactions"
)

const (
	FrequencyMonthly    = "MONTHLY"
	FrequencyBimonthly  = "BIMONTHLY"
	FrequencyQuarterly  = "QUARTERLY"
	FrequencyHalfYearly = "HALF-YEARLY"
	FrequencyYearly     = "YEARLY"
)

// RecurringItem is a planned periodic obligation. Amount is the planned
// value in minor units; actual payments are transactions linked back to it.
type RecurringItem struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Category    string    `gorm:"not null"`
	Amount      int64     `gorm:"not null"`
	Frequency   string    `gorm:"type:varchar(16);not null"`
	Active      bool      `gorm:"not null"`
	AutoPay     bool      `gorm:"not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	PayDay      *int
	HouseholdID string    `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	Name      string
	Amount    int64
	Category  string
	Frequency string
	AutoPay   bool
	PayDay    *int
	StartDate *time.Time
}

// OptionalInt distinguishes an omitted field (Set=false) from an explicit
// null (Set=true, Value=nil).
type OptionalInt struct {
	Set   bool
	Value *int
}

type UpdateInput struct {
	Name      *string
	Amount    *int64
	Category  *string
	Frequency *string
	AutoPay   *bool
	PayDay    OptionalInt
	StartDate *time.Time
	Active    *bool
}

type PayInput struct {
	Year        int
	Month       time.Month
	Amount      *int64
	Date        *time.Time
	Description *string
}

// DueItem is one row of a month view: an item due that month, the day it
// should be paid and the payment recorded for it, if any.
type DueItem struct {
	Item       RecurringItem
	TargetDate time.Time
	Payment    *transactions.Transaction
	Payable    bool
}
