package shopping

import "time"

const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"

	UnitPiece    = "db"
	UnitKilogram = "kg"
	UnitLiter    = "l"
)

type List struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	HouseholdID string    `gorm:"type:uuid;not null"`
	CreatedBy   string    `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (List) TableName() string {
	return "shopping_lists"
}

type Item struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ListID    string    `gorm:"type:uuid;not null"`
	Name      string    `gorm:"not null"`
	Unit      string    `gorm:"type:varchar(4);not null"`
	Quantity  float64   `gorm:"not null"`
	Purchased bool      `gorm:"not null"`
	AddedBy   *string   `gorm:"type:uuid"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "shopping_items"
}

type ItemView struct {
	Item
	AddedByName *string
}

type ListWithItems struct {
	List
	Items []ItemView
}

type AddItemInput struct {
	Name     string
	Unit     string
	Quantity *float64
}

type UpdateItemInput struct {
	Purchased *bool
	Quantity  *float64
}

func ValidUnit(value string) bool {
	switch value {
	case UnitPiece, UnitKilogram, UnitLiter:
		return true
	default:
		return false
	}
}

// StatusFor derives a list's status from its items: COMPLETED only when the
// list is non-empty and every item is purchased.
func StatusFor(items []Item) string {
	if len(items) == 0 {
		return StatusActive
	}
	for _, item := range items {
		if !item.Purchased {
			return StatusActive
		}
	}
	return StatusCompleted
}
