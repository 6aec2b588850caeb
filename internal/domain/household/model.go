package household

import "time"

const (
	CurrencyHUF = "HUF"
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"

	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
)

type Household struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"not null"`
	InviteCode string    `gorm:"size:16;not null;uniqueIndex"`
	Currency   string    `gorm:"size:3;not null"`
	OwnerID    string    `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

type Invitation struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Email       string    `gorm:"not null"`
	Code        string    `gorm:"size:6;not null;uniqueIndex"`
	Status      string    `gorm:"size:16;not null"`
	HouseholdID string    `gorm:"type:uuid;not null"`
	InvitedByID string    `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type Member struct {
	ID               string
	DisplayName      string
	Email            string
	MembershipStatus string
}

type HouseholdWithMembers struct {
	Household
	Members []Member
}

// Membership is the authorization context of an acting user, read fresh for
// every request.
type Membership struct {
	UserID      string
	HouseholdID string
	Status      string
	IsOwner     bool
}

func validCurrency(currency string) bool {
	switch currency {
	case CurrencyHUF, CurrencyEUR, CurrencyUSD:
		return true
	default:
		return false
	}
}
