package user

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

type User struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	DisplayName      string    `gorm:"not null"`
	Email            string    `gorm:"not null;uniqueIndex"`
	PasswordHash     string    `gorm:"not null"`
	HouseholdID      *string   `gorm:"type:uuid;index"`
	MembershipStatus string    `gorm:"type:varchar(16);not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (u *User) HasHousehold() bool {
	return u.HouseholdID != nil && *u.HouseholdID != ""
}

type AuthResult struct {
	Token string
	User  *User
}
