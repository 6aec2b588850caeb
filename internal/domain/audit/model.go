package audit

import (
	"time"

	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionCreateHousehold     ActionType = "CREATE_HOUSEHOLD"
	ActionJoinHousehold       ActionType = "JOIN_HOUSEHOLD"
	ActionApproveMember       ActionType = "APPROVE_MEMBER"
	ActionRemoveMember        ActionType = "REMOVE_MEMBER"
	ActionSendInvitation      ActionType = "SEND_INVITATION"
	ActionRevokeInvitation    ActionType = "REVOKE_INVITATION"
	ActionAcceptInvitation    ActionType = "ACCEPT_INVITATION"
	ActionCreateRecurring     ActionType = "CREATE_RECURRING"
	ActionUpdateRecurring     ActionType = "UPDATE_RECURRING"
	ActionDeleteRecurring     ActionType = "DELETE_RECURRING"
	ActionCreateTransaction   ActionType = "CREATE_TRANSACTION"
	ActionDeleteTransaction   ActionType = "DELETE_TRANSACTION"
	ActionCreateSaving        ActionType = "CREATE_SAVING"
	ActionUpdateSaving        ActionType = "UPDATE_SAVING"
	ActionUpdateSavingBalance ActionType = "UPDATE_SAVING_BALANCE"
	ActionDeleteSaving        ActionType = "DELETE_SAVING"
	ActionCreateShoppingList  ActionType = "CREATE_SHOPPING_LIST"
	ActionDeleteShoppingList  ActionType = "DELETE_SHOPPING_LIST"
	ActionAddShoppingItem     ActionType = "ADD_SHOPPING_ITEM"
	ActionUpdateShoppingItem  ActionType = "UPDATE_SHOPPING_ITEM"
	ActionDeleteShoppingItem  ActionType = "DELETE_SHOPPING_ITEM"
)

var knownActions = map[ActionType]struct{}{
	ActionCreateHousehold:     {},
	ActionJoinHousehold:       {},
	ActionApproveMember:       {},
	ActionRemoveMember:        {},
	ActionSendInvitation:      {},
	ActionRevokeInvitation:    {},
	ActionAcceptInvitation:    {},
	ActionCreateRecurring:     {},
	ActionUpdateRecurring:     {},
	ActionDeleteRecurring:     {},
	ActionCreateTransaction:   {},
	ActionDeleteTransaction:   {},
	ActionCreateSaving:        {},
	ActionUpdateSaving:        {},
	ActionUpdateSavingBalance: {},
	ActionDeleteSaving:        {},
	ActionCreateShoppingList:  {},
	ActionDeleteShoppingList:  {},
	ActionAddShoppingItem:     {},
	ActionUpdateShoppingItem:  {},
	ActionDeleteShoppingItem:  {},
}

func (a ActionType) Valid() bool {
	_, ok := knownActions[a]
	return ok
}

// Entry is one row of the append-only audit log. Rows are never updated or
// deleted.
type Entry struct {
	ID                string         `gorm:"type:uuid;primaryKey"`
	ActionType        ActionType     `gorm:"type:varchar(32);not null"`
	OriginalData      datatypes.JSON `gorm:"type:jsonb;not null"`
	Timestamp         time.Time      `gorm:"not null"`
	PerformedByUserID string         `gorm:"type:uuid;not null"`
	HouseholdID       string         `gorm:"type:uuid;not null;index"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

type EntryView struct {
	Entry
	PerformedByName string
}
