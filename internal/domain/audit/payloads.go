package audit

import "encoding/json"

// Payload shapes stored in Entry.OriginalData, one per action type.

type CreateHouseholdPayload struct {
	Name       string `json:"name"`
	InviteCode string `json:"inviteCode"`
}

type JoinHouseholdPayload struct {
	Code string `json:"code"`
}

type MemberPayload struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
}

type InvitationPayload struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

type CreateRecurringPayload struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type UpdateRecurringPayload struct {
	ID      string         `json:"id"`
	Updates map[string]any `json:"updates"`
}

type NamePayload struct {
	Name string `json:"name"`
}

type CreateTransactionPayload struct {
	Amount          int64   `json:"amount"`
	Description     *string `json:"description"`
	Type            string  `json:"type"`
	RecurringItemID *string `json:"recurringItemId,omitempty"`
}

type DeleteTransactionPayload struct {
	Amount      int64   `json:"amount"`
	Description *string `json:"desc"`
}

type CreateSavingPayload struct {
	Name   string       `json:"name"`
	Target *json.Number `json:"target"`
}

type SavingSnapshot struct {
	Name   string       `json:"name"`
	Target *json.Number `json:"target"`
}

type UpdateSavingPayload struct {
	SavingID string         `json:"savingId"`
	Old      SavingSnapshot `json:"old"`
	New      SavingSnapshot `json:"new"`
}

type SavingBalancePayload struct {
	SavingID    string      `json:"savingId"`
	Name        string      `json:"name"`
	Diff        json.Number `json:"diff"`
	NewBalance  json.Number `json:"newBalance"`
	Description string      `json:"description"`
}

type ShoppingListPayload struct {
	ListID string `json:"listId"`
	Name   string `json:"name"`
}

type ShoppingItemPayload struct {
	ListID    string   `json:"listId"`
	ItemID    string   `json:"itemId"`
	Name      string   `json:"name"`
	Purchased *bool    `json:"purchased,omitempty"`
	Quantity  *float64 `json:"quantity,omitempty"`
}
