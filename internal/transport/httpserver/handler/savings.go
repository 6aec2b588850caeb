package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	savingsdomain "household-finance/internal/domain/savings"
)

type createSavingRequest struct {
	Name          string          `json:"name"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetAmount  optionalDecimal `json:"targetAmount"`
	Color         string          `json:"color"`
}

type editSavingRequest struct {
	Name         *string         `json:"name"`
	Color        *string         `json:"color"`
	TargetAmount optionalDecimal `json:"targetAmount"`
}

type balanceRequest struct {
	AmountDiff  decimal.Decimal `json:"amountDiff"`
	Description string          `json:"description"`
}

type savingResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CurrentAmount json.Number  `json:"currentAmount"`
	TargetAmount  *json.Number `json:"targetAmount"`
	Color         string       `json:"color"`
	HouseholdID   string       `json:"householdId"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type savingHistoryResponse struct {
	ID              string      `json:"id"`
	Diff            json.Number `json:"diff"`
	NewBalance      json.Number `json:"newBalance"`
	Description     string      `json:"description"`
	Timestamp       time.Time   `json:"timestamp"`
	PerformedByID   string      `json:"performedById"`
	PerformedByName string      `json:"performedByName"`
}

func (h *Handlers) ListSavings(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "savings.List")
	if !ok {
		return
	}

	goals, err := h.Savings.List(r.Context(), membership.HouseholdID)
	if err != nil {
		h.fail(w, r, "savings.List", err, "household_id", membership.HouseholdID)
		return
	}

	resp := make([]savingResponse, 0, len(goals))
	for i := range goals {
		resp = append(resp, newSavingResponse(&goals[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateSaving(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "savings.Create")
	if !ok {
		return
	}

	var req createSavingRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	goal, err := h.Savings.Create(r.Context(), user.ID, membership.HouseholdID, savingsdomain.CreateInput{
		Name:          req.Name,
		CurrentAmount: req.CurrentAmount,
		TargetAmount:  req.TargetAmount.nullDecimal(),
		Color:         req.Color,
	})
	if err != nil {
		h.fail(w, r, "savings.Create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, newSavingResponse(goal))
}

func (h *Handlers) EditSaving(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "savings.Edit")
	if !ok {
		return
	}

	var req editSavingRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	goal, err := h.Savings.EditGoal(r.Context(), user.ID, membership.HouseholdID, id, savingsdomain.EditInput{
		Name:         req.Name,
		Color:        req.Color,
		TargetAmount: savingsdomain.OptionalDecimal{Set: req.TargetAmount.Set, Value: req.TargetAmount.Value},
	})
	if err != nil {
		h.fail(w, r, "savings.Edit", err, "user_id", user.ID, "saving_id", id)
		return
	}

	writeJSON(w, http.StatusOK, newSavingResponse(goal))
}

func (h *Handlers) UpdateSavingBalance(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "savings.Balance")
	if !ok {
		return
	}

	var req balanceRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	goal, err := h.Savings.ApplyBalanceDelta(r.Context(), user.ID, membership.HouseholdID, id, savingsdomain.BalanceInput{
		Delta:       req.AmountDiff,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, "savings.Balance", err, "user_id", user.ID, "saving_id", id)
		return
	}

	writeJSON(w, http.StatusOK, newSavingResponse(goal))
}

func (h *Handlers) DeleteSaving(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "savings.Delete")
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Savings.Delete(r.Context(), user.ID, membership.HouseholdID, id); err != nil {
		h.fail(w, r, "savings.Delete", err, "user_id", user.ID, "saving_id", id)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "saving goal deleted"})
}

func (h *Handlers) SavingHistory(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "savings.History")
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.Savings.History(r.Context(), membership.HouseholdID, id)
	if err != nil {
		h.fail(w, r, "savings.History", err, "saving_id", id)
		return
	}

	resp := make([]savingHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, savingHistoryResponse{
			ID:              entry.ID,
			Diff:            json.Number(entry.Diff.String()),
			NewBalance:      json.Number(entry.NewBalance.String()),
			Description:     entry.Description,
			Timestamp:       entry.Timestamp,
			PerformedByID:   entry.PerformedByID,
			PerformedByName: entry.PerformedByName,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func newSavingResponse(goal *savingsdomain.Goal) savingResponse {
	resp := savingResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		CurrentAmount: json.Number(goal.CurrentAmount.String()),
		Color:         goal.Color,
		HouseholdID:   goal.HouseholdID,
		CreatedAt:     goal.CreatedAt,
		UpdatedAt:     goal.UpdatedAt,
	}
	if goal.TargetAmount.Valid {
		target := json.Number(goal.TargetAmount.Decimal.String())
		resp.TargetAmount = &target
	}
	return resp
}
