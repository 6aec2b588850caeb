package handler

import (
	"errors"
	"net/http"
	"time"

	householddomain "household-finance/internal/domain/household"
)

type createHouseholdRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type householdResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"inviteCode"`
	Currency   string    `json:"currency"`
	OwnerID    string    `json:"ownerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type memberResponse struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	Email            string `json:"email"`
	MembershipStatus string `json:"membershipStatus"`
}

type currentHouseholdResponse struct {
	householdResponse
	Members []memberResponse `json:"members"`
}

type joinResponse struct {
	Message     string `json:"message"`
	HouseholdID string `json:"householdId"`
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	household, err := h.Households.CreateHousehold(r.Context(), user.ID, req.Name, req.Currency)
	if err != nil {
		h.fail(w, r, "households.Create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, newHouseholdResponse(household))
}

func (h *Handlers) JoinHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req codeRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	household, err := h.Households.JoinHousehold(r.Context(), user.ID, req.Code)
	if err != nil {
		h.fail(w, r, "households.Join", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{
		Message:     "join request sent, waiting for owner approval",
		HouseholdID: household.ID,
	})
}

func (h *Handlers) CurrentHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	current, err := h.Households.GetCurrent(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, householddomain.ErrNoHousehold) {
			writeError(w, http.StatusNotFound, "no_household", err.Error())
			return
		}
		h.fail(w, r, "households.Current", err, "user_id", user.ID)
		return
	}

	resp := currentHouseholdResponse{
		householdResponse: newHouseholdResponse(&current.Household),
		Members:           make([]memberResponse, 0, len(current.Members)),
	}
	for _, member := range current.Members {
		resp.Members = append(resp.Members, memberResponse{
			ID:               member.ID,
			DisplayName:      member.DisplayName,
			Email:            member.Email,
			MembershipStatus: member.MembershipStatus,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ApproveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	memberID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Households.ApproveMember(r.Context(), user.ID, memberID); err != nil {
		h.fail(w, r, "households.ApproveMember", err, "user_id", user.ID, "member_id", memberID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "member approved"})
}

// RemoveMember removes another member (owner only) or, when the id is the
// caller's own, leaves the household.
func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	memberID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Households.RemoveMember(r.Context(), user.ID, memberID); err != nil {
		h.fail(w, r, "households.RemoveMember", err, "user_id", user.ID, "member_id", memberID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "member removed"})
}

func newHouseholdResponse(household *householddomain.Household) householdResponse {
	return householdResponse{
		ID:         household.ID,
		Name:       household.Name,
		InviteCode: household.InviteCode,
		Currency:   household.Currency,
		OwnerID:    household.OwnerID,
		CreatedAt:  household.CreatedAt,
	}
}
