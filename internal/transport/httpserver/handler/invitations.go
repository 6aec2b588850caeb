package handler

import (
	"net/http"
	"time"

	householddomain "household-finance/internal/domain/household"
)

type sendInvitationRequest struct {
	Email string `json:"email"`
}

type invitationResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Code        string    `json:"code"`
	Status      string    `json:"status"`
	HouseholdID string    `json:"householdId"`
	InvitedByID string    `json:"invitedById"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *Handlers) ListInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	invitations, err := h.Households.ListPendingInvitations(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, "invitations.List", err, "user_id", user.ID)
		return
	}

	resp := make([]invitationResponse, 0, len(invitations))
	for i := range invitations {
		resp = append(resp, newInvitationResponse(&invitations[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) SendInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req sendInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	invitation, err := h.Households.SendInvitation(r.Context(), user.ID, req.Email)
	if err != nil {
		h.fail(w, r, "invitations.Send", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, newInvitationResponse(invitation))
}

func (h *Handlers) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	invitationID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Households.RevokeInvitation(r.Context(), user.ID, invitationID); err != nil {
		h.fail(w, r, "invitations.Revoke", err, "user_id", user.ID, "invitation_id", invitationID)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "invitation revoked"})
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req codeRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	household, err := h.Households.AcceptInvitation(r.Context(), user.ID, req.Code)
	if err != nil {
		h.fail(w, r, "invitations.Accept", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, joinResponse{Message: "invitation accepted", HouseholdID: household.ID})
}

func newInvitationResponse(invitation *householddomain.Invitation) invitationResponse {
	return invitationResponse{
		ID:          invitation.ID,
		Email:       invitation.Email,
		Code:        invitation.Code,
		Status:      invitation.Status,
		HouseholdID: invitation.HouseholdID,
		InvitedByID: invitation.InvitedByID,
		CreatedAt:   invitation.CreatedAt,
	}
}
