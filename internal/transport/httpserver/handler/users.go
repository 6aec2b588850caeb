package handler

import (
	"net/http"
	"time"

	userdomain "household-finance/internal/domain/user"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"displayName"`
	HouseholdID      *string   `json:"householdId"`
	MembershipStatus string    `json:"membershipStatus"`
	CreatedAt        time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	result, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.fail(w, r, "users.Register", err)
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(result))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	result, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "users.Login", err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	found, err := h.Users.Me(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, "users.Me", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(found))
}

func newAuthResponse(result *userdomain.AuthResult) authResponse {
	return authResponse{Token: result.Token, User: newUserResponse(result.User)}
}

// The password hash never leaves this projection.
func newUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		HouseholdID:      u.HouseholdID,
		MembershipStatus: u.MembershipStatus,
		CreatedAt:        u.CreatedAt,
	}
}
