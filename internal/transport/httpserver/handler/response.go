package handler

import (
	"encoding/json"
	"net/http"

	"household-finance/internal/apperr"
	householddomain "household-finance/internal/domain/household"
	"household-finance/internal/transport/httpserver/middleware"
	"household-finance/pkg/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Conflicts that the client contract reports as 400 rather than 409.
var badRequestCodes = map[string]struct{}{
	"already_member":       {},
	"email_taken":          {},
	"duplicate_pending":    {},
	"self_invite":          {},
	"already_in_household": {},
	"invalid_credentials":  {},
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func invalidJSON(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
}

func invalidRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}

// StatusFor maps a domain error to its HTTP status. Errors outside the
// taxonomy are internal.
func StatusFor(err error) int {
	appErr, ok := apperr.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if _, ok := badRequestCodes[appErr.Code]; ok {
		return http.StatusBadRequest
	}

	switch appErr.Kind {
	case apperr.KindValidation, apperr.KindInvariant:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err against op and writes the mapped error response.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	log := logger.FromContext(r.Context(), h.log)

	status := StatusFor(err)
	appErr, ok := apperr.As(err)
	if !ok || status == http.StatusInternalServerError {
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	log.BusinessError(op+": rejected", err, args...)
	writeError(w, status, appErr.Code, appErr.Message)
}

func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.User{}, false
	}
	return user, true
}

// member resolves the caller and their approved household membership.
func (h *Handlers) member(w http.ResponseWriter, r *http.Request, op string) (middleware.User, *householddomain.Membership, bool) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return middleware.User{}, nil, false
	}

	membership, err := h.Members.RequireApproved(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, op, err, "user_id", user.ID)
		return middleware.User{}, nil, false
	}
	return user, membership, true
}
