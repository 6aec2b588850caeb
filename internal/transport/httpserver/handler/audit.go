package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

type auditEntryResponse struct {
	ID                string          `json:"id"`
	ActionType        string          `json:"actionType"`
	OriginalData      json.RawMessage `json:"originalData"`
	Timestamp         time.Time       `json:"timestamp"`
	PerformedByUserID string          `json:"performedByUserId"`
	PerformedByName   string          `json:"performedByName"`
}

// ListAuditLogs returns the household's 50 most recent entries, newest first.
func (h *Handlers) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "audit.List")
	if !ok {
		return
	}

	entries, err := h.Audit.List(r.Context(), membership.HouseholdID)
	if err != nil {
		h.fail(w, r, "audit.List", err, "household_id", membership.HouseholdID)
		return
	}

	resp := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, auditEntryResponse{
			ID:                entry.ID,
			ActionType:        string(entry.ActionType),
			OriginalData:      json.RawMessage(entry.OriginalData),
			Timestamp:         entry.Timestamp,
			PerformedByUserID: entry.PerformedByUserID,
			PerformedByName:   entry.PerformedByName,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
