package handler

import (
	"bytes"
	"net/http"
	"time"

	"household-finance/internal/apperr"
	transactionsdomain "household-finance/internal/domain/transactions"
	"household-finance/internal/export"
	"household-finance/pkg/logger"
)

type createTransactionRequest struct {
	Amount          int64   `json:"amount"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	Date            *date   `json:"date"`
	Description     *string `json:"description"`
	RecurringItemID *string `json:"recurringItemId"`
}

type transactionResponse struct {
	ID                  string    `json:"id"`
	Amount              int64     `json:"amount"`
	Type                string    `json:"type"`
	Category            string    `json:"category"`
	Date                string    `json:"date"`
	Description         *string   `json:"description"`
	IsRecurringInstance bool      `json:"isRecurringInstance"`
	RecurringItemID     *string   `json:"recurringItemId"`
	CreatedBy           string    `json:"createdBy"`
	CreatorName         string    `json:"creatorName,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

type exportErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "transactions.List")
	if !ok {
		return
	}

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}

	views, err := h.Transactions.List(r.Context(), membership.HouseholdID, from, to)
	if err != nil {
		h.fail(w, r, "transactions.List", err, "household_id", membership.HouseholdID)
		return
	}

	resp := make([]transactionResponse, 0, len(views))
	for i := range views {
		resp = append(resp, newTransactionResponse(&views[i].Transaction, views[i].CreatorName))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "transactions.Create")
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	recurringItemID, ok := optionalID(req.RecurringItemID)
	if !ok {
		invalidRequest(w, "invalid recurringItemId")
		return
	}

	input := transactionsdomain.CreateInput{
		Amount:          req.Amount,
		Type:            req.Type,
		Category:        req.Category,
		Description:     req.Description,
		RecurringItemID: recurringItemID,
	}
	if req.Date != nil {
		input.Date = req.Date.Time
	}

	transaction, err := h.Transactions.Create(r.Context(), user.ID, membership.HouseholdID, input)
	if err != nil {
		h.fail(w, r, "transactions.Create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(transaction, ""))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "transactions.Delete")
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Transactions.Delete(r.Context(), user.ID, membership.HouseholdID, id); err != nil {
		h.fail(w, r, "transactions.Delete", err, "user_id", user.ID, "transaction_id", id)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "transaction deleted"})
}

// ExportTransactions streams the selected range as an XLSX workbook. The
// workbook is rendered into memory first so a failure still produces a JSON
// error body.
func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "transactions.Export")
	if !ok {
		return
	}

	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	kind, err := transactionsdomain.ParseScopeKind(r.URL.Query().Get("scope"))
	if err != nil {
		h.fail(w, r, "transactions.Export", err)
		return
	}

	scope := transactionsdomain.Scope{Kind: kind, UserID: user.ID, HouseholdID: membership.HouseholdID}
	rows, err := h.Transactions.Export(r.Context(), scope, from, to)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			h.fail(w, r, "transactions.Export", err)
			return
		}
		h.exportFailed(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTransactions(&buf, rows); err != nil {
		h.exportFailed(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handlers) exportFailed(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context(), h.log).InternalError("transactions.Export: failed", err)
	writeJSON(w, http.StatusInternalServerError, exportErrorBody{Error: "export failed", Details: err.Error()})
}

func dateRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	from, err := parseDateParam(r.URL.Query().Get("startDate"))
	if err != nil {
		invalidRequest(w, "invalid startDate")
		return nil, nil, false
	}
	to, err := parseDateParam(r.URL.Query().Get("endDate"))
	if err != nil {
		invalidRequest(w, "invalid endDate")
		return nil, nil, false
	}
	return from, to, true
}

func newTransactionResponse(transaction *transactionsdomain.Transaction, creatorName string) transactionResponse {
	return transactionResponse{
		ID:                  transaction.ID,
		Amount:              transaction.Amount,
		Type:                transaction.Type,
		Category:            transaction.Category,
		Date:                transaction.Date.Format(time.DateOnly),
		Description:         transaction.Description,
		IsRecurringInstance: transaction.IsRecurringInstance,
		RecurringItemID:     transaction.RecurringItemID,
		CreatedBy:           transaction.CreatedBy,
		CreatorName:         creatorName,
		CreatedAt:           transaction.CreatedAt,
	}
}
