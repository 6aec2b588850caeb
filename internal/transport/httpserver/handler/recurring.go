package handler

import (
	"net/http"
	"time"

	recurringdomain "household-finance/internal/domain/recurring"
)

type createRecurringRequest struct {
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
	AutoPay   bool   `json:"autoPay"`
	PayDay    *int   `json:"payDay"`
	StartDate *date  `json:"startDate"`
}

type updateRecurringRequest struct {
	Name      *string     `json:"name"`
	Amount    *int64      `json:"amount"`
	Category  *string     `json:"category"`
	Frequency *string     `json:"frequency"`
	AutoPay   *bool       `json:"autoPay"`
	PayDay    optionalInt `json:"payDay"`
	StartDate *date       `json:"startDate"`
	Active    *bool       `json:"active"`
}

type payRecurringRequest struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Amount      *int64  `json:"amount"`
	Date        *date   `json:"date"`
	Description *string `json:"description"`
}

type recurringResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Frequency   string    `json:"frequency"`
	Active      bool      `json:"active"`
	AutoPay     bool      `json:"autoPay"`
	StartDate   string    `json:"startDate"`
	PayDay      *int      `json:"payDay"`
	HouseholdID string    `json:"householdId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type dueItemResponse struct {
	Item       recurringResponse    `json:"item"`
	TargetDate string               `json:"targetDate"`
	Paid       bool                 `json:"paid"`
	Payable    bool                 `json:"payable"`
	Payment    *transactionResponse `json:"payment"`
}

func (h *Handlers) ListRecurring(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "recurring.List")
	if !ok {
		return
	}

	items, err := h.Recurring.List(r.Context(), membership.HouseholdID)
	if err != nil {
		h.fail(w, r, "recurring.List", err, "household_id", membership.HouseholdID)
		return
	}

	resp := make([]recurringResponse, 0, len(items))
	for i := range items {
		resp = append(resp, newRecurringResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "recurring.Create")
	if !ok {
		return
	}

	var req createRecurringRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	input := recurringdomain.CreateInput{
		Name:      req.Name,
		Amount:    req.Amount,
		Category:  req.Category,
		Frequency: req.Frequency,
		AutoPay:   req.AutoPay,
		PayDay:    req.PayDay,
	}
	if req.StartDate != nil {
		input.StartDate = &req.StartDate.Time
	}

	item, err := h.Recurring.Create(r.Context(), user.ID, membership.HouseholdID, input)
	if err != nil {
		h.fail(w, r, "recurring.Create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, newRecurringResponse(item))
}

func (h *Handlers) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "recurring.Update")
	if !ok {
		return
	}

	var req updateRecurringRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	input := recurringdomain.UpdateInput{
		Name:      req.Name,
		Amount:    req.Amount,
		Category:  req.Category,
		Frequency: req.Frequency,
		AutoPay:   req.AutoPay,
		PayDay:    recurringdomain.OptionalInt{Set: req.PayDay.Set, Value: req.PayDay.Value},
		Active:    req.Active,
	}
	if req.StartDate != nil {
		input.StartDate = &req.StartDate.Time
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.Recurring.Update(r.Context(), user.ID, membership.HouseholdID, id, input)
	if err != nil {
		h.fail(w, r, "recurring.Update", err, "user_id", user.ID, "item_id", id)
		return
	}

	writeJSON(w, http.StatusOK, newRecurringResponse(item))
}

// DeleteRecurring deactivates the item; its history stays.
func (h *Handlers) DeleteRecurring(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "recurring.Delete")
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.Recurring.Deactivate(r.Context(), user.ID, membership.HouseholdID, id); err != nil {
		h.fail(w, r, "recurring.Delete", err, "user_id", user.ID, "item_id", id)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "recurring item deactivated"})
}

// RecurringMonth expects a 1-based month; both params default to the
// current month.
func (h *Handlers) RecurringMonth(w http.ResponseWriter, r *http.Request) {
	_, membership, ok := h.member(w, r, "recurring.Month")
	if !ok {
		return
	}

	now := time.Now().UTC()
	year, err := parseIntParam(r.URL.Query().Get("year"), now.Year())
	if err != nil {
		invalidRequest(w, "invalid year")
		return
	}
	month, err := parseIntParam(r.URL.Query().Get("month"), int(now.Month()))
	if err != nil {
		invalidRequest(w, "invalid month")
		return
	}

	due, err := h.Recurring.MonthView(r.Context(), membership.HouseholdID, year, time.Month(month))
	if err != nil {
		h.fail(w, r, "recurring.Month", err, "household_id", membership.HouseholdID)
		return
	}

	resp := make([]dueItemResponse, 0, len(due))
	for i := range due {
		entry := dueItemResponse{
			Item:       newRecurringResponse(&due[i].Item),
			TargetDate: due[i].TargetDate.Format(time.DateOnly),
			Paid:       due[i].Payment != nil,
			Payable:    due[i].Payable,
		}
		if due[i].Payment != nil {
			payment := newTransactionResponse(due[i].Payment, "")
			entry.Payment = &payment
		}
		resp = append(resp, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) PayRecurring(w http.ResponseWriter, r *http.Request) {
	user, membership, ok := h.member(w, r, "recurring.Pay")
	if !ok {
		return
	}

	var req payRecurringRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	input := recurringdomain.PayInput{
		Year:        req.Year,
		Month:       time.Month(req.Month),
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		input.Date = &req.Date.Time
	}

	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	transaction, err := h.Recurring.Pay(r.Context(), user.ID, membership.HouseholdID, id, input)
	if err != nil {
		h.fail(w, r, "recurring.Pay", err, "user_id", user.ID, "item_id", id)
		return
	}

	writeJSON(w, http.StatusCreated, newTransactionResponse(transaction, ""))
}

func newRecurringResponse(item *recurringdomain.RecurringItem) recurringResponse {
	return recurringResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Amount:      item.Amount,
		Frequency:   item.Frequency,
		Active:      item.Active,
		AutoPay:     item.AutoPay,
		StartDate:   item.StartDate.Format(time.DateOnly),
		PayDay:      item.PayDay,
		HouseholdID: item.HouseholdID,
		CreatedAt:   item.CreatedAt,
	}
}
