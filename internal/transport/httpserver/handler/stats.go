package handler

import (
	"net/http"
	"time"

	transactionsdomain "household-finance/internal/domain/transactions"
)

type dayTotalResponse struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

type monthCategoryResponse struct {
	Month    string `json:"month"`
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

type categoryAverageResponse struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
}

type averagesResponse struct {
	SixMonths    []categoryAverageResponse `json:"sixMonths"`
	TwelveMonths []categoryAverageResponse `json:"twelveMonths"`
}

func (h *Handlers) Heatmap(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.statsScope(w, r, "stats.Heatmap")
	if !ok {
		return
	}
	year, month, ok := statsMonth(w, r)
	if !ok {
		return
	}

	days, err := h.Stats.Heatmap(r.Context(), scope, year, month)
	if err != nil {
		h.fail(w, r, "stats.Heatmap", err)
		return
	}

	resp := make([]dayTotalResponse, 0, len(days))
	for _, day := range days {
		resp = append(resp, dayTotalResponse{Date: day.Date.Format(time.DateOnly), Total: day.Total})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Inflation(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.statsScope(w, r, "stats.Inflation")
	if !ok {
		return
	}

	totals, err := h.Stats.Inflation(r.Context(), scope)
	if err != nil {
		h.fail(w, r, "stats.Inflation", err)
		return
	}

	resp := make([]monthCategoryResponse, 0, len(totals))
	for _, total := range totals {
		resp = append(resp, monthCategoryResponse{Month: total.Month, Category: total.Category, Total: total.Total})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Pie(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.statsScope(w, r, "stats.Pie")
	if !ok {
		return
	}
	year, month, ok := statsMonth(w, r)
	if !ok {
		return
	}

	totals, err := h.Stats.Pie(r.Context(), scope, year, month)
	if err != nil {
		h.fail(w, r, "stats.Pie", err)
		return
	}

	resp := make([]categoryTotalResponse, 0, len(totals))
	for _, total := range totals {
		resp = append(resp, categoryTotalResponse{Category: total.Category, Total: total.Total})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Averages(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.statsScope(w, r, "stats.Averages")
	if !ok {
		return
	}

	averages, err := h.Stats.Averages(r.Context(), scope)
	if err != nil {
		h.fail(w, r, "stats.Averages", err)
		return
	}

	resp := averagesResponse{
		SixMonths:    make([]categoryAverageResponse, 0, len(averages.Short)),
		TwelveMonths: make([]categoryAverageResponse, 0, len(averages.Long)),
	}
	for _, avg := range averages.Short {
		resp.SixMonths = append(resp.SixMonths, categoryAverageResponse{Category: avg.Category, Average: avg.Average})
	}
	for _, avg := range averages.Long {
		resp.TwelveMonths = append(resp.TwelveMonths, categoryAverageResponse{Category: avg.Category, Average: avg.Average})
	}
	writeJSON(w, http.StatusOK, resp)
}

// statsScope defaults to the caller's own transactions; ?scope=household
// widens it to the whole household.
func (h *Handlers) statsScope(w http.ResponseWriter, r *http.Request, op string) (transactionsdomain.Scope, bool) {
	user, membership, ok := h.member(w, r, op)
	if !ok {
		return transactionsdomain.Scope{}, false
	}

	kind, err := transactionsdomain.ParseScopeKind(r.URL.Query().Get("scope"))
	if err != nil {
		h.fail(w, r, op, err)
		return transactionsdomain.Scope{}, false
	}

	return transactionsdomain.Scope{Kind: kind, UserID: user.ID, HouseholdID: membership.HouseholdID}, true
}

// statsMonth reads year and a zero-based month, defaulting to now.
func statsMonth(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	now := time.Now().UTC()
	year, err := parseIntParam(r.URL.Query().Get("year"), now.Year())
	if err != nil {
		invalidRequest(w, "invalid year")
		return 0, 0, false
	}
	month, err := parseIntParam(r.URL.Query().Get("month"), int(now.Month())-1)
	if err != nil {
		invalidRequest(w, "invalid month")
		return 0, 0, false
	}
	return year, month, true
}
