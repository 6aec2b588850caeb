package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"household-finance/internal/apperr"
	"household-finance/internal/auth"
	auditdomain "household-finance/internal/domain/audit"
	householddomain "household-finance/internal/domain/household"
	recurringdomain "household-finance/internal/domain/recurring"
	savingsdomain "household-finance/internal/domain/savings"
	transactionsdomain "household-finance/internal/domain/transactions"
	userdomain "household-finance/internal/domain/user"
	"household-finance/internal/export"
	"household-finance/internal/transport/httpserver/middleware"
	"household-finance/pkg/logger"
)

type stubMembers struct {
	membership *householddomain.Membership
	err        error
}

func (s stubMembers) RequireApproved(ctx context.Context, userID string) (*householddomain.Membership, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.membership, nil
}

func approved(householdID string) stubMembers {
	return stubMembers{membership: &householddomain.Membership{
		UserID:      "user-1",
		HouseholdID: householdID,
		Status:      userdomain.StatusApproved,
	}}
}

// serve routes a single request through chi so URL params resolve, with
// user-1 authenticated unless anonymous is set.
func serve(t *testing.T, method, pattern, target string, body string, fn http.HandlerFunc, anonymous bool) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !anonymous {
			req = req.WithContext(middleware.WithUser(req.Context(), middleware.User{ID: "user-1", Email: "a@x.com"}))
		}
		fn(w, req)
	}))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"invariant", savingsdomain.ErrInsufficientFunds, http.StatusBadRequest},
		{"authentication", apperr.New(apperr.KindAuthentication, "invalid_token", "x"), http.StatusUnauthorized},
		{"authorization", householddomain.ErrNotOwner, http.StatusForbidden},
		{"not found", householddomain.ErrInvalidCode, http.StatusNotFound},
		{"conflict", recurringdomain.ErrAlreadyPaid, http.StatusConflict},
		{"already member", householddomain.ErrAlreadyMember, http.StatusBadRequest},
		{"email taken", userdomain.ErrEmailTaken, http.StatusBadRequest},
		{"duplicate pending", householddomain.ErrDuplicatePending, http.StatusBadRequest},
		{"bad credentials", userdomain.ErrInvalidCredentials, http.StatusBadRequest},
		{"wrapped", errors.Join(errors.New("ctx"), householddomain.ErrMemberNotFound), http.StatusNotFound},
		{"plain", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFailHidesInternalDetails(t *testing.T) {
	h := New(Services{}, logger.Discard())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	h.fail(rec, req, "test.Op", errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Code != "internal_error" || strings.Contains(body.Message, "pq") {
		t.Fatalf("unexpected body %+v", body)
	}
}

type fakeUserRepo struct {
	users map[string]*userdomain.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, userdomain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.users[u.ID] = u
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

type staticTokens struct{}

func (staticTokens) Issue(identity auth.Identity) (string, error) { return "token-" + identity.Email, nil }

func TestRegisterAndLogin(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*userdomain.User{}}
	h := New(Services{Users: userdomain.NewService(repo, plainHasher{}, staticTokens{})}, logger.Discard())

	rec := serve(t, http.MethodPost, "/users/register", "/users/register",
		`{"email":" A@X.com ","password":"pw1","displayName":"A"}`, h.Register, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	user := resp["user"].(map[string]any)
	if resp["token"] != "token-a@x.com" || user["membershipStatus"] != "pending" || user["householdId"] != nil {
		t.Fatalf("unexpected response %v", resp)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash must not be exposed")
	}

	rec = serve(t, http.MethodPost, "/users/register", "/users/register",
		`{"email":"a@x.com","password":"pw2","displayName":"B"}`, h.Register, true)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "email_taken" {
		t.Fatalf("expected 400 email_taken, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, http.MethodPost, "/users/login", "/users/login",
		`{"email":"a@x.com","password":"wrong"}`, h.Login, true)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "invalid_credentials" {
		t.Fatalf("expected 400 invalid_credentials, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, http.MethodPost, "/users/login", "/users/login",
		`{"email":"a@x.com","password":"pw1","extra":1}`, h.Login, true)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "invalid_json" {
		t.Fatalf("expected unknown fields to be rejected, got %d", rec.Code)
	}
}

func TestMeRequiresUser(t *testing.T) {
	h := New(Services{}, logger.Discard())

	rec := serve(t, http.MethodGet, "/users/me", "/users/me", "", h.Me, true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDataEndpointsRequireApprovedMembership(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"pending", householddomain.ErrNotApproved, http.StatusForbidden},
		{"no household", householddomain.ErrNoHousehold, http.StatusBadRequest},
		{"store down", errors.New("timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(Services{Members: stubMembers{err: tt.err}}, logger.Discard())
			rec := serve(t, http.MethodGet, "/savings", "/savings", "", h.ListSavings, false)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

type fakeSavingsRepo struct {
	goals   map[string]*savingsdomain.Goal
	entries []*auditdomain.Entry
}

func (r *fakeSavingsRepo) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeSavingsRepo) Transaction(ctx context.Context, fn func(savingsdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeSavingsRepo) List(ctx context.Context, householdID string) ([]savingsdomain.Goal, error) {
	var goals []savingsdomain.Goal
	for _, goal := range r.goals {
		if goal.HouseholdID == householdID {
			goals = append(goals, *goal)
		}
	}
	return goals, nil
}

func (r *fakeSavingsRepo) Get(ctx context.Context, id string) (*savingsdomain.Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, savingsdomain.ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (r *fakeSavingsRepo) Lock(ctx context.Context, id string) (*savingsdomain.Goal, error) {
	return r.Get(ctx, id)
}

func (r *fakeSavingsRepo) Create(ctx context.Context, goal *savingsdomain.Goal) error {
	copied := *goal
	r.goals[goal.ID] = &copied
	return nil
}

func (r *fakeSavingsRepo) Save(ctx context.Context, goal *savingsdomain.Goal) error {
	return r.Create(ctx, goal)
}

func (r *fakeSavingsRepo) SetBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	r.goals[id].CurrentAmount = amount
	return nil
}

func (r *fakeSavingsRepo) SoftDelete(ctx context.Context, id string) error {
	delete(r.goals, id)
	return nil
}

func (r *fakeSavingsRepo) BalanceEntries(ctx context.Context, householdID, goalID string) ([]auditdomain.EntryView, error) {
	return nil, nil
}

const goalID = "6f1c2f4e-8a8b-4f3e-9d0a-2b7c1e5d9a10"

func TestUpdateSavingBalance(t *testing.T) {
	repo := &fakeSavingsRepo{goals: map[string]*savingsdomain.Goal{
		goalID: {ID: goalID, Name: "Car", CurrentAmount: decimal.RequireFromString("100"), HouseholdID: "home-1"},
	}}
	h := New(Services{Members: approved("home-1"), Savings: savingsdomain.NewService(repo)}, logger.Discard())

	rec := serve(t, http.MethodPut, "/savings/{id}/balance", "/savings/"+goalID+"/balance",
		`{"amountDiff":-40.5,"description":""}`, h.UpdateSavingBalance, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var goal savingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &goal); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if goal.CurrentAmount != "59.5" || goal.TargetAmount != nil {
		t.Fatalf("unexpected goal %+v", goal)
	}

	rec = serve(t, http.MethodPut, "/savings/{id}/balance", "/savings/"+goalID+"/balance",
		`{"amountDiff":-60}`, h.UpdateSavingBalance, false)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "insufficient_funds" {
		t.Fatalf("expected 400 insufficient_funds, got %d: %s", rec.Code, rec.Body.String())
	}
	if !repo.goals[goalID].CurrentAmount.Equal(decimal.RequireFromString("59.5")) {
		t.Fatalf("rejected delta must not change the balance")
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(repo.entries))
	}
}

func TestEditSavingClearsTarget(t *testing.T) {
	target := decimal.NewNullDecimal(decimal.RequireFromString("500"))
	repo := &fakeSavingsRepo{goals: map[string]*savingsdomain.Goal{
		goalID: {ID: goalID, Name: "Car", TargetAmount: target, HouseholdID: "home-1"},
	}}
	h := New(Services{Members: approved("home-1"), Savings: savingsdomain.NewService(repo)}, logger.Discard())

	rec := serve(t, http.MethodPut, "/savings/{id}", "/savings/"+goalID, `{"name":"Van"}`, h.EditSaving, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !repo.goals[goalID].TargetAmount.Valid {
		t.Fatalf("omitted target must be kept")
	}

	rec = serve(t, http.MethodPut, "/savings/{id}", "/savings/"+goalID, `{"targetAmount":null}`, h.EditSaving, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.goals[goalID].TargetAmount.Valid {
		t.Fatalf("null target must clear it")
	}
}

func TestMalformedIDs(t *testing.T) {
	repo := &fakeSavingsRepo{goals: map[string]*savingsdomain.Goal{
		goalID: {ID: goalID, Name: "Car", HouseholdID: "home-1"},
	}}
	h := New(Services{Members: approved("home-1"), Savings: savingsdomain.NewService(repo)}, logger.Discard())

	for _, target := range []string{"/savings/abc", "/savings/" + goalID + "x"} {
		rec := serve(t, http.MethodDelete, "/savings/{id}", target, "", h.DeleteSaving, false)
		if rec.Code != http.StatusNotFound || decodeError(t, rec).Code != "not_found" {
			t.Fatalf("%s: expected 404 not_found, got %d: %s", target, rec.Code, rec.Body.String())
		}
	}
	if _, ok := repo.goals[goalID]; !ok {
		t.Fatalf("malformed id must not reach the repository")
	}

	rec := serve(t, http.MethodDelete, "/savings/{id}", "/savings/"+strings.ToUpper(goalID), "", h.DeleteSaving, false)
	if rec.Code >= 300 {
		t.Fatalf("expected upper-case uuid accepted, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := repo.goals[goalID]; ok {
		t.Fatalf("expected goal deleted through its canonical id")
	}

	tx := New(Services{Members: approved("home-1"), Transactions: transactionsdomain.NewService(&fakeTransactionsRepo{})}, logger.Discard())
	rec = serve(t, http.MethodPost, "/transactions", "/transactions",
		`{"amount":100,"type":"EXPENSE","recurringItemId":"rec-1"}`, tx.CreateTransaction, false)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "invalid_request" {
		t.Fatalf("expected 400 invalid_request, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOptionalFields(t *testing.T) {
	var req struct {
		PayDay optionalInt     `json:"payDay"`
		Target optionalDecimal `json:"target"`
	}

	if err := json.Unmarshal([]byte(`{}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.PayDay.Set || req.Target.Set {
		t.Fatalf("absent fields must not be set")
	}

	if err := json.Unmarshal([]byte(`{"payDay":null,"target":""}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.PayDay.Set || req.PayDay.Value != nil || !req.Target.Set || req.Target.Value != nil {
		t.Fatalf("null and blank must clear, got %+v", req)
	}

	if err := json.Unmarshal([]byte(`{"payDay":15,"target":"12.50"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *req.PayDay.Value != 15 || !req.Target.Value.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected values %+v", req)
	}
}

func TestRecurringMonthValidation(t *testing.T) {
	h := New(Services{Members: approved("home-1"), Recurring: recurringdomain.NewService(nil)}, logger.Discard())

	tests := []struct {
		target string
		code   string
	}{
		{"/recurring/month?year=2024&month=abc", "invalid_request"},
		{"/recurring/month?year=2024&month=13", "invalid_month"},
		{"/recurring/month?year=2024&month=0", "invalid_month"},
	}

	for _, tt := range tests {
		rec := serve(t, http.MethodGet, "/recurring/month", tt.target, "", h.RecurringMonth, false)
		if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != tt.code {
			t.Fatalf("%s: expected 400 %s, got %d: %s", tt.target, tt.code, rec.Code, rec.Body.String())
		}
	}
}

type fakeTransactionsRepo struct {
	rows  []transactionsdomain.TransactionView
	err   error
	scope transactionsdomain.Scope
}

func (r *fakeTransactionsRepo) AppendAudit(ctx context.Context, entry *auditdomain.Entry) error {
	return nil
}

func (r *fakeTransactionsRepo) CreateTransaction(ctx context.Context, transaction *transactionsdomain.Transaction) error {
	return nil
}

func (r *fakeTransactionsRepo) Transaction(ctx context.Context, fn func(transactionsdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeTransactionsRepo) List(ctx context.Context, householdID string, from, to time.Time) ([]transactionsdomain.TransactionView, error) {
	return r.rows, r.err
}

func (r *fakeTransactionsRepo) ListForExport(ctx context.Context, scope transactionsdomain.Scope, from, to time.Time) ([]transactionsdomain.TransactionView, error) {
	r.scope = scope
	return r.rows, r.err
}

func (r *fakeTransactionsRepo) Lock(ctx context.Context, id string) (*transactionsdomain.Transaction, error) {
	return nil, transactionsdomain.ErrTransactionNotFound
}

func (r *fakeTransactionsRepo) SoftDelete(ctx context.Context, id string) error {
	return nil
}

func (r *fakeTransactionsRepo) RecurringItemBelongsTo(ctx context.Context, recurringItemID, householdID string) (bool, error) {
	return false, nil
}

func TestExportTransactions(t *testing.T) {
	repo := &fakeTransactionsRepo{rows: []transactionsdomain.TransactionView{{
		Transaction: transactionsdomain.Transaction{
			ID: "tx-1", Amount: 1500, Type: transactionsdomain.TypeExpense, Category: "Food",
			Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}}}
	h := New(Services{Members: approved("home-1"), Transactions: transactionsdomain.NewService(repo)}, logger.Discard())

	rec := serve(t, http.MethodGet, "/transactions/export/excel",
		"/transactions/export/excel?startDate=2024-03-01&endDate=2024-03-31&scope=household", "", h.ExportTransactions, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != export.ContentType {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("expected a zip container")
	}
	if repo.scope.Kind != transactionsdomain.ScopeHousehold || repo.scope.HouseholdID != "home-1" {
		t.Fatalf("unexpected scope %+v", repo.scope)
	}
}

func TestExportTransactionsFailure(t *testing.T) {
	repo := &fakeTransactionsRepo{err: errors.New("relation does not exist")}
	h := New(Services{Members: approved("home-1"), Transactions: transactionsdomain.NewService(repo)}, logger.Discard())

	rec := serve(t, http.MethodGet, "/transactions/export/excel", "/transactions/export/excel", "", h.ExportTransactions, false)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body exportErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == "" || body.Details != "relation does not exist" {
		t.Fatalf("unexpected body %+v", body)
	}

	rec = serve(t, http.MethodGet, "/transactions/export/excel",
		"/transactions/export/excel?startDate=2024-04-01&endDate=2024-03-01", "", h.ExportTransactions, false)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "invalid_range" {
		t.Fatalf("expected 400 invalid_range, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateTransactionRejectsBadDate(t *testing.T) {
	h := New(Services{Members: approved("home-1"), Transactions: transactionsdomain.NewService(&fakeTransactionsRepo{})}, logger.Discard())

	rec := serve(t, http.MethodPost, "/transactions", "/transactions",
		`{"amount":100,"type":"EXPENSE","date":"yesterday"}`, h.CreateTransaction, false)
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "invalid_json" {
		t.Fatalf("expected 400 invalid_json, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, http.MethodPost, "/transactions", "/transactions",
		`{"amount":100,"type":"EXPENSE","date":"2024-03-02"}`, h.CreateTransaction, false)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Date != "2024-03-02" || created.Category != transactionsdomain.DefaultCategory || created.CreatedBy != "user-1" {
		t.Fatalf("unexpected transaction %+v", created)
	}
}
