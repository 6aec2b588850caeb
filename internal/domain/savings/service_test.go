package savings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"household-finance/internal/domain/audit"
)

type fakeSavingsRepo struct {
	goals   map[string]Goal
	entries []*audit.Entry
}

func newFakeSavingsRepo() *fakeSavingsRepo {
	return &fakeSavingsRepo{goals: make(map[string]Goal)}
}

func (r *fakeSavingsRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	goals := make(map[string]Goal, len(r.goals))
	for id, goal := range r.goals {
		goals[id] = goal
	}
	entries := len(r.entries)

	if err := fn(r); err != nil {
		r.goals = goals
		r.entries = r.entries[:entries]
		return err
	}
	return nil
}

func (r *fakeSavingsRepo) AppendAudit(ctx context.Context, entry *audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeSavingsRepo) List(ctx context.Context, householdID string) ([]Goal, error) {
	var result []Goal
	for _, goal := range r.goals {
		if goal.HouseholdID == householdID && !goal.DeletedAt.Valid {
			result = append(result, goal)
		}
	}
	return result, nil
}

func (r *fakeSavingsRepo) Get(ctx context.Context, id string) (*Goal, error) {
	goal, ok := r.goals[id]
	if !ok || goal.DeletedAt.Valid {
		return nil, ErrGoalNotFound
	}
	return &goal, nil
}

func (r *fakeSavingsRepo) Lock(ctx context.Context, id string) (*Goal, error) {
	return r.Get(ctx, id)
}

func (r *fakeSavingsRepo) Create(ctx context.Context, goal *Goal) error {
	r.goals[goal.ID] = *goal
	return nil
}

func (r *fakeSavingsRepo) Save(ctx context.Context, goal *Goal) error {
	r.goals[goal.ID] = *goal
	return nil
}

func (r *fakeSavingsRepo) SetBalance(ctx context.Context, id string, amount decimal.Decimal) error {
	goal := r.goals[id]
	goal.CurrentAmount = amount
	r.goals[id] = goal
	return nil
}

func (r *fakeSavingsRepo) SoftDelete(ctx context.Context, id string) error {
	goal := r.goals[id]
	goal.DeletedAt.Valid = true
	goal.DeletedAt.Time = time.Now()
	r.goals[id] = goal
	return nil
}

func (r *fakeSavingsRepo) BalanceEntries(ctx context.Context, householdID, goalID string) ([]audit.EntryView, error) {
	var result []audit.EntryView
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if entry.ActionType != audit.ActionUpdateSavingBalance || entry.HouseholdID != householdID {
			continue
		}
		var payload audit.SavingBalancePayload
		if err := json.Unmarshal(entry.OriginalData, &payload); err != nil {
			return nil, err
		}
		if payload.SavingID == goalID {
			result = append(result, audit.EntryView{Entry: *entry, PerformedByName: "Anna"})
		}
	}
	return result, nil
}

func (r *fakeSavingsRepo) count(action audit.ActionType) int {
	n := 0
	for _, entry := range r.entries {
		if entry.ActionType == action {
			n++
		}
	}
	return n
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func seedGoal(repo *fakeSavingsRepo, id, householdID, amount string) {
	repo.goals[id] = Goal{ID: id, Name: "Vacation", CurrentAmount: dec(amount), HouseholdID: householdID}
}

func TestApplyBalanceDeltaSequence(t *testing.T) {
	cases := []struct {
		name     string
		initial  string
		deltas   []string
		rejected []bool
		final    string
	}{
		{name: "all accepted", initial: "0", deltas: []string{"100", "-40", "15.5"}, rejected: []bool{false, false, false}, final: "75.5"},
		{name: "drain to zero", initial: "50", deltas: []string{"-50"}, rejected: []bool{false}, final: "0"},
		{name: "overdraw rejected", initial: "10", deltas: []string{"-20", "5", "-15"}, rejected: []bool{true, false, false}, final: "0"},
		{name: "rejection in middle", initial: "100", deltas: []string{"-60", "-60", "-40"}, rejected: []bool{false, true, false}, final: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeSavingsRepo()
			seedGoal(repo, "goal-1", "home-1", tc.initial)
			svc := NewService(repo)

			accepted := 0
			for i, delta := range tc.deltas {
				before := repo.goals["goal-1"].CurrentAmount
				_, err := svc.ApplyBalanceDelta(context.Background(), "user-1", "home-1", "goal-1", BalanceInput{Delta: dec(delta)})
				if tc.rejected[i] {
					if !errors.Is(err, ErrInsufficientFunds) {
						t.Fatalf("delta %s: expected ErrInsufficientFunds, got %v", delta, err)
					}
					if !repo.goals["goal-1"].CurrentAmount.Equal(before) {
						t.Fatalf("delta %s: balance changed on rejection", delta)
					}
					continue
				}
				if err != nil {
					t.Fatalf("delta %s: expected no error, got %v", delta, err)
				}
				accepted++
			}

			if got := repo.goals["goal-1"].CurrentAmount; !got.Equal(dec(tc.final)) {
				t.Fatalf("expected final balance %s, got %s", tc.final, got)
			}
			if got := repo.count(audit.ActionUpdateSavingBalance); got != accepted {
				t.Fatalf("expected %d balance entries, got %d", accepted, got)
			}
		})
	}
}

func TestApplyBalanceDeltaPayload(t *testing.T) {
	repo := newFakeSavingsRepo()
	seedGoal(repo, "goal-1", "home-1", "20")
	svc := NewService(repo)

	if _, err := svc.ApplyBalanceDelta(context.Background(), "user-1", "home-1", "goal-1", BalanceInput{Delta: dec("-5.25")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var payload map[string]any
	decoder := json.NewDecoder(bytes.NewReader(repo.entries[0].OriginalData))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["savingId"] != "goal-1" || payload["name"] != "Vacation" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["diff"] != json.Number("-5.25") || payload["newBalance"] != json.Number("14.75") {
		t.Fatalf("expected numeric diff and balance, got %v", payload)
	}
	if payload["description"] != DefaultWithdrawalDescription {
		t.Fatalf("expected default withdrawal description, got %v", payload["description"])
	}
}

func TestApplyBalanceDeltaRejections(t *testing.T) {
	repo := newFakeSavingsRepo()
	seedGoal(repo, "goal-1", "home-2", "20")
	svc := NewService(repo)

	if _, err := svc.ApplyBalanceDelta(context.Background(), "user-1", "home-1", "goal-1", BalanceInput{Delta: dec("5")}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if _, err := svc.ApplyBalanceDelta(context.Background(), "user-1", "home-2", "goal-1", BalanceInput{Delta: decimal.Zero}); !errors.Is(err, ErrZeroDelta) {
		t.Fatalf("expected ErrZeroDelta, got %v", err)
	}
	if _, err := svc.ApplyBalanceDelta(context.Background(), "user-1", "home-2", "missing", BalanceInput{Delta: dec("5")}); !errors.Is(err, ErrGoalNotFound) {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("expected no audit entries, got %d", len(repo.entries))
	}
}

func TestEditGoalTargetAbsentVersusCleared(t *testing.T) {
	repo := newFakeSavingsRepo()
	repo.goals["goal-1"] = Goal{
		ID: "goal-1", Name: "Car", CurrentAmount: dec("300"),
		TargetAmount: decimal.NewNullDecimal(dec("1000")), HouseholdID: "home-1",
	}
	svc := NewService(repo)
	ctx := context.Background()

	name := "New car"
	edited, err := svc.EditGoal(ctx, "user-1", "home-1", "goal-1", EditInput{Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !edited.TargetAmount.Valid || !edited.TargetAmount.Decimal.Equal(dec("1000")) {
		t.Fatalf("expected omitted target to stay, got %+v", edited.TargetAmount)
	}

	edited, err = svc.EditGoal(ctx, "user-1", "home-1", "goal-1", EditInput{TargetAmount: OptionalDecimal{Set: true}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if edited.TargetAmount.Valid {
		t.Fatalf("expected target cleared")
	}
	if !edited.CurrentAmount.Equal(dec("300")) {
		t.Fatalf("expected balance untouched, got %s", edited.CurrentAmount)
	}

	var payload audit.UpdateSavingPayload
	if err := json.Unmarshal(repo.entries[1].OriginalData, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Old.Target == nil || payload.Old.Target.String() != "1000" || payload.New.Target != nil {
		t.Fatalf("unexpected diff %+v", payload)
	}
}

func TestDeleteAndHistory(t *testing.T) {
	repo := newFakeSavingsRepo()
	seedGoal(repo, "goal-1", "home-1", "0")
	seedGoal(repo, "goal-2", "home-1", "0")
	svc := NewService(repo)
	ctx := context.Background()

	for _, delta := range []string{"100", "-30"} {
		if _, err := svc.ApplyBalanceDelta(ctx, "user-1", "home-1", "goal-1", BalanceInput{Delta: dec(delta), Description: "monthly"}); err != nil {
			t.Fatalf("apply %s: %v", delta, err)
		}
	}
	if _, err := svc.ApplyBalanceDelta(ctx, "user-1", "home-1", "goal-2", BalanceInput{Delta: dec("7")}); err != nil {
		t.Fatalf("apply other goal: %v", err)
	}

	history, err := svc.History(ctx, "home-1", "goal-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if !history[0].Diff.Equal(dec("-30")) || !history[0].NewBalance.Equal(dec("70")) || history[0].PerformedByName != "Anna" {
		t.Fatalf("unexpected newest entry %+v", history[0])
	}

	if err := svc.Delete(ctx, "user-1", "home-1", "goal-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	goals, _ := svc.List(ctx, "home-1")
	if len(goals) != 1 || goals[0].ID != "goal-2" {
		t.Fatalf("expected deleted goal hidden, got %+v", goals)
	}
	if repo.count(audit.ActionDeleteSaving) != 1 {
		t.Fatalf("expected DELETE_SAVING entry")
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newFakeSavingsRepo()
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), "user-1", "home-1", CreateInput{Name: " "}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := svc.Create(context.Background(), "user-1", "home-1", CreateInput{Name: "Fund", CurrentAmount: dec("-1")}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	goal, err := svc.Create(context.Background(), "user-1", "home-1", CreateInput{Name: "Fund", TargetAmount: decimal.NewNullDecimal(dec("500"))})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !goal.CurrentAmount.IsZero() || repo.count(audit.ActionCreateSaving) != 1 {
		t.Fatalf("unexpected goal %+v", goal)
	}
}
