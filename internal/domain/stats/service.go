package stats

import (
	"context"
	"sort"
	"time"

	"household-finance/internal/domain/transactions"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Heatmap returns daily expense totals for a month. month is zero-based
// (0 = January) to match the client's calendar widgets.
func (s *Service) Heatmap(ctx context.Context, scope transactions.Scope, year, month int) ([]DayTotal, error) {
	from, to, err := zeroBasedMonth(year, month)
	if err != nil {
		return nil, err
	}
	return s.repo.DailyExpenses(ctx, scope, from, to)
}

// Inflation returns per-month category totals from the first day of the month
// six months back up to the end of the current month, oldest first.
func (s *Service) Inflation(ctx context.Context, scope transactions.Scope) ([]MonthCategoryTotal, error) {
	from, to := s.window(InflationMonths)
	totals, err := s.repo.MonthlyCategoryExpenses(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Month < totals[j].Month })
	return totals, nil
}

// Pie returns category totals for a zero-based month, largest first.
func (s *Service) Pie(ctx context.Context, scope transactions.Scope, year, month int) ([]CategoryTotal, error) {
	from, to, err := zeroBasedMonth(year, month)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.CategoryExpenses(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	return totals, nil
}

// Averages divides each category's total over the last 6 and 12 months by
// the number of months, not by the number of transactions.
func (s *Service) Averages(ctx context.Context, scope transactions.Scope) (*Averages, error) {
	short, err := s.average(ctx, scope, ShortAverage)
	if err != nil {
		return nil, err
	}
	long, err := s.average(ctx, scope, LongAverage)
	if err != nil {
		return nil, err
	}
	return &Averages{Short: short, Long: long}, nil
}

func (s *Service) average(ctx context.Context, scope transactions.Scope, months int) ([]CategoryAverage, error) {
	from, to := s.window(months)
	totals, err := s.repo.CategoryExpenses(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]CategoryAverage, 0, len(totals))
	for _, total := range totals {
		result = append(result, CategoryAverage{
			Category: total.Category,
			Average:  float64(total.Total) / float64(months),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Average > result[j].Average })
	return result, nil
}

func (s *Service) window(months int) (time.Time, time.Time) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	_, to := transactions.MonthBounds(now)
	return from, to
}

func zeroBasedMonth(year, month int) (time.Time, time.Time, error) {
	if year <= 0 {
		return time.Time{}, time.Time{}, ErrInvalidYear
	}
	if month < 0 || month > 11 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	from, to := transactions.MonthBounds(time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC))
	return from, to, nil
}
