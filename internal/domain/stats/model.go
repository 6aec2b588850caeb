package stats

import "time"

const (
	InflationMonths = 6
	ShortAverage    = 6
	LongAverage     = 12
)

// DayTotal is the expense total of one calendar day.
type DayTotal struct {
	Date  time.Time
	Total int64
}

// MonthCategoryTotal is the expense total of one category in one month,
// Month formatted as YYYY-MM.
type MonthCategoryTotal struct {
	Month    string
	Category string
	Total    int64
}

type CategoryTotal struct {
	Category string
	Total    int64
}

type CategoryAverage struct {
	Category string
	Average  float64
}

type Averages struct {
	Short []CategoryAverage
	Long  []CategoryAverage
}
