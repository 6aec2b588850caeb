package recurring

import "time"

// IsDueInMonth reports whether item falls due in the given calendar month.
// An item is never due before its start month or while inactive.
func IsDueInMonth(item RecurringItem, year int, month time.Month) bool {
	if !item.Active {
		return false
	}

	monthDiff := monthsBetween(item.StartDate.Year(), item.StartDate.Month(), year, month)
	if monthDiff < 0 {
		return false
	}

	switch item.Frequency {
	case FrequencyMonthly:
		return true
	case FrequencyBimonthly:
		return monthDiff%2 == 0
	case FrequencyQuarterly:
		return monthDiff%3 == 0
	case FrequencyHalfYearly:
		return monthDiff%6 == 0
	case FrequencyYearly:
		return monthDiff%12 == 0
	default:
		return false
	}
}

// TargetPaymentDate returns the day item should be paid in the given month.
// PayDay is clamped to the month's last day. Without a PayDay the 1st is
// used, except in today's month where today is used.
func TargetPaymentDate(item RecurringItem, year int, month time.Month, today time.Time) time.Time {
	day := 1
	switch {
	case item.PayDay != nil:
		day = *item.PayDay
	case today.Year() == year && today.Month() == month:
		day = today.Day()
	}

	if last := daysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ValidFrequency(value string) bool {
	switch value {
	case FrequencyMonthly, FrequencyBimonthly, FrequencyQuarterly, FrequencyHalfYearly, FrequencyYearly:
		return true
	default:
		return false
	}
}

func monthsBetween(fromYear int, fromMonth time.Month, toYear int, toMonth time.Month) int {
	return (toYear-fromYear)*12 + int(toMonth) - int(fromMonth)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
