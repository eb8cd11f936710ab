package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthsElapsed returns the number of whole calendar months between start and
// now. A month is complete once now's day-of-month reaches the day-of-month
// of start; for target months shorter than start's day the anniversary clamps
// to the last day of the month (a Jan 31 start completes its first month on
// Feb 28, or Feb 29 in a leap year). Returns 0 when now is not after start.
//
// Calendar counting is deliberate: 30.44-day averaging drifts against real
// anniversaries over long horizons and the two definitions disagree around
// month ends.
func MonthsElapsed(start, now time.Time) int {
	start = start.UTC()
	now = now.UTC()
	if !now.After(start) {
		return 0
	}

	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if now.Day() < anniversaryDay(start.Day(), now) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// anniversaryDay is start's day-of-month clamped into the month containing t.
func anniversaryDay(startDay int, t time.Time) int {
	if last := daysInMonth(t.Year(), t.Month()); startDay > last {
		return last
	}
	return startDay
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AnniversaryDate returns the date months whole months after start, clamped
// to the last day of shorter months. The time of day is carried over from
// start. AnniversaryDate(start, n) is the instant at which MonthsElapsed
// first returns n.
func AnniversaryDate(start time.Time, months int) time.Time {
	start = start.UTC()
	firstOfTarget := time.Date(start.Year(), start.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := anniversaryDay(start.Day(), firstOfTarget)
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), time.UTC)
}

// MonthlyPayoutEarnings returns the cumulative simple interest paid out over
// monthsElapsed whole months: monthsElapsed * principal * annualRate / 12.
// The result is unrounded; callers round at presentation boundaries.
func MonthlyPayoutEarnings(principal, annualRate decimal.Decimal, monthsElapsed int) decimal.Decimal {
	if monthsElapsed <= 0 {
		return decimal.Zero
	}
	return principal.Mul(annualRate).Div(twelve).Mul(decimal.NewFromInt(int64(monthsElapsed)))
}

// CompoundingEarnings returns the earnings from monthly compounding over
// monthsElapsed whole months: principal * (1 + annualRate/12)^m - principal.
// The result is unrounded; rounding between compounding steps would leak
// cent drift into later periods.
func CompoundingEarnings(principal, annualRate decimal.Decimal, monthsElapsed int) decimal.Decimal {
	if monthsElapsed <= 0 {
		return decimal.Zero
	}
	growth := one.Add(annualRate.Div(twelve)).Pow(decimal.NewFromInt(int64(monthsElapsed)))
	return principal.Mul(growth).Sub(principal)
}
