package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// AccrualEvent is one monthly ledger entry produced by the accrual schedule:
// a distribution for monthly-payout investments, a contribution for
// compounding ones. Date is the accrual anniversary the event settles.
type AccrualEvent struct {
	MonthIndex int
	Date       time.Time
	Type       model.TransactionType
	Amount     decimal.Decimal
}

// AccrualSchedule returns the accrual events owed between afterIndex
// (exclusive) and the last completed month as of now, in increasing
// MonthIndex order. Passing the highest already-recorded month index makes
// the regeneration sweep idempotent: re-running it emits nothing new until
// another month boundary passes.
//
// Event amounts are ledger amounts and therefore rounded to cents per month.
// For compounding investments each month's interest is computed on the
// cent-rounded running balance so that recorded contributions always sum to
// a whole number of cents; the pure CompoundingEarnings formula remains the
// source of truth for valuation.
func AccrualSchedule(f Facts, afterIndex int, now time.Time) ([]AccrualEvent, error) {
	if !accrues(f.Status) {
		return nil, nil
	}
	rate, err := RateFor(f.LockupPeriod)
	if err != nil {
		return nil, err
	}

	months := MonthsElapsed(f.StartDate, now)
	if months <= afterIndex {
		return nil, nil
	}

	monthlyRate := rate.Div(twelve)
	var events []AccrualEvent

	if f.PaymentFrequency == model.FrequencyCompounding {
		balance := f.Amount
		for i := 1; i <= months; i++ {
			interest := balance.Mul(monthlyRate).Round(2)
			balance = balance.Add(interest)
			if i > afterIndex {
				events = append(events, AccrualEvent{
					MonthIndex: i,
					Date:       AnniversaryDate(f.StartDate, i),
					Type:       model.TxContribution,
					Amount:     interest,
				})
			}
		}
		return events, nil
	}

	payout := f.Amount.Mul(monthlyRate).Round(2)
	for i := afterIndex + 1; i <= months; i++ {
		events = append(events, AccrualEvent{
			MonthIndex: i,
			Date:       AnniversaryDate(f.StartDate, i),
			Type:       model.TxDistribution,
			Amount:     payout,
		})
	}
	return events, nil
}

// NextEventDate returns the date of the next distribution or contribution
// for an accruing investment, and false for statuses that do not accrue.
func NextEventDate(f Facts, now time.Time) (time.Time, bool) {
	if !accrues(f.Status) {
		return time.Time{}, false
	}
	return AnniversaryDate(f.StartDate, MonthsElapsed(f.StartDate, now)+1), true
}
