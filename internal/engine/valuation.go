package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// Facts is the narrow valuation-relevant view of an investment. Handlers and
// services build it from the full record so the engine stays decoupled from
// banking/KYC fields it never reads.
type Facts struct {
	Amount           decimal.Decimal
	Status           model.InvestmentStatus
	PaymentFrequency model.PaymentFrequency
	LockupPeriod     model.LockupPeriod

	// StartDate is when accrual begins: ConfirmedAt, or CreatedAt for records
	// that were never confirmed (those never accrue anyway).
	StartDate time.Time

	// LockupEndDate is zero until the investment is confirmed.
	LockupEndDate time.Time
}

// FactsOf extracts the valuation facts from an investment record. A missing
// LockupEndDate is derived from ConfirmedAt + lockup years so older records
// without the stored column still valuate correctly.
func FactsOf(inv model.Investment) Facts {
	f := Facts{
		Amount:           inv.Amount,
		Status:           inv.Status,
		PaymentFrequency: inv.PaymentFrequency,
		LockupPeriod:     inv.LockupPeriod,
		StartDate:        inv.CreatedAt,
	}
	if inv.ConfirmedAt != nil {
		f.StartDate = *inv.ConfirmedAt
	}
	switch {
	case inv.LockupEndDate != nil:
		f.LockupEndDate = *inv.LockupEndDate
	case inv.ConfirmedAt != nil:
		if years, err := LockupYears(inv.LockupPeriod); err == nil {
			f.LockupEndDate = inv.ConfirmedAt.AddDate(years, 0, 0)
		}
	}
	return f
}

// Valuation is a point-in-time snapshot of an investment's worth. For monthly
// payouts CurrentValue stays at the principal (distributions have left the
// investment) while TotalEarnings reports the cumulative interest; for
// compounding CurrentValue is principal plus earnings. Money values are
// rounded to cents; this is an output boundary.
type Valuation struct {
	Principal      decimal.Decimal `json:"principal"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	MonthsElapsed  int             `json:"monthsElapsed"`
	IsWithdrawable bool            `json:"isWithdrawable"`
}

// accrues reports whether a status earns interest. Draft, pending and
// rejected investments never accrue; withdrawn ones have already been paid
// out.
func accrues(status model.InvestmentStatus) bool {
	return status == model.StatusActive || status == model.StatusWithdrawalNotice
}

// CurrentValue computes the valuation snapshot of an investment as of now.
// Pure: calling it twice with the same inputs yields identical results.
func CurrentValue(f Facts, now time.Time) (Valuation, error) {
	v := Valuation{
		Principal:     f.Amount.Round(2),
		TotalEarnings: decimal.Zero.Round(2),
		CurrentValue:  f.Amount.Round(2),
	}
	if !f.LockupEndDate.IsZero() {
		v.IsWithdrawable = !now.UTC().Before(f.LockupEndDate)
	}
	if !accrues(f.Status) {
		return v, nil
	}

	rate, err := RateFor(f.LockupPeriod)
	if err != nil {
		return Valuation{}, err
	}

	months := MonthsElapsed(f.StartDate, now)
	v.MonthsElapsed = months

	switch f.PaymentFrequency {
	case model.FrequencyCompounding:
		earnings := CompoundingEarnings(f.Amount, rate, months)
		v.TotalEarnings = earnings.Round(2)
		v.CurrentValue = f.Amount.Add(earnings).Round(2)
	default:
		// Monthly payouts: earnings are distributed as they accrue, so the
		// value of the investment itself never moves off the principal.
		v.TotalEarnings = MonthlyPayoutEarnings(f.Amount, rate, months).Round(2)
		v.CurrentValue = f.Amount.Round(2)
	}

	return v, nil
}

// MonthlyInterestAmount returns the fixed per-month payout for a monthly
// frequency investment, rounded to cents, and zero for compounding.
func MonthlyInterestAmount(f Facts) (decimal.Decimal, error) {
	if f.PaymentFrequency != model.FrequencyMonthly {
		return decimal.Zero, nil
	}
	rate, err := RateFor(f.LockupPeriod)
	if err != nil {
		return decimal.Zero, err
	}
	return f.Amount.Mul(rate).Div(twelve).Round(2), nil
}
