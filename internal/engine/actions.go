package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// Approve confirms a pending investment. The confirmation time becomes the
// accrual start date and the lockup clock starts: lockupEndDate = now +
// lockup years. Returns the updated copy; the input is not mutated.
func Approve(inv model.Investment, now time.Time) (model.Investment, error) {
	if inv.Status != model.StatusPending {
		return inv, transitionError(inv.Status, model.StatusActive)
	}
	years, err := LockupYears(inv.LockupPeriod)
	if err != nil {
		return inv, err
	}

	now = now.UTC()
	end := now.AddDate(years, 0, 0)
	inv.Status = model.StatusActive
	inv.ConfirmedAt = &now
	inv.LockupEndDate = &end
	inv.UpdatedAt = now
	return inv, nil
}

// Reject declines a pending investment. Terminal; no funds were collected so
// nothing is refunded and no transactions are created.
func Reject(inv model.Investment, now time.Time) (model.Investment, error) {
	if inv.Status != model.StatusPending {
		return inv, transitionError(inv.Status, model.StatusRejected)
	}
	inv.Status = model.StatusRejected
	inv.UpdatedAt = now.UTC()
	return inv, nil
}

// TerminationResult is the final payout decision from a terminate action.
type TerminationResult struct {
	FinalValue      decimal.Decimal `json:"finalValue"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	TotalEarnings   decimal.Decimal `json:"totalEarnings"`
	MonthsElapsed   int             `json:"monthsElapsed"`
}

// Terminate moves an active or withdrawal_notice investment directly to
// withdrawn, bypassing the 90-day notice path. During an unexpired lockup the
// call fails with ErrLockupOverrideRequired unless overrideConfirmed is set;
// on failure the input is returned unchanged. On success the final payout is
// the current value as of now; the caller persists the redemption
// transaction. Irreversible.
func Terminate(inv model.Investment, now time.Time, overrideConfirmed bool) (model.Investment, TerminationResult, error) {
	if inv.Status != model.StatusActive && inv.Status != model.StatusWithdrawalNotice {
		return inv, TerminationResult{}, transitionError(inv.Status, model.StatusWithdrawn)
	}

	facts := FactsOf(inv)
	now = now.UTC()

	lockupExpired := !facts.LockupEndDate.IsZero() && !now.Before(facts.LockupEndDate)
	if !lockupExpired && !overrideConfirmed {
		return inv, TerminationResult{}, &apperrors.LockupError{
			Err:           apperrors.ErrLockupOverrideRequired,
			LockupEndDate: lockupEndString(facts.LockupEndDate),
		}
	}

	valuation, err := CurrentValue(facts, now)
	if err != nil {
		return inv, TerminationResult{}, err
	}

	inv.Status = model.StatusWithdrawn
	inv.WithdrawnAt = &now
	inv.UpdatedAt = now

	return inv, TerminationResult{
		FinalValue:      valuation.CurrentValue,
		PrincipalAmount: valuation.Principal,
		TotalEarnings:   valuation.TotalEarnings,
		MonthsElapsed:   valuation.MonthsElapsed,
	}, nil
}

func lockupEndString(end time.Time) string {
	if end.IsZero() {
		return ""
	}
	return end.Format(time.RFC3339)
}

// UpdateFields is the set of investor/admin-editable investment fields. Nil
// pointers leave the field untouched.
type UpdateFields struct {
	Amount           *decimal.Decimal
	LockupPeriod     *model.LockupPeriod
	PaymentFrequency *model.PaymentFrequency
	AccountType      *model.AccountType
	Status           *model.InvestmentStatus
}

// ApplyUpdate validates every requested field change against the business
// invariants and applies them all-or-nothing. Checks, in order:
//
//  1. a status change must be a legal state-machine transition
//  2. the principal is immutable once the investment is active
//  3. the resulting accountType/paymentFrequency pair must be compatible
//     (IRA accounts cannot take monthly payouts)
//  4. the accountType must match the owning account's locked type, when set
//
// The first violation is returned and the input investment is returned
// unchanged; partial application is forbidden.
func ApplyUpdate(inv model.Investment, fields UpdateFields, lockedAccountType model.AccountType, now time.Time) (model.Investment, error) {
	if fields.Status != nil {
		if err := ValidateTransition(inv.Status, *fields.Status); err != nil {
			return inv, err
		}
	}

	if fields.Amount != nil && inv.Status == model.StatusActive && !fields.Amount.Equal(inv.Amount) {
		return inv, apperrors.ErrAmountLockedOnActiveInvestment
	}

	accountType := inv.AccountType
	if fields.AccountType != nil {
		accountType = *fields.AccountType
	}
	frequency := inv.PaymentFrequency
	if fields.PaymentFrequency != nil {
		frequency = *fields.PaymentFrequency
	}
	if accountType == model.AccountIRA && frequency == model.FrequencyMonthly {
		return inv, apperrors.ErrIncompatiblePaymentFrequency
	}

	if fields.AccountType != nil && lockedAccountType != "" && *fields.AccountType != lockedAccountType {
		return inv, apperrors.ErrAccountTypeLocked
	}

	if fields.Amount != nil {
		inv.Amount = *fields.Amount
		inv.Bonds = model.BondCount(*fields.Amount)
	}
	if fields.LockupPeriod != nil {
		inv.LockupPeriod = *fields.LockupPeriod
	}
	if fields.PaymentFrequency != nil {
		inv.PaymentFrequency = *fields.PaymentFrequency
	}
	if fields.AccountType != nil {
		inv.AccountType = *fields.AccountType
	}
	if fields.Status != nil {
		inv.Status = *fields.Status
	}
	inv.UpdatedAt = now.UTC()
	return inv, nil
}
