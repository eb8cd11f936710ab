package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain entity errors represent missing entities in the system.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = errors.New("investment not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWithdrawalNotFound indicates that a withdrawal with the given ID does not exist.
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
)

// Business rule errors. These are returned, never panicked, so the HTTP layer
// can translate them into user-facing validation responses.
var (
	// ErrInvalidLockupPeriod indicates an unrecognized lockup value. This is a
	// configuration/data-integrity bug, not a user mistake.
	ErrInvalidLockupPeriod = errors.New("invalid lockup period")

	// ErrInvalidStatusTransition indicates a requested status change that is
	// not legal from the current status. Use StatusTransitionError to carry
	// the allowed set for diagnostics.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrLockupOverrideRequired indicates a terminate attempt during an active
	// lockup without the override confirmation. Recoverable: the caller may
	// re-invoke with the confirmation flag set.
	ErrLockupOverrideRequired = errors.New("lockup override confirmation required")

	// ErrAmountLockedOnActiveInvestment indicates an attempted principal
	// change after activation, which is forbidden for tax/audit compliance.
	ErrAmountLockedOnActiveInvestment = errors.New("amount cannot be changed on an active investment")

	// ErrIncompatiblePaymentFrequency indicates an IRA account combined with
	// monthly payouts; IRA investments must compound.
	ErrIncompatiblePaymentFrequency = errors.New("ira accounts can only use compounding payment frequency")

	// ErrAccountTypeLocked indicates an investment account type that differs
	// from the owning user's locked account type.
	ErrAccountTypeLocked = errors.New("account type is locked for this user")

	// ErrLockupNotEnded indicates a withdrawal request before the lockup end date.
	ErrLockupNotEnded = errors.New("lockup period has not ended")

	// ErrInvestmentNotDraft indicates an edit or delete on a non-draft investment.
	ErrInvestmentNotDraft = errors.New("investment is not a draft")

	// ErrNotDistribution indicates a payout action on a non-distribution transaction.
	ErrNotDistribution = errors.New("only distribution transactions can be managed")

	// ErrInvestmentModified indicates the investment changed status between the
	// service's read and its write. The caller should re-read and retry.
	ErrInvestmentModified = errors.New("investment was modified by another request")
)

// Operation failure errors represent system-level failures surfaced by the
// HTTP layer as 500s.
var (
	ErrFailedToRetrieveUsers        = errors.New("failed to retrieve users")
	ErrFailedToRetrieveInvestments  = errors.New("failed to retrieve investments")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveWithdrawals  = errors.New("failed to retrieve withdrawals")
	ErrFailedToRetrievePayouts      = errors.New("failed to retrieve pending payouts")
	ErrFailedToRetrieveAppTime      = errors.New("failed to retrieve application time")
)

// StatusTransitionError reports an illegal status transition together with
// the transitions that would have been legal from the current status.
type StatusTransitionError struct {
	Current   string
	Requested string
	Allowed   []string
}

func (e *StatusTransitionError) Error() string {
	allowed := "none (terminal)"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("invalid status transition %s -> %s (allowed: %s)", e.Current, e.Requested, allowed)
}

func (e *StatusTransitionError) Unwrap() error { return ErrInvalidStatusTransition }

// LockupError reports a lockup-gated failure together with the lockup end
// date, so the caller can render "available from" messaging or an override
// prompt.
type LockupError struct {
	Err           error // ErrLockupOverrideRequired or ErrLockupNotEnded
	LockupEndDate string
}

func (e *LockupError) Error() string {
	if e.LockupEndDate == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (lockup ends %s)", e.Err.Error(), e.LockupEndDate)
}

func (e *LockupError) Unwrap() error { return e.Err }
