// Package engine implements the investment valuation and accrual core: the
// rate table, calendar-month accrual arithmetic, valuation snapshots, the
// status state machine, and the admin transition handlers. Everything in this
// package is a pure function of its inputs; persistence and time acquisition
// belong to the caller.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

var (
	rateOneYear   = decimal.NewFromFloat(0.08)
	rateThreeYear = decimal.NewFromFloat(0.10)

	twelve = decimal.NewFromInt(12)
	one    = decimal.NewFromInt(1)
)

// RateFor returns the annual interest rate for a lockup period:
// 8% for 1-year, 10% for 3-year.
func RateFor(period model.LockupPeriod) (decimal.Decimal, error) {
	switch period {
	case model.LockupOneYear:
		return rateOneYear, nil
	case model.LockupThreeYear:
		return rateThreeYear, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidLockupPeriod, period)
	}
}

// LockupYears returns the lockup duration in whole years.
func LockupYears(period model.LockupPeriod) (int, error) {
	switch period {
	case model.LockupOneYear:
		return 1, nil
	case model.LockupThreeYear:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidLockupPeriod, period)
	}
}
