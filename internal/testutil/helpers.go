package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/service"
)

// NewTestInvestmentService wires an InvestmentService against the test
// database with a fixed clock.
func NewTestInvestmentService(t *testing.T, db *sql.DB, now time.Time) *service.InvestmentService {
	t.Helper()

	return service.NewInvestmentService(
		repository.NewInvestmentRepository(db),
		repository.NewUserRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewWithdrawalRepository(db),
		repository.NewActivityRepository(db),
		repository.NewCounterRepository(db),
		clock.Fixed{T: now},
	)
}

// NewTestWithdrawalService wires a WithdrawalService against the test
// database with a fixed clock.
func NewTestWithdrawalService(t *testing.T, db *sql.DB, now time.Time) *service.WithdrawalService {
	t.Helper()

	return service.NewWithdrawalService(
		repository.NewWithdrawalRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewActivityRepository(db),
		repository.NewCounterRepository(db),
		clock.Fixed{T: now},
	)
}

// NewTestDistributionService wires a DistributionService against the test
// database with a fixed clock and serial sweep.
func NewTestDistributionService(t *testing.T, db *sql.DB, now time.Time) *service.DistributionService {
	t.Helper()

	return service.NewDistributionService(
		repository.NewInvestmentRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewSettingsRepository(db),
		repository.NewCounterRepository(db),
		clock.Fixed{T: now},
		1,
	)
}

// NewTestUserService wires a UserService against the test database with a
// fixed clock.
func NewTestUserService(t *testing.T, db *sql.DB, now time.Time) *service.UserService {
	t.Helper()

	return service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewCounterRepository(db),
		clock.Fixed{T: now},
	)
}
