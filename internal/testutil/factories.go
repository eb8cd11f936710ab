package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
)

// BaseTime is the default "now" for factory-created records. Tests that
// care about accrual math set explicit dates instead.
var BaseTime = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().Build(t, db)
//	locked := testutil.NewUser().WithAccountType(model.AccountIRA).Build(t, db)
type UserBuilder struct {
	Email       string
	FirstName   string
	LastName    string
	AccountType model.AccountType
	IsAdmin     bool
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		Email:     "", // allocated per build to stay unique
		FirstName: "Test",
		LastName:  "Investor",
	}
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithAccountType pre-locks the account type.
func (b *UserBuilder) WithAccountType(accountType model.AccountType) *UserBuilder {
	b.AccountType = accountType
	return b
}

// Admin marks the user as an admin.
func (b *UserBuilder) Admin() *UserBuilder {
	b.IsAdmin = true
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	id, err := repository.NewCounterRepository(db).NextID(repository.CounterUser)
	if err != nil {
		t.Fatalf("Failed to allocate test user id: %v", err)
	}

	email := b.Email
	if email == "" {
		email = id + "@example.com"
	}

	user := model.User{
		ID:          id,
		Email:       email,
		FirstName:   b.FirstName,
		LastName:    b.LastName,
		AccountType: b.AccountType,
		IsAdmin:     b.IsAdmin,
		CreatedAt:   BaseTime,
		UpdatedAt:   BaseTime,
	}
	if err := repository.NewUserRepository(db).CreateUser(user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// InvestmentBuilder provides a fluent interface for creating test
// investments.
//
// Example usage:
//
//	inv := testutil.NewInvestment(user.ID).Build(t, db)
//	active := testutil.NewInvestment(user.ID).Active(confirmedAt).Build(t, db)
type InvestmentBuilder struct {
	UserID           string
	Amount           decimal.Decimal
	Status           model.InvestmentStatus
	PaymentFrequency model.PaymentFrequency
	LockupPeriod     model.LockupPeriod
	AccountType      model.AccountType
	PaymentMethod    model.PaymentMethod
	CreatedAt        time.Time
	SubmittedAt      *time.Time
	ConfirmedAt      *time.Time
}

// NewInvestment creates an InvestmentBuilder with sensible defaults: a
// $10,000 draft, 1-year lockup, compounding.
func NewInvestment(userID string) *InvestmentBuilder {
	return &InvestmentBuilder{
		UserID:           userID,
		Amount:           decimal.NewFromInt(10000),
		Status:           model.StatusDraft,
		PaymentFrequency: model.FrequencyCompounding,
		LockupPeriod:     model.LockupOneYear,
		AccountType:      model.AccountIndividual,
		PaymentMethod:    model.PaymentACH,
		CreatedAt:        BaseTime,
	}
}

// WithAmount sets a custom principal.
func (b *InvestmentBuilder) WithAmount(amount int64) *InvestmentBuilder {
	b.Amount = decimal.NewFromInt(amount)
	return b
}

// WithLockupPeriod sets a custom lockup period.
func (b *InvestmentBuilder) WithLockupPeriod(period model.LockupPeriod) *InvestmentBuilder {
	b.LockupPeriod = period
	return b
}

// WithPaymentFrequency sets a custom payment frequency.
func (b *InvestmentBuilder) WithPaymentFrequency(frequency model.PaymentFrequency) *InvestmentBuilder {
	b.PaymentFrequency = frequency
	return b
}

// WithAccountType sets a custom account type.
func (b *InvestmentBuilder) WithAccountType(accountType model.AccountType) *InvestmentBuilder {
	b.AccountType = accountType
	return b
}

// Pending marks the investment as submitted at the given time.
func (b *InvestmentBuilder) Pending(submittedAt time.Time) *InvestmentBuilder {
	b.Status = model.StatusPending
	b.SubmittedAt = &submittedAt
	return b
}

// Active marks the investment as confirmed at the given time; the lockup
// end date follows from the lockup period.
func (b *InvestmentBuilder) Active(confirmedAt time.Time) *InvestmentBuilder {
	b.Status = model.StatusActive
	b.ConfirmedAt = &confirmedAt
	return b
}

// Build creates the investment in the database and returns it.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	id, err := repository.NewCounterRepository(db).NextID(repository.CounterInvestment)
	if err != nil {
		t.Fatalf("Failed to allocate test investment id: %v", err)
	}

	inv := model.Investment{
		ID:               id,
		UserID:           b.UserID,
		Amount:           b.Amount,
		Bonds:            model.BondCount(b.Amount),
		Status:           b.Status,
		PaymentFrequency: b.PaymentFrequency,
		LockupPeriod:     b.LockupPeriod,
		AccountType:      b.AccountType,
		PaymentMethod:    b.PaymentMethod,
		CreatedAt:        b.CreatedAt,
		SubmittedAt:      b.SubmittedAt,
		ConfirmedAt:      b.ConfirmedAt,
		UpdatedAt:        b.CreatedAt,
	}

	if b.ConfirmedAt != nil {
		years := 1
		if b.LockupPeriod == model.LockupThreeYear {
			years = 3
		}
		end := b.ConfirmedAt.AddDate(years, 0, 0)
		inv.LockupEndDate = &end
	}

	if err := repository.NewInvestmentRepository(db).CreateInvestment(inv); err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}
	return inv
}

// CreateActiveInvestment creates a user and an active investment confirmed
// at the given time.
func CreateActiveInvestment(t *testing.T, db *sql.DB, confirmedAt time.Time) model.Investment {
	t.Helper()
	user := NewUser().Build(t, db)
	return NewInvestment(user.ID).Active(confirmedAt).Build(t, db)
}
