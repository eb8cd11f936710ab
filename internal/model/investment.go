package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LockupPeriod is the minimum holding duration before principal can be
// withdrawn without an admin override.
type LockupPeriod string

const (
	LockupOneYear   LockupPeriod = "1-year"
	LockupThreeYear LockupPeriod = "3-year"
)

// PaymentFrequency controls what happens to monthly interest: paid out to the
// investor or compounded back into the principal.
type PaymentFrequency string

const (
	FrequencyMonthly     PaymentFrequency = "monthly"
	FrequencyCompounding PaymentFrequency = "compounding"
)

// AccountType is the legal holding structure of an investment.
type AccountType string

const (
	AccountIndividual AccountType = "individual"
	AccountJoint      AccountType = "joint"
	AccountEntity     AccountType = "entity"
	AccountIRA        AccountType = "ira"
)

// PaymentMethod is how the principal is funded.
type PaymentMethod string

const (
	PaymentACH  PaymentMethod = "ach"
	PaymentWire PaymentMethod = "wire"
)

// InvestmentStatus is the lifecycle state of an investment. Transitions are
// validated by the engine package; rejected and withdrawn are terminal and
// records in those states are kept for audit.
type InvestmentStatus string

const (
	StatusDraft            InvestmentStatus = "draft"
	StatusPending          InvestmentStatus = "pending"
	StatusActive           InvestmentStatus = "active"
	StatusRejected         InvestmentStatus = "rejected"
	StatusWithdrawalNotice InvestmentStatus = "withdrawal_notice"
	StatusWithdrawn        InvestmentStatus = "withdrawn"
)

// BondPrice is the fixed unit price used for the informational bond count.
var BondPrice = decimal.NewFromInt(10)

// Investment is the central entity of the platform. Amount is the principal
// in dollars; it is immutable once the investment is active.
type Investment struct {
	ID                     string           `json:"id"`
	UserID                 string           `json:"userId"`
	Amount                 decimal.Decimal  `json:"amount"`
	Bonds                  int64            `json:"bonds"`
	Status                 InvestmentStatus `json:"status"`
	PaymentFrequency       PaymentFrequency `json:"paymentFrequency"`
	LockupPeriod           LockupPeriod     `json:"lockupPeriod"`
	AccountType            AccountType      `json:"accountType"`
	PaymentMethod          PaymentMethod    `json:"paymentMethod"`
	RequiresManualApproval bool             `json:"requiresManualApproval"`
	CreatedAt              time.Time        `json:"createdAt"`
	SubmittedAt            *time.Time       `json:"submittedAt,omitempty"`
	ConfirmedAt            *time.Time       `json:"confirmedAt,omitempty"`
	LockupEndDate          *time.Time       `json:"lockupEndDate,omitempty"`
	WithdrawnAt            *time.Time       `json:"withdrawnAt,omitempty"`
	UpdatedAt              time.Time        `json:"updatedAt"`
}

// BondCount returns the informational bond count for a principal amount,
// floor(amount / 10). Display only, never used in accrual math.
func BondCount(amount decimal.Decimal) int64 {
	return amount.Div(BondPrice).Floor().IntPart()
}

// InvestmentFilter controls which investments a list query returns. Empty
// fields match everything.
type InvestmentFilter struct {
	UserID string
	Status InvestmentStatus
}
