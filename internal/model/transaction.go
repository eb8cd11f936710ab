package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies what an append-only ledger entry represents.
type TransactionType string

const (
	// TxInvestment is the initial funding of the principal.
	TxInvestment TransactionType = "investment"

	// TxDistribution is a monthly interest payout (monthly frequency only).
	TxDistribution TransactionType = "distribution"

	// TxContribution is a monthly interest amount compounded back into the
	// principal (compounding frequency only).
	TxContribution TransactionType = "contribution"

	// TxRedemption is the final payout when an investment is withdrawn.
	TxRedemption TransactionType = "redemption"
)

// TransactionStatus tracks settlement of a ledger entry. Only the status
// fields of a transaction may change after creation.
type TransactionStatus string

const (
	TxStatusPending  TransactionStatus = "pending"
	TxStatusReceived TransactionStatus = "received"
	TxStatusFailed   TransactionStatus = "failed"
)

// Transaction is an append-only activity record attached to an investment.
// Date is the event-effective date (the accrual anniversary), which may
// differ from CreatedAt (when the sweep processed it). MonthIndex is the
// 1-based accrual period for distribution/contribution entries and 0 for
// funding and redemption entries.
type Transaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	InvestmentID  string            `json:"investmentId"`
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Date          time.Time         `json:"date"`
	MonthIndex    int               `json:"monthIndex"`
	Status        TransactionStatus `json:"status"`
	FailureReason string            `json:"failureReason,omitempty"`
	RetryCount    int               `json:"retryCount"`
	LastRetryAt   *time.Time        `json:"lastRetryAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// PendingPayout is a distribution awaiting admin settlement, enriched with
// investor and investment context for the admin review queue.
type PendingPayout struct {
	Transaction
	UserEmail        string           `json:"userEmail"`
	UserName         string           `json:"userName"`
	InvestmentAmount decimal.Decimal  `json:"investmentAmount"`
	LockupPeriod     LockupPeriod     `json:"lockupPeriod"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency"`
}
