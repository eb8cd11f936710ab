package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the lifecycle of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
)

// TerminationAdminImmediate marks a withdrawal created by an admin terminate
// action, which bypasses the standard notice period.
const TerminationAdminImmediate = "admin_immediate"

// Withdrawal records an investor's request to redeem an investment, or the
// synthetic record created when an admin terminates one immediately.
type Withdrawal struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	InvestmentID    string           `json:"investmentId"`
	Status          WithdrawalStatus `json:"status"`
	RequestedAmount decimal.Decimal  `json:"requestedAmount"`
	RequestedAt     time.Time        `json:"requestedAt"`
	ProcessedAt     *time.Time       `json:"processedAt,omitempty"`
	ProcessedBy     string           `json:"processedBy,omitempty"`
	TerminationType string           `json:"terminationType,omitempty"`
	OverrideLockup  bool             `json:"overrideLockup"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}
