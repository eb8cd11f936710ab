package model

import "time"

// Activity event types. The activity log is append-only and tracks the
// significant lifecycle events only; draft edits are deliberately not logged.
const (
	ActivityInvestmentSubmitted  = "investment_submitted"
	ActivityInvestmentConfirmed  = "investment_confirmed"
	ActivityInvestmentRejected   = "investment_rejected"
	ActivityInvestmentTerminated = "investment_terminated"
	ActivityWithdrawalRequested  = "withdrawal_requested"
	ActivityWithdrawalCompleted  = "withdrawal_completed"
)

// ActivityEvent is an audit log entry tied to a user and, usually, an
// investment. Date uses application time so the audit trail lines up with
// time-machine driven accrual events.
type ActivityEvent struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	InvestmentID string    `json:"investmentId,omitempty"`
	Type         string    `json:"type"`
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
}
