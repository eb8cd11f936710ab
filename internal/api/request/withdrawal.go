package request

// CreateWithdrawalRequest is the payload for an investor withdrawal request.
type CreateWithdrawalRequest struct {
	InvestmentID string `json:"investmentId"`
}

// CompleteWithdrawalRequest is the payload for the admin completion action.
type CompleteWithdrawalRequest struct {
	ProcessedBy string `json:"processedBy"`
}
