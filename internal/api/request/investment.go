package request

// CreateInvestmentRequest is the payload for creating a draft investment.
// Amount is a decimal string to avoid float drift in transit.
type CreateInvestmentRequest struct {
	UserID           string `json:"userId"`
	Amount           string `json:"amount"`
	LockupPeriod     string `json:"lockupPeriod"`
	PaymentFrequency string `json:"paymentFrequency"`
	AccountType      string `json:"accountType"`
	PaymentMethod    string `json:"paymentMethod"`
}

// UpdateInvestmentRequest is the payload for updating an investment. Absent
// fields are left unchanged.
type UpdateInvestmentRequest struct {
	Amount           *string `json:"amount,omitempty"`
	LockupPeriod     *string `json:"lockupPeriod,omitempty"`
	PaymentFrequency *string `json:"paymentFrequency,omitempty"`
	AccountType      *string `json:"accountType,omitempty"`
	Status           *string `json:"status,omitempty"`
}

// TerminateInvestmentRequest is the payload for the admin terminate action.
// OverrideLockup must be explicitly set to terminate inside an unexpired
// lockup.
type TerminateInvestmentRequest struct {
	OverrideLockup bool   `json:"overrideLockup"`
	ProcessedBy    string `json:"processedBy"`
}
