package request

// TimeMachineRequest sets the application time override and/or toggles
// distribution auto-approval. Time is RFC3339 or YYYY-MM-DD.
type TimeMachineRequest struct {
	Time                     *string `json:"time,omitempty"`
	AutoApproveDistributions *bool   `json:"autoApproveDistributions,omitempty"`
}

// FailPayoutRequest marks a pending distribution as failed.
type FailPayoutRequest struct {
	Reason string `json:"reason"`
}
