package engine

import (
	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

// transitions is the full set of legal status edges. Rejected and withdrawn
// are terminal. The admin terminate action is NOT an edge here; it is a
// distinct, lockup-gated operation (see Terminate).
var transitions = map[model.InvestmentStatus][]model.InvestmentStatus{
	model.StatusDraft:            {model.StatusPending},
	model.StatusPending:          {model.StatusActive, model.StatusRejected},
	model.StatusActive:           {model.StatusWithdrawalNotice},
	model.StatusWithdrawalNotice: {model.StatusWithdrawn},
	model.StatusRejected:         {},
	model.StatusWithdrawn:        {},
}

// AllowedTransitions returns the statuses legally reachable from current.
// The returned slice is a copy.
func AllowedTransitions(current model.InvestmentStatus) []model.InvestmentStatus {
	allowed := transitions[current]
	out := make([]model.InvestmentStatus, len(allowed))
	copy(out, allowed)
	return out
}

// ValidateTransition checks whether requested is reachable from current.
// Requesting the current status is a permitted no-op. Illegal requests fail
// with a StatusTransitionError carrying the allowed set.
func ValidateTransition(current, requested model.InvestmentStatus) error {
	if requested == current {
		return nil
	}
	for _, allowed := range transitions[current] {
		if requested == allowed {
			return nil
		}
	}
	return transitionError(current, requested)
}

// RequireTransition is ValidateTransition for actions that must actually
// move the status. Requesting the current status is rejected here: an action
// guard that treats it as a no-op would let the action run twice.
func RequireTransition(current, requested model.InvestmentStatus) error {
	if requested == current {
		return transitionError(current, requested)
	}
	return ValidateTransition(current, requested)
}

func transitionError(current, requested model.InvestmentStatus) *apperrors.StatusTransitionError {
	allowed := transitions[current]
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return &apperrors.StatusTransitionError{
		Current:   string(current),
		Requested: string(requested),
		Allowed:   names,
	}
}
