package validation

import (
	"strings"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
)

// ValidateCreateWithdrawal validates an investor withdrawal request.
func ValidateCreateWithdrawal(req request.CreateWithdrawalRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.InvestmentID) == "" {
		errors["investmentId"] = "investmentId is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
