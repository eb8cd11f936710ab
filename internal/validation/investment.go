package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/model"
)

var (
	// MinimumInvestment is the smallest accepted principal.
	MinimumInvestment = decimal.NewFromInt(1000)

	// WireThreshold is the principal above which ACH is not accepted.
	WireThreshold = decimal.NewFromInt(100000)
)

var validLockupPeriods = map[string]bool{
	string(model.LockupOneYear):   true,
	string(model.LockupThreeYear): true,
}

var validPaymentFrequencies = map[string]bool{
	string(model.FrequencyMonthly):     true,
	string(model.FrequencyCompounding): true,
}

var validAccountTypes = map[string]bool{
	string(model.AccountIndividual): true,
	string(model.AccountJoint):      true,
	string(model.AccountEntity):     true,
	string(model.AccountIRA):        true,
}

var validPaymentMethods = map[string]bool{
	string(model.PaymentACH):  true,
	string(model.PaymentWire): true,
}

// ValidateCreateInvestment validates a draft creation request.
//
// Rules:
//   - amount: decimal, at least $1,000, in whole $10 increments
//   - lockupPeriod / paymentFrequency / accountType / paymentMethod: enums
//   - IRA accounts must use compounding (no monthly payouts)
//   - IRA accounts and amounts above $100,000 must fund by wire
//
// Returns a validation Error with field-specific messages if validation fails.
func ValidateCreateInvestment(req request.CreateInvestmentRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.UserID) == "" {
		errors["userId"] = "userId is required"
	}

	amount, ok := validateAmount(req.Amount, errors)

	if !validLockupPeriods[req.LockupPeriod] {
		errors["lockupPeriod"] = fmt.Sprintf("invalid lockup period: %s", req.LockupPeriod)
	}
	if !validPaymentFrequencies[req.PaymentFrequency] {
		errors["paymentFrequency"] = fmt.Sprintf("invalid payment frequency: %s", req.PaymentFrequency)
	}
	if !validAccountTypes[req.AccountType] {
		errors["accountType"] = fmt.Sprintf("invalid account type: %s", req.AccountType)
	}
	if !validPaymentMethods[req.PaymentMethod] {
		errors["paymentMethod"] = fmt.Sprintf("invalid payment method: %s", req.PaymentMethod)
	}

	if req.AccountType == string(model.AccountIRA) && req.PaymentFrequency == string(model.FrequencyMonthly) {
		errors["paymentFrequency"] = "IRA accounts cannot receive monthly payouts"
	}

	if req.PaymentMethod == string(model.PaymentACH) {
		if req.AccountType == string(model.AccountIRA) {
			errors["paymentMethod"] = "IRA accounts must fund by wire"
		} else if ok && amount.GreaterThan(WireThreshold) {
			errors["paymentMethod"] = "amounts above $100,000 must fund by wire"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateInvestment validates the provided fields of an update
// request. Cross-field rules against the stored record are enforced by the
// service; this checks formats and enums only.
func ValidateUpdateInvestment(req request.UpdateInvestmentRequest) error {
	errors := make(map[string]string)

	if req.Amount != nil {
		validateAmount(*req.Amount, errors)
	}
	if req.LockupPeriod != nil && !validLockupPeriods[*req.LockupPeriod] {
		errors["lockupPeriod"] = fmt.Sprintf("invalid lockup period: %s", *req.LockupPeriod)
	}
	if req.PaymentFrequency != nil && !validPaymentFrequencies[*req.PaymentFrequency] {
		errors["paymentFrequency"] = fmt.Sprintf("invalid payment frequency: %s", *req.PaymentFrequency)
	}
	if req.AccountType != nil && !validAccountTypes[*req.AccountType] {
		errors["accountType"] = fmt.Sprintf("invalid account type: %s", *req.AccountType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateAmount(raw string, errors map[string]string) (decimal.Decimal, bool) {
	if strings.TrimSpace(raw) == "" {
		errors["amount"] = "amount is required"
		return decimal.Decimal{}, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		errors["amount"] = "amount not a valid number"
		return decimal.Decimal{}, false
	}

	if amount.LessThan(MinimumInvestment) {
		errors["amount"] = "minimum investment is $1,000"
		return amount, false
	}

	if !amount.Mod(model.BondPrice).IsZero() {
		errors["amount"] = "amount must be in $10 increments"
		return amount, false
	}

	return amount, true
}
