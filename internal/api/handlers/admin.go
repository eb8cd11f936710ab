package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/service"
)

// AdminHandler handles the admin surface: investment review, payout
// settlement, the distribution sweep trigger, the time machine and support
// access tokens.
type AdminHandler struct {
	investmentService   *service.InvestmentService
	distributionService *service.DistributionService
	timeMachineService  *service.TimeMachineService
	accessTokenService  *service.AccessTokenService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	investmentService *service.InvestmentService,
	distributionService *service.DistributionService,
	timeMachineService *service.TimeMachineService,
	accessTokenService *service.AccessTokenService,
) *AdminHandler {
	return &AdminHandler{
		investmentService:   investmentService,
		distributionService: distributionService,
		timeMachineService:  timeMachineService,
		accessTokenService:  accessTokenService,
	}
}

// Approve confirms a pending investment.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	inv, err := h.investmentService.ApproveInvestment(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

// Reject declines a pending investment.
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	inv, err := h.investmentService.RejectInvestment(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

// TerminateResponse reports the outcome of an immediate termination.
type TerminateResponse struct {
	Investment      InvestmentResponse `json:"investment"`
	FinalValue      string             `json:"finalValue"`
	PrincipalAmount string             `json:"principalAmount"`
	TotalEarnings   string             `json:"totalEarnings"`
	MonthsElapsed   int                `json:"monthsElapsed"`
}

// Terminate immediately withdraws an investment, optionally overriding an
// unexpired lockup.
func (h *AdminHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	var req request.TerminateInvestmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	inv, result, err := h.investmentService.TerminateInvestment(
		chi.URLParam(r, "investmentID"), req.OverrideLockup, req.ProcessedBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, TerminateResponse{
		Investment:      toInvestmentResponse(inv),
		FinalValue:      result.FinalValue.StringFixed(2),
		PrincipalAmount: result.PrincipalAmount.StringFixed(2),
		TotalEarnings:   result.TotalEarnings.StringFixed(2),
		MonthsElapsed:   result.MonthsElapsed,
	})
}

// PendingPayoutResponse is one row of the payout settlement queue.
type PendingPayoutResponse struct {
	TransactionResponse
	UserEmail        string `json:"userEmail"`
	UserName         string `json:"userName"`
	InvestmentAmount string `json:"investmentAmount"`
	LockupPeriod     string `json:"lockupPeriod"`
	PaymentFrequency string `json:"paymentFrequency"`
}

// PendingPayouts returns all distributions awaiting settlement.
func (h *AdminHandler) PendingPayouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.distributionService.GetPendingPayouts()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := make([]PendingPayoutResponse, len(payouts))
	for i, p := range payouts {
		response[i] = PendingPayoutResponse{
			TransactionResponse: toTransactionResponse(p.Transaction),
			UserEmail:           p.UserEmail,
			UserName:            p.UserName,
			InvestmentAmount:    p.InvestmentAmount.StringFixed(2),
			LockupPeriod:        string(p.LockupPeriod),
			PaymentFrequency:    string(p.PaymentFrequency),
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// CompletePayout marks a distribution as received.
func (h *AdminHandler) CompletePayout(w http.ResponseWriter, r *http.Request) {
	tx, err := h.distributionService.CompletePayout(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// FailPayout marks a distribution as failed.
func (h *AdminHandler) FailPayout(w http.ResponseWriter, r *http.Request) {
	var req request.FailPayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.distributionService.FailPayout(chi.URLParam(r, "transactionID"), req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// RetryPayout moves a failed distribution back to pending.
func (h *AdminHandler) RetryPayout(w http.ResponseWriter, r *http.Request) {
	tx, err := h.distributionService.RetryPayout(chi.URLParam(r, "transactionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// RunDistributions triggers the regeneration sweep on demand.
func (h *AdminHandler) RunDistributions(w http.ResponseWriter, r *http.Request) {
	result, err := h.distributionService.RunSweep(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// TimeMachineStatus returns the current application time state.
func (h *AdminHandler) TimeMachineStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.timeMachineService.Status()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// TimeMachineSet sets the time override and/or the auto-approve flag.
func (h *AdminHandler) TimeMachineSet(w http.ResponseWriter, r *http.Request) {
	var req request.TimeMachineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Time != nil {
		t, err := repository.ParseTime(*req.Time)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid time value", err.Error())
			return
		}
		if err := h.timeMachineService.SetOverride(t); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	if req.AutoApproveDistributions != nil {
		if err := h.timeMachineService.SetAutoApproveDistributions(*req.AutoApproveDistributions); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	h.TimeMachineStatus(w, r)
}

// TimeMachineReset clears the time override.
func (h *AdminHandler) TimeMachineReset(w http.ResponseWriter, r *http.Request) {
	if err := h.timeMachineService.ClearOverride(); err != nil {
		respondServiceError(w, err)
		return
	}
	h.TimeMachineStatus(w, r)
}

// AccessToken mints a short-lived support access token.
func (h *AdminHandler) AccessToken(w http.ResponseWriter, r *http.Request) {
	if h.accessTokenService == nil {
		respondError(w, http.StatusServiceUnavailable, "access tokens not configured", "")
		return
	}

	status, err := h.timeMachineService.Status()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	issuedFor := r.URL.Query().Get("issuedFor")
	if issuedFor == "" {
		issuedFor = "support"
	}

	token, err := h.accessTokenService.Issue(issuedFor, status.RealTime)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, token)
}
