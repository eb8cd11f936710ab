package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/service"
	"github.com/clearharbor/bond-platform-backend/internal/validation"
)

// WithdrawalHandler handles withdrawal HTTP requests
type WithdrawalHandler struct {
	withdrawalService *service.WithdrawalService
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// WithdrawalResponse represents a withdrawal in API responses.
type WithdrawalResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	InvestmentID    string     `json:"investmentId"`
	Status          string     `json:"status"`
	RequestedAmount string     `json:"requestedAmount"`
	RequestedAt     time.Time  `json:"requestedAt"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	ProcessedBy     string     `json:"processedBy,omitempty"`
	TerminationType string     `json:"terminationType,omitempty"`
	OverrideLockup  bool       `json:"overrideLockup"`
}

func toWithdrawalResponse(w model.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:              w.ID,
		UserID:          w.UserID,
		InvestmentID:    w.InvestmentID,
		Status:          string(w.Status),
		RequestedAmount: w.RequestedAmount.StringFixed(2),
		RequestedAt:     w.RequestedAt,
		ProcessedAt:     w.ProcessedAt,
		ProcessedBy:     w.ProcessedBy,
		TerminationType: w.TerminationType,
		OverrideLockup:  w.OverrideLockup,
	}
}

// Request starts the redemption process for an investment.
func (h *WithdrawalHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req request.CreateWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateWithdrawal(req); err != nil {
		respondServiceError(w, err)
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(req.InvestmentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toWithdrawalResponse(withdrawal))
}

// Get retrieves a withdrawal by ID.
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	withdrawal, err := h.withdrawalService.GetWithdrawal(chi.URLParam(r, "withdrawalID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

// Pending returns the admin queue of withdrawals awaiting completion.
func (h *WithdrawalHandler) Pending(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.GetPendingWithdrawals()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := make([]WithdrawalResponse, len(withdrawals))
	for i, wd := range withdrawals {
		response[i] = toWithdrawalResponse(wd)
	}
	respondJSON(w, http.StatusOK, response)
}

// Complete settles a pending withdrawal.
func (h *WithdrawalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req request.CompleteWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	withdrawal, err := h.withdrawalService.CompleteWithdrawal(chi.URLParam(r, "withdrawalID"), req.ProcessedBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}
