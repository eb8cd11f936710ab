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

// InvestmentHandler handles investment lifecycle HTTP requests
type InvestmentHandler struct {
	investmentService *service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler
func NewInvestmentHandler(investmentService *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// InvestmentResponse represents an investment in API responses. Money is a
// 2-decimal string; dates are RFC3339 UTC.
type InvestmentResponse struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"userId"`
	Amount                 string     `json:"amount"`
	Bonds                  int64      `json:"bonds"`
	Status                 string     `json:"status"`
	PaymentFrequency       string     `json:"paymentFrequency"`
	LockupPeriod           string     `json:"lockupPeriod"`
	AccountType            string     `json:"accountType"`
	PaymentMethod          string     `json:"paymentMethod"`
	RequiresManualApproval bool       `json:"requiresManualApproval"`
	CreatedAt              time.Time  `json:"createdAt"`
	SubmittedAt            *time.Time `json:"submittedAt,omitempty"`
	ConfirmedAt            *time.Time `json:"confirmedAt,omitempty"`
	LockupEndDate          *time.Time `json:"lockupEndDate,omitempty"`
	WithdrawnAt            *time.Time `json:"withdrawnAt,omitempty"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

func toInvestmentResponse(inv model.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:                     inv.ID,
		UserID:                 inv.UserID,
		Amount:                 inv.Amount.StringFixed(2),
		Bonds:                  inv.Bonds,
		Status:                 string(inv.Status),
		PaymentFrequency:       string(inv.PaymentFrequency),
		LockupPeriod:           string(inv.LockupPeriod),
		AccountType:            string(inv.AccountType),
		PaymentMethod:          string(inv.PaymentMethod),
		RequiresManualApproval: inv.RequiresManualApproval,
		CreatedAt:              inv.CreatedAt,
		SubmittedAt:            inv.SubmittedAt,
		ConfirmedAt:            inv.ConfirmedAt,
		LockupEndDate:          inv.LockupEndDate,
		WithdrawnAt:            inv.WithdrawnAt,
		UpdatedAt:              inv.UpdatedAt,
	}
}

// List retrieves investments, optionally filtered by userId and status
// query parameters.
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.InvestmentFilter{
		UserID: r.URL.Query().Get("userId"),
		Status: model.InvestmentStatus(r.URL.Query().Get("status")),
	}

	investments, err := h.investmentService.GetInvestments(filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := make([]InvestmentResponse, len(investments))
	for i, inv := range investments {
		response[i] = toInvestmentResponse(inv)
	}
	respondJSON(w, http.StatusOK, response)
}

// Create creates a draft investment.
func (h *InvestmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateInvestmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInvestment(req); err != nil {
		respondServiceError(w, err)
		return
	}

	inv, err := h.investmentService.CreateInvestment(req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toInvestmentResponse(inv))
}

// Get retrieves a single investment.
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.investmentService.GetInvestment(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

// Update applies field changes to an investment, atomically.
func (h *InvestmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateInvestmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateInvestment(req); err != nil {
		respondServiceError(w, err)
		return
	}

	inv, err := h.investmentService.UpdateInvestment(chi.URLParam(r, "investmentID"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

// Delete removes a draft investment.
func (h *InvestmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.investmentService.DeleteInvestment(chi.URLParam(r, "investmentID")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Submit moves a draft to pending review.
func (h *InvestmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	inv, err := h.investmentService.SubmitInvestment(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toInvestmentResponse(inv))
}

// ValuationResponse represents a point-in-time valuation in API responses.
// Money is a 2-decimal string, matching every other endpoint.
type ValuationResponse struct {
	InvestmentID    string     `json:"investmentId"`
	Principal       string     `json:"principal"`
	TotalEarnings   string     `json:"totalEarnings"`
	CurrentValue    string     `json:"currentValue"`
	MonthsElapsed   int        `json:"monthsElapsed"`
	IsWithdrawable  bool       `json:"isWithdrawable"`
	Status          string     `json:"status"`
	MonthlyInterest string     `json:"monthlyInterest"`
	NextEventDate   *time.Time `json:"nextEventDate,omitempty"`
	LockupEndDate   *time.Time `json:"lockupEndDate,omitempty"`
	AsOf            time.Time  `json:"asOf"`
}

func toValuationResponse(v service.InvestmentValuation) ValuationResponse {
	return ValuationResponse{
		InvestmentID:    v.InvestmentID,
		Principal:       v.Principal.StringFixed(2),
		TotalEarnings:   v.TotalEarnings.StringFixed(2),
		CurrentValue:    v.CurrentValue.StringFixed(2),
		MonthsElapsed:   v.MonthsElapsed,
		IsWithdrawable:  v.IsWithdrawable,
		Status:          string(v.Status),
		MonthlyInterest: v.MonthlyInterest.StringFixed(2),
		NextEventDate:   v.NextEventDate,
		LockupEndDate:   v.LockupEndDate,
		AsOf:            v.AsOf,
	}
}

// Value returns the point-in-time valuation of an investment.
func (h *InvestmentHandler) Value(w http.ResponseWriter, r *http.Request) {
	valuation, err := h.investmentService.GetValuation(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toValuationResponse(valuation))
}

// Transactions returns the ledger of an investment, oldest first.
func (h *InvestmentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.investmentService.GetTransactions(chi.URLParam(r, "investmentID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponses(transactions))
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	InvestmentID  string     `json:"investmentId"`
	Type          string     `json:"type"`
	Amount        string     `json:"amount"`
	Date          time.Time  `json:"date"`
	MonthIndex    int        `json:"monthIndex"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failureReason,omitempty"`
	RetryCount    int        `json:"retryCount"`
	LastRetryAt   *time.Time `json:"lastRetryAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toTransactionResponse(tx model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		UserID:        tx.UserID,
		InvestmentID:  tx.InvestmentID,
		Type:          string(tx.Type),
		Amount:        tx.Amount.StringFixed(2),
		Date:          tx.Date,
		MonthIndex:    tx.MonthIndex,
		Status:        string(tx.Status),
		FailureReason: tx.FailureReason,
		RetryCount:    tx.RetryCount,
		LastRetryAt:   tx.LastRetryAt,
		CreatedAt:     tx.CreatedAt,
	}
}

func toTransactionResponses(transactions []model.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		response[i] = toTransactionResponse(tx)
	}
	return response
}
