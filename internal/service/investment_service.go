package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/engine"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
)

// InvestmentService handles the investment lifecycle: draft creation and
// editing, submission, admin approval/rejection, termination and valuation.
// All state changes go through the engine package so the status rules live
// in exactly one place.
type InvestmentService struct {
	investmentRepo  *repository.InvestmentRepository
	userRepo        *repository.UserRepository
	transactionRepo *repository.TransactionRepository
	withdrawalRepo  *repository.WithdrawalRepository
	activityRepo    *repository.ActivityRepository
	counterRepo     *repository.CounterRepository
	clock           clock.Clock
}

// NewInvestmentService creates a new InvestmentService with the provided repository dependencies.
func NewInvestmentService(
	investmentRepo *repository.InvestmentRepository,
	userRepo *repository.UserRepository,
	transactionRepo *repository.TransactionRepository,
	withdrawalRepo *repository.WithdrawalRepository,
	activityRepo *repository.ActivityRepository,
	counterRepo *repository.CounterRepository,
	clk clock.Clock,
) *InvestmentService {
	return &InvestmentService{
		investmentRepo:  investmentRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		withdrawalRepo:  withdrawalRepo,
		activityRepo:    activityRepo,
		counterRepo:     counterRepo,
		clock:           clk,
	}
}

// CreateInvestment creates a draft investment for a user. IRA accounts and
// amounts above the wire threshold are flagged for manual approval.
func (s *InvestmentService) CreateInvestment(req request.CreateInvestmentRequest) (model.Investment, error) {
	user, err := s.userRepo.GetUserOnID(req.UserID)
	if err != nil {
		return model.Investment{}, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to parse amount: %w", err)
	}

	accountType := model.AccountType(req.AccountType)
	if user.AccountType != "" && accountType != user.AccountType {
		return model.Investment{}, apperrors.ErrAccountTypeLocked
	}

	id, err := s.counterRepo.NextID(repository.CounterInvestment)
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to allocate investment id: %w", err)
	}

	now := s.clock.Now()
	inv := model.Investment{
		ID:                     id,
		UserID:                 user.ID,
		Amount:                 amount,
		Bonds:                  model.BondCount(amount),
		Status:                 model.StatusDraft,
		PaymentFrequency:       model.PaymentFrequency(req.PaymentFrequency),
		LockupPeriod:           model.LockupPeriod(req.LockupPeriod),
		AccountType:            accountType,
		PaymentMethod:          model.PaymentMethod(req.PaymentMethod),
		RequiresManualApproval: requiresManualApproval(accountType, amount),
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.investmentRepo.CreateInvestment(inv); err != nil {
		return model.Investment{}, err
	}

	return inv, nil
}

// requiresManualApproval flags investments an admin must review by hand:
// IRA money and anything above the wire threshold.
func requiresManualApproval(accountType model.AccountType, amount decimal.Decimal) bool {
	return accountType == model.AccountIRA || amount.GreaterThan(decimal.NewFromInt(100000))
}

// UpdateInvestment applies the provided field changes atomically. Validation
// runs against the stored record and the owner's account type lock; on any
// violation nothing is changed.
func (s *InvestmentService) UpdateInvestment(investmentID string, req request.UpdateInvestmentRequest) (model.Investment, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return model.Investment{}, err
	}

	user, err := s.userRepo.GetUserOnID(inv.UserID)
	if err != nil {
		return model.Investment{}, err
	}

	fields := engine.UpdateFields{}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return model.Investment{}, fmt.Errorf("failed to parse amount: %w", err)
		}
		fields.Amount = &amount
	}
	if req.LockupPeriod != nil {
		period := model.LockupPeriod(*req.LockupPeriod)
		fields.LockupPeriod = &period
	}
	if req.PaymentFrequency != nil {
		frequency := model.PaymentFrequency(*req.PaymentFrequency)
		fields.PaymentFrequency = &frequency
	}
	if req.AccountType != nil {
		accountType := model.AccountType(*req.AccountType)
		fields.AccountType = &accountType
	}
	if req.Status != nil {
		status := model.InvestmentStatus(*req.Status)
		fields.Status = &status
	}

	updated, err := engine.ApplyUpdate(inv, fields, user.AccountType, s.clock.Now())
	if err != nil {
		return model.Investment{}, err
	}

	// Manual-approval flag follows the effective values.
	updated.RequiresManualApproval = requiresManualApproval(updated.AccountType, updated.Amount)

	if err := s.investmentRepo.UpdateInvestment(updated, inv.Status); err != nil {
		return model.Investment{}, err
	}

	return updated, nil
}

// SubmitInvestment moves a draft to pending review. The first submission
// stamps the account type lock onto the owning user.
func (s *InvestmentService) SubmitInvestment(investmentID string) (model.Investment, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return model.Investment{}, err
	}

	if err := engine.ValidateTransition(inv.Status, model.StatusPending); err != nil {
		return model.Investment{}, err
	}
	if inv.Status != model.StatusDraft {
		return model.Investment{}, apperrors.ErrInvestmentNotDraft
	}

	user, err := s.userRepo.GetUserOnID(inv.UserID)
	if err != nil {
		return model.Investment{}, err
	}
	if user.AccountType != "" && inv.AccountType != user.AccountType {
		return model.Investment{}, apperrors.ErrAccountTypeLocked
	}

	now := s.clock.Now()
	inv.Status = model.StatusPending
	inv.SubmittedAt = &now
	inv.UpdatedAt = now

	if err := s.investmentRepo.UpdateInvestment(inv, model.StatusDraft); err != nil {
		return model.Investment{}, err
	}

	if user.AccountType == "" {
		if err := s.userRepo.SetAccountType(user.ID, inv.AccountType, now.UTC().Format(time.RFC3339)); err != nil {
			return model.Investment{}, err
		}
	}

	s.logActivity(inv, model.ActivityInvestmentSubmitted,
		fmt.Sprintf("Investment %s submitted for review ($%s)", inv.ID, inv.Amount.StringFixed(2)))

	return inv, nil
}

// ApproveInvestment confirms a pending investment: accrual starts, the
// lockup clock starts, and the funding transaction is recorded.
func (s *InvestmentService) ApproveInvestment(investmentID string) (model.Investment, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return model.Investment{}, err
	}

	approved, err := engine.Approve(inv, s.clock.Now())
	if err != nil {
		return model.Investment{}, err
	}

	if err := s.investmentRepo.UpdateInvestment(approved, inv.Status); err != nil {
		return model.Investment{}, err
	}

	txID, err := s.counterRepo.NextID(repository.CounterTransaction)
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to allocate transaction id: %w", err)
	}

	funding := model.Transaction{
		ID:           txID,
		UserID:       approved.UserID,
		InvestmentID: approved.ID,
		Type:         model.TxInvestment,
		Amount:       approved.Amount,
		Date:         *approved.ConfirmedAt,
		Status:       model.TxStatusReceived,
		CreatedAt:    *approved.ConfirmedAt,
	}
	if err := s.transactionRepo.CreateTransaction(funding); err != nil {
		return model.Investment{}, err
	}

	s.logActivity(approved, model.ActivityInvestmentConfirmed,
		fmt.Sprintf("Investment %s confirmed, lockup ends %s", approved.ID,
			approved.LockupEndDate.Format("2006-01-02")))

	return approved, nil
}

// RejectInvestment declines a pending investment. Terminal.
func (s *InvestmentService) RejectInvestment(investmentID string) (model.Investment, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return model.Investment{}, err
	}

	rejected, err := engine.Reject(inv, s.clock.Now())
	if err != nil {
		return model.Investment{}, err
	}

	if err := s.investmentRepo.UpdateInvestment(rejected, inv.Status); err != nil {
		return model.Investment{}, err
	}

	s.logActivity(rejected, model.ActivityInvestmentRejected,
		fmt.Sprintf("Investment %s rejected", rejected.ID))

	return rejected, nil
}

// TerminateInvestment is the admin immediate-termination action. Inside an
// unexpired lockup it fails with the lockup end date unless overrideLockup
// is set. On success the investment is withdrawn, a synthetic withdrawal
// record and the redemption transaction are written, and the final payout is
// returned.
func (s *InvestmentService) TerminateInvestment(investmentID string, overrideLockup bool, processedBy string) (model.Investment, engine.TerminationResult, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return model.Investment{}, engine.TerminationResult{}, err
	}

	now := s.clock.Now()
	terminated, result, err := engine.Terminate(inv, now, overrideLockup)
	if err != nil {
		return model.Investment{}, engine.TerminationResult{}, err
	}

	if err := s.investmentRepo.UpdateInvestment(terminated, inv.Status); err != nil {
		return model.Investment{}, engine.TerminationResult{}, err
	}

	wdID, err := s.counterRepo.NextID(repository.CounterWithdrawal)
	if err != nil {
		return model.Investment{}, engine.TerminationResult{}, fmt.Errorf("failed to allocate withdrawal id: %w", err)
	}

	processedAt := *terminated.WithdrawnAt
	withdrawal := model.Withdrawal{
		ID:              wdID,
		UserID:          terminated.UserID,
		InvestmentID:    terminated.ID,
		Status:          model.WithdrawalApproved,
		RequestedAmount: result.FinalValue,
		RequestedAt:     processedAt,
		ProcessedAt:     &processedAt,
		ProcessedBy:     processedBy,
		TerminationType: model.TerminationAdminImmediate,
		OverrideLockup:  overrideLockup,
		CreatedAt:       processedAt,
		UpdatedAt:       processedAt,
	}
	if err := s.withdrawalRepo.CreateWithdrawal(withdrawal); err != nil {
		return model.Investment{}, engine.TerminationResult{}, err
	}

	if err := s.createRedemption(terminated, result.FinalValue, processedAt); err != nil {
		return model.Investment{}, engine.TerminationResult{}, err
	}

	s.logActivity(terminated, model.ActivityInvestmentTerminated,
		fmt.Sprintf("Investment %s terminated by %s, final value $%s", terminated.ID, processedBy, result.FinalValue.StringFixed(2)))
	s.logActivity(terminated, model.ActivityWithdrawalCompleted,
		fmt.Sprintf("Withdrawal %s completed for $%s", wdID, result.FinalValue.StringFixed(2)))

	return terminated, result, nil
}

// createRedemption records the final payout ledger entry.
func (s *InvestmentService) createRedemption(inv model.Investment, amount decimal.Decimal, at time.Time) error {
	txID, err := s.counterRepo.NextID(repository.CounterTransaction)
	if err != nil {
		return fmt.Errorf("failed to allocate transaction id: %w", err)
	}

	redemption := model.Transaction{
		ID:           txID,
		UserID:       inv.UserID,
		InvestmentID: inv.ID,
		Type:         model.TxRedemption,
		Amount:       amount,
		Date:         at,
		Status:       model.TxStatusReceived,
		CreatedAt:    at,
	}
	return s.transactionRepo.CreateTransaction(redemption)
}

// InvestmentValuation is the point-in-time valuation snapshot plus payment
// scheduling context. The HTTP layer owns its wire representation.
type InvestmentValuation struct {
	InvestmentID string
	engine.Valuation
	Status          model.InvestmentStatus
	MonthlyInterest decimal.Decimal
	NextEventDate   *time.Time
	LockupEndDate   *time.Time
	AsOf            time.Time
}

// GetValuation computes the current valuation of an investment using
// application time.
func (s *InvestmentService) GetValuation(investmentID string) (InvestmentValuation, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return InvestmentValuation{}, err
	}

	facts := engine.FactsOf(inv)
	now := s.clock.Now()

	valuation, err := engine.CurrentValue(facts, now)
	if err != nil {
		return InvestmentValuation{}, err
	}

	monthly, err := engine.MonthlyInterestAmount(facts)
	if err != nil {
		return InvestmentValuation{}, err
	}

	out := InvestmentValuation{
		InvestmentID:    inv.ID,
		Valuation:       valuation,
		Status:          inv.Status,
		MonthlyInterest: monthly,
		LockupEndDate:   inv.LockupEndDate,
		AsOf:            now.UTC(),
	}
	if next, ok := engine.NextEventDate(facts, now); ok {
		out.NextEventDate = &next
	}

	return out, nil
}

// DeleteInvestment removes a draft. Anything past draft is part of the audit
// trail and cannot be deleted.
func (s *InvestmentService) DeleteInvestment(investmentID string) error {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return err
	}
	if inv.Status != model.StatusDraft {
		return apperrors.ErrInvestmentNotDraft
	}
	return s.investmentRepo.DeleteInvestment(investmentID)
}

// GetInvestment retrieves a single investment by ID.
func (s *InvestmentService) GetInvestment(investmentID string) (model.Investment, error) {
	return s.investmentRepo.GetInvestmentOnID(investmentID)
}

// GetInvestments retrieves investments matching the filter.
func (s *InvestmentService) GetInvestments(filter model.InvestmentFilter) ([]model.Investment, error) {
	return s.investmentRepo.GetInvestments(filter)
}

// GetTransactions retrieves the ledger of one investment.
func (s *InvestmentService) GetTransactions(investmentID string) ([]model.Transaction, error) {
	if _, err := s.investmentRepo.GetInvestmentOnID(investmentID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsOnInvestmentID(investmentID)
}

// logActivity appends an audit event. Logging failures are swallowed: the
// audit trail must never roll back a completed business action.
func (s *InvestmentService) logActivity(inv model.Investment, eventType, description string) {
	_ = s.activityRepo.CreateEvent(model.ActivityEvent{
		ID:           uuid.New().String(),
		UserID:       inv.UserID,
		InvestmentID: inv.ID,
		Type:         eventType,
		Date:         s.clock.Now(),
		Description:  description,
	})
}
