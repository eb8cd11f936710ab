package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/engine"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
)

// WithdrawalService handles the investor-initiated redemption path: request
// on an unlocked active investment, then admin completion. The admin
// terminate shortcut lives in InvestmentService.
type WithdrawalService struct {
	withdrawalRepo  *repository.WithdrawalRepository
	investmentRepo  *repository.InvestmentRepository
	transactionRepo *repository.TransactionRepository
	activityRepo    *repository.ActivityRepository
	counterRepo     *repository.CounterRepository
	clock           clock.Clock
}

// NewWithdrawalService creates a new WithdrawalService with the provided repository dependencies.
func NewWithdrawalService(
	withdrawalRepo *repository.WithdrawalRepository,
	investmentRepo *repository.InvestmentRepository,
	transactionRepo *repository.TransactionRepository,
	activityRepo *repository.ActivityRepository,
	counterRepo *repository.CounterRepository,
	clk clock.Clock,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo:  withdrawalRepo,
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		activityRepo:    activityRepo,
		counterRepo:     counterRepo,
		clock:           clk,
	}
}

// RequestWithdrawal starts the redemption process for an active investment
// whose lockup has expired. The investment moves to withdrawal_notice and
// keeps accruing until the admin completes the payout. Requests during an
// unexpired lockup fail with the lockup end date.
func (s *WithdrawalService) RequestWithdrawal(investmentID string) (model.Withdrawal, error) {
	inv, err := s.investmentRepo.GetInvestmentOnID(investmentID)
	if err != nil {
		return model.Withdrawal{}, err
	}

	// Only active investments can enter the notice period; a repeat request
	// on withdrawal_notice would queue a second pending withdrawal.
	if err := engine.RequireTransition(inv.Status, model.StatusWithdrawalNotice); err != nil {
		return model.Withdrawal{}, err
	}

	facts := engine.FactsOf(inv)
	now := s.clock.Now()

	if facts.LockupEndDate.IsZero() || now.UTC().Before(facts.LockupEndDate) {
		return model.Withdrawal{}, &apperrors.LockupError{
			Err:           apperrors.ErrLockupNotEnded,
			LockupEndDate: facts.LockupEndDate.Format(time.RFC3339),
		}
	}

	valuation, err := engine.CurrentValue(facts, now)
	if err != nil {
		return model.Withdrawal{}, err
	}

	inv.Status = model.StatusWithdrawalNotice
	inv.UpdatedAt = now.UTC()
	if err := s.investmentRepo.UpdateInvestment(inv, model.StatusActive); err != nil {
		return model.Withdrawal{}, err
	}

	wdID, err := s.counterRepo.NextID(repository.CounterWithdrawal)
	if err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to allocate withdrawal id: %w", err)
	}

	now = now.UTC()
	withdrawal := model.Withdrawal{
		ID:              wdID,
		UserID:          inv.UserID,
		InvestmentID:    inv.ID,
		Status:          model.WithdrawalPending,
		RequestedAmount: valuation.CurrentValue,
		RequestedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.withdrawalRepo.CreateWithdrawal(withdrawal); err != nil {
		return model.Withdrawal{}, err
	}

	s.logActivity(inv, model.ActivityWithdrawalRequested,
		fmt.Sprintf("Withdrawal %s requested for investment %s", wdID, inv.ID))

	return withdrawal, nil
}

// CompleteWithdrawal settles a pending withdrawal: the investment moves to
// withdrawn and the redemption transaction is written. The payout is
// recomputed at completion time, since the investment kept accruing through
// the notice period.
func (s *WithdrawalService) CompleteWithdrawal(withdrawalID, processedBy string) (model.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetWithdrawalOnID(withdrawalID)
	if err != nil {
		return model.Withdrawal{}, err
	}
	if withdrawal.Status != model.WithdrawalPending {
		return model.Withdrawal{}, apperrors.ErrWithdrawalNotFound
	}

	inv, err := s.investmentRepo.GetInvestmentOnID(withdrawal.InvestmentID)
	if err != nil {
		return model.Withdrawal{}, err
	}

	// The investment must still be in its notice period. If an admin already
	// terminated it the stale pending withdrawal must not pay out again.
	if err := engine.RequireTransition(inv.Status, model.StatusWithdrawn); err != nil {
		return model.Withdrawal{}, err
	}

	now := s.clock.Now().UTC()

	valuation, err := engine.CurrentValue(engine.FactsOf(inv), now)
	if err != nil {
		return model.Withdrawal{}, err
	}

	inv.Status = model.StatusWithdrawn
	inv.WithdrawnAt = &now
	inv.UpdatedAt = now
	if err := s.investmentRepo.UpdateInvestment(inv, model.StatusWithdrawalNotice); err != nil {
		return model.Withdrawal{}, err
	}

	txID, err := s.counterRepo.NextID(repository.CounterTransaction)
	if err != nil {
		return model.Withdrawal{}, fmt.Errorf("failed to allocate transaction id: %w", err)
	}
	redemption := model.Transaction{
		ID:           txID,
		UserID:       inv.UserID,
		InvestmentID: inv.ID,
		Type:         model.TxRedemption,
		Amount:       valuation.CurrentValue,
		Date:         now,
		Status:       model.TxStatusReceived,
		CreatedAt:    now,
	}
	if err := s.transactionRepo.CreateTransaction(redemption); err != nil {
		return model.Withdrawal{}, err
	}

	withdrawal.Status = model.WithdrawalApproved
	withdrawal.ProcessedAt = &now
	withdrawal.ProcessedBy = processedBy
	withdrawal.UpdatedAt = now
	if err := s.withdrawalRepo.UpdateWithdrawal(withdrawal); err != nil {
		return model.Withdrawal{}, err
	}

	s.logActivity(inv, model.ActivityWithdrawalCompleted,
		fmt.Sprintf("Withdrawal %s completed for $%s", withdrawal.ID, valuation.CurrentValue.StringFixed(2)))

	return withdrawal, nil
}

// GetWithdrawal retrieves a withdrawal by ID.
func (s *WithdrawalService) GetWithdrawal(withdrawalID string) (model.Withdrawal, error) {
	return s.withdrawalRepo.GetWithdrawalOnID(withdrawalID)
}

// GetPendingWithdrawals retrieves the admin queue, oldest first.
func (s *WithdrawalService) GetPendingWithdrawals() ([]model.Withdrawal, error) {
	return s.withdrawalRepo.GetPendingWithdrawals()
}

// GetWithdrawalsOnInvestment retrieves the withdrawal history of one investment.
func (s *WithdrawalService) GetWithdrawalsOnInvestment(investmentID string) ([]model.Withdrawal, error) {
	return s.withdrawalRepo.GetWithdrawalsOnInvestmentID(investmentID)
}

func (s *WithdrawalService) logActivity(inv model.Investment, eventType, description string) {
	_ = s.activityRepo.CreateEvent(model.ActivityEvent{
		ID:           uuid.New().String(),
		UserID:       inv.UserID,
		InvestmentID: inv.ID,
		Type:         eventType,
		Date:         s.clock.Now(),
		Description:  description,
	})
}
