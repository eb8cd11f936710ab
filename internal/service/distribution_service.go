package service

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/engine"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
)

// DistributionService owns the monthly accrual ledger: the regeneration
// sweep that appends missing distribution/contribution transactions, and the
// admin settlement actions on pending payouts.
type DistributionService struct {
	investmentRepo  *repository.InvestmentRepository
	transactionRepo *repository.TransactionRepository
	settingsRepo    *repository.SettingsRepository
	counterRepo     *repository.CounterRepository
	clock           clock.Clock
	concurrency     int
}

// NewDistributionService creates a new DistributionService with the provided repository dependencies.
// concurrency caps the sweep fan-out; values below 1 mean serial.
func NewDistributionService(
	investmentRepo *repository.InvestmentRepository,
	transactionRepo *repository.TransactionRepository,
	settingsRepo *repository.SettingsRepository,
	counterRepo *repository.CounterRepository,
	clk clock.Clock,
	concurrency int,
) *DistributionService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &DistributionService{
		investmentRepo:  investmentRepo,
		transactionRepo: transactionRepo,
		settingsRepo:    settingsRepo,
		counterRepo:     counterRepo,
		clock:           clk,
		concurrency:     concurrency,
	}
}

// SweepResult summarizes one regeneration run.
type SweepResult struct {
	InvestmentsProcessed int `json:"investmentsProcessed"`
	TransactionsCreated  int `json:"transactionsCreated"`
}

// RunSweep walks every accruing investment and appends the accrual ledger
// entries owed since the last run. Idempotent: the per-investment watermark
// is the highest month index already recorded, so re-running creates
// nothing until another month boundary passes. Investments are processed
// concurrently under the configured limit.
func (s *DistributionService) RunSweep(ctx context.Context) (SweepResult, error) {
	investments, err := s.investmentRepo.GetAccruingInvestments()
	if err != nil {
		return SweepResult{}, err
	}

	settings, err := s.settingsRepo.Get()
	if err != nil {
		return SweepResult{}, err
	}

	now := s.clock.Now()
	var created atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, inv := range investments {
		inv := inv
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := s.generateForInvestment(inv, settings.AutoApproveDistributions, now)
			if err != nil {
				return fmt.Errorf("sweep of %s: %w", inv.ID, err)
			}
			created.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{
		InvestmentsProcessed: len(investments),
		TransactionsCreated:  int(created.Load()),
	}
	log.Printf("Distribution sweep: %d investments, %d transactions created", result.InvestmentsProcessed, result.TransactionsCreated)
	return result, nil
}

// generateForInvestment appends the missing accrual entries for one
// investment and returns how many were created.
func (s *DistributionService) generateForInvestment(inv model.Investment, autoApprove bool, now time.Time) (int, error) {
	facts := engine.FactsOf(inv)

	eventType := model.TxDistribution
	if inv.PaymentFrequency == model.FrequencyCompounding {
		eventType = model.TxContribution
	}

	watermark, err := s.transactionRepo.MaxMonthIndex(inv.ID, eventType)
	if err != nil {
		return 0, err
	}

	events, err := engine.AccrualSchedule(facts, watermark, now)
	if err != nil {
		return 0, err
	}

	// Contributions settle immediately: the money never leaves the platform.
	// Distributions are real payouts and default to pending review unless
	// auto-approval is on.
	status := model.TxStatusReceived
	if eventType == model.TxDistribution && !autoApprove {
		status = model.TxStatusPending
	}

	for _, ev := range events {
		txID, err := s.counterRepo.NextID(repository.CounterTransaction)
		if err != nil {
			return 0, fmt.Errorf("failed to allocate transaction id: %w", err)
		}

		tx := model.Transaction{
			ID:           txID,
			UserID:       inv.UserID,
			InvestmentID: inv.ID,
			Type:         ev.Type,
			Amount:       ev.Amount,
			Date:         ev.Date,
			MonthIndex:   ev.MonthIndex,
			Status:       status,
			CreatedAt:    now.UTC(),
		}
		if err := s.transactionRepo.CreateTransaction(tx); err != nil {
			return 0, err
		}
	}

	return len(events), nil
}

// GetPendingPayouts retrieves the admin settlement queue: pending and failed
// distributions with investor context.
func (s *DistributionService) GetPendingPayouts() ([]model.PendingPayout, error) {
	return s.transactionRepo.GetPendingPayouts()
}

// CompletePayout marks a distribution as received.
func (s *DistributionService) CompletePayout(transactionID string) (model.Transaction, error) {
	tx, err := s.payoutTransaction(transactionID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx.Status = model.TxStatusReceived
	tx.FailureReason = ""
	if err := s.transactionRepo.UpdateTransactionStatus(tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// FailPayout marks a distribution as failed with a reason.
func (s *DistributionService) FailPayout(transactionID, reason string) (model.Transaction, error) {
	tx, err := s.payoutTransaction(transactionID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx.Status = model.TxStatusFailed
	tx.FailureReason = reason
	if err := s.transactionRepo.UpdateTransactionStatus(tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// RetryPayout moves a failed distribution back to pending and bumps the
// retry bookkeeping.
func (s *DistributionService) RetryPayout(transactionID string) (model.Transaction, error) {
	tx, err := s.payoutTransaction(transactionID)
	if err != nil {
		return model.Transaction{}, err
	}

	now := s.clock.Now().UTC()
	tx.Status = model.TxStatusPending
	tx.FailureReason = ""
	tx.RetryCount++
	tx.LastRetryAt = &now
	if err := s.transactionRepo.UpdateTransactionStatus(tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// payoutTransaction loads a transaction and verifies it is a distribution;
// funding, contribution and redemption entries are not manageable payouts.
func (s *DistributionService) payoutTransaction(transactionID string) (model.Transaction, error) {
	tx, err := s.transactionRepo.GetTransactionOnID(transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if tx.Type != model.TxDistribution {
		return model.Transaction{}, apperrors.ErrNotDistribution
	}
	return tx, nil
}
