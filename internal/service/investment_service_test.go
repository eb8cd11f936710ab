package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/testutil"
)

var (
	day0 = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
)

func createRequest(userID string) request.CreateInvestmentRequest {
	return request.CreateInvestmentRequest{
		UserID:           userID,
		Amount:           "10000",
		LockupPeriod:     string(model.LockupOneYear),
		PaymentFrequency: string(model.FrequencyCompounding),
		AccountType:      string(model.AccountIndividual),
		PaymentMethod:    string(model.PaymentACH),
	}
}

func TestInvestmentService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	user := testutil.NewUser().Build(t, db)

	t.Run("creates draft with sequential id", func(t *testing.T) {
		inv, err := svc.CreateInvestment(createRequest(user.ID))
		if err != nil {
			t.Fatalf("CreateInvestment failed: %v", err)
		}

		if inv.ID != "INV-10001" {
			t.Errorf("Expected INV-10001, got %s", inv.ID)
		}
		if inv.Status != model.StatusDraft {
			t.Errorf("Expected draft, got %s", inv.Status)
		}
		if inv.Bonds != 1000 {
			t.Errorf("Expected 1000 bonds, got %d", inv.Bonds)
		}
		if inv.RequiresManualApproval {
			t.Error("Standard investment must not require manual approval")
		}
	})

	t.Run("large amounts require manual approval", func(t *testing.T) {
		req := createRequest(user.ID)
		req.Amount = "150000"
		req.PaymentMethod = string(model.PaymentWire)

		inv, err := svc.CreateInvestment(req)
		if err != nil {
			t.Fatalf("CreateInvestment failed: %v", err)
		}
		if !inv.RequiresManualApproval {
			t.Error("Expected manual approval for amount above $100,000")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := svc.CreateInvestment(createRequest("USR-9999")); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("locked account type", func(t *testing.T) {
		locked := testutil.NewUser().WithAccountType(model.AccountIRA).Build(t, db)
		if _, err := svc.CreateInvestment(createRequest(locked.ID)); !errors.Is(err, apperrors.ErrAccountTypeLocked) {
			t.Errorf("Expected ErrAccountTypeLocked, got %v", err)
		}
	})
}

func TestInvestmentService_SubmitStampsAccountLock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	user := testutil.NewUser().Build(t, db)
	inv := testutil.NewInvestment(user.ID).WithAccountType(model.AccountJoint).Build(t, db)

	submitted, err := svc.SubmitInvestment(inv.ID)
	if err != nil {
		t.Fatalf("SubmitInvestment failed: %v", err)
	}

	if submitted.Status != model.StatusPending {
		t.Errorf("Expected pending, got %s", submitted.Status)
	}
	if submitted.SubmittedAt == nil || !submitted.SubmittedAt.Equal(day0) {
		t.Errorf("Expected submittedAt %v, got %v", day0, submitted.SubmittedAt)
	}

	lockedUser, err := repository.NewUserRepository(db).GetUserOnID(user.ID)
	if err != nil {
		t.Fatalf("GetUserOnID failed: %v", err)
	}
	if lockedUser.AccountType != model.AccountJoint {
		t.Errorf("Expected account lock joint, got %s", lockedUser.AccountType)
	}

	// A second submit is rejected: no longer a draft.
	if _, err := svc.SubmitInvestment(inv.ID); err == nil {
		t.Error("Expected error submitting a pending investment")
	}
}

func TestInvestmentService_ApproveCreatesFundingTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	user := testutil.NewUser().Build(t, db)
	inv := testutil.NewInvestment(user.ID).Pending(day0).Build(t, db)

	approved, err := svc.ApproveInvestment(inv.ID)
	if err != nil {
		t.Fatalf("ApproveInvestment failed: %v", err)
	}

	if approved.Status != model.StatusActive {
		t.Errorf("Expected active, got %s", approved.Status)
	}
	if approved.ConfirmedAt == nil || !approved.ConfirmedAt.Equal(day0) {
		t.Errorf("Expected confirmedAt %v, got %v", day0, approved.ConfirmedAt)
	}
	if approved.LockupEndDate == nil || !approved.LockupEndDate.Equal(day0.AddDate(1, 0, 0)) {
		t.Errorf("Expected lockup end %v, got %v", day0.AddDate(1, 0, 0), approved.LockupEndDate)
	}

	ledger, err := repository.NewTransactionRepository(db).GetTransactionsOnInvestmentID(inv.ID)
	if err != nil {
		t.Fatalf("GetTransactionsOnInvestmentID failed: %v", err)
	}
	if len(ledger) != 1 {
		t.Fatalf("Expected 1 funding transaction, got %d", len(ledger))
	}
	if ledger[0].Type != model.TxInvestment {
		t.Errorf("Expected investment transaction, got %s", ledger[0].Type)
	}
	if ledger[0].Status != model.TxStatusReceived {
		t.Errorf("Expected received funding, got %s", ledger[0].Status)
	}
	if !ledger[0].Amount.Equal(inv.Amount) {
		t.Errorf("Expected funding amount %s, got %s", inv.Amount, ledger[0].Amount)
	}
}

func TestInvestmentService_RejectIsTerminal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	user := testutil.NewUser().Build(t, db)
	inv := testutil.NewInvestment(user.ID).Pending(day0).Build(t, db)

	rejected, err := svc.RejectInvestment(inv.ID)
	if err != nil {
		t.Fatalf("RejectInvestment failed: %v", err)
	}
	if rejected.Status != model.StatusRejected {
		t.Errorf("Expected rejected, got %s", rejected.Status)
	}

	// No funds collected, no ledger entries.
	ledger, err := repository.NewTransactionRepository(db).GetTransactionsOnInvestmentID(inv.ID)
	if err != nil {
		t.Fatalf("GetTransactionsOnInvestmentID failed: %v", err)
	}
	if len(ledger) != 0 {
		t.Errorf("Expected empty ledger, got %d entries", len(ledger))
	}

	if _, err := svc.ApproveInvestment(inv.ID); !errors.Is(err, apperrors.ErrInvalidStatusTransition) {
		t.Errorf("Expected ErrInvalidStatusTransition approving rejected, got %v", err)
	}
}

func TestInvestmentService_Terminate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	inv := testutil.CreateActiveInvestment(t, db, day0)

	t.Run("during lockup without override", func(t *testing.T) {
		svc := testutil.NewTestInvestmentService(t, db, day0.AddDate(0, 6, 0))

		_, _, err := svc.TerminateInvestment(inv.ID, false, "admin@clearharbor.com")
		if !errors.Is(err, apperrors.ErrLockupOverrideRequired) {
			t.Fatalf("Expected ErrLockupOverrideRequired, got %v", err)
		}

		var lerr *apperrors.LockupError
		if !errors.As(err, &lerr) {
			t.Fatal("Expected LockupError with lockup end date")
		}

		// Nothing changed.
		got, err := repository.NewInvestmentRepository(db).GetInvestmentOnID(inv.ID)
		if err != nil {
			t.Fatalf("GetInvestmentOnID failed: %v", err)
		}
		if got.Status != model.StatusActive {
			t.Errorf("Expected still active, got %s", got.Status)
		}
	})

	t.Run("during lockup with override", func(t *testing.T) {
		svc := testutil.NewTestInvestmentService(t, db, day0.AddDate(0, 6, 0))

		terminated, result, err := svc.TerminateInvestment(inv.ID, true, "admin@clearharbor.com")
		if err != nil {
			t.Fatalf("TerminateInvestment failed: %v", err)
		}

		if terminated.Status != model.StatusWithdrawn {
			t.Errorf("Expected withdrawn, got %s", terminated.Status)
		}
		if result.FinalValue.StringFixed(2) != "10406.73" {
			t.Errorf("Expected final value 10406.73, got %s", result.FinalValue.StringFixed(2))
		}

		// Synthetic withdrawal record marks the admin path.
		withdrawals, err := repository.NewWithdrawalRepository(db).GetWithdrawalsOnInvestmentID(inv.ID)
		if err != nil {
			t.Fatalf("GetWithdrawalsOnInvestmentID failed: %v", err)
		}
		if len(withdrawals) != 1 {
			t.Fatalf("Expected 1 withdrawal record, got %d", len(withdrawals))
		}
		if withdrawals[0].TerminationType != model.TerminationAdminImmediate {
			t.Errorf("Expected admin_immediate, got %s", withdrawals[0].TerminationType)
		}
		if !withdrawals[0].OverrideLockup {
			t.Error("Expected overrideLockup recorded")
		}

		// Redemption for the full final value.
		ledger, err := repository.NewTransactionRepository(db).GetTransactionsOnInvestmentID(inv.ID)
		if err != nil {
			t.Fatalf("GetTransactionsOnInvestmentID failed: %v", err)
		}
		var redemptions int
		for _, tx := range ledger {
			if tx.Type == model.TxRedemption {
				redemptions++
				if tx.Amount.StringFixed(2) != "10406.73" {
					t.Errorf("Expected redemption 10406.73, got %s", tx.Amount.StringFixed(2))
				}
			}
		}
		if redemptions != 1 {
			t.Errorf("Expected 1 redemption, got %d", redemptions)
		}
	})
}

func TestInvestmentService_UpdateAtomicity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	user := testutil.NewUser().Build(t, db)
	inv := testutil.NewInvestment(user.ID).Build(t, db)

	amount := "20000"
	badFrequency := string(model.FrequencyMonthly)
	ira := string(model.AccountIRA)

	_, err := svc.UpdateInvestment(inv.ID, request.UpdateInvestmentRequest{
		Amount:           &amount,
		AccountType:      &ira,
		PaymentFrequency: &badFrequency,
	})
	if !errors.Is(err, apperrors.ErrIncompatiblePaymentFrequency) {
		t.Fatalf("Expected ErrIncompatiblePaymentFrequency, got %v", err)
	}

	// The valid amount change must not have been applied.
	got, err := svc.GetInvestment(inv.ID)
	if err != nil {
		t.Fatalf("GetInvestment failed: %v", err)
	}
	if !got.Amount.Equal(inv.Amount) {
		t.Errorf("Expected amount unchanged at %s, got %s", inv.Amount, got.Amount)
	}
}

func TestInvestmentService_DeleteDraftOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db, day0)
	user := testutil.NewUser().Build(t, db)

	draft := testutil.NewInvestment(user.ID).Build(t, db)
	if err := svc.DeleteInvestment(draft.ID); err != nil {
		t.Fatalf("DeleteInvestment failed: %v", err)
	}
	if _, err := svc.GetInvestment(draft.ID); !errors.Is(err, apperrors.ErrInvestmentNotFound) {
		t.Errorf("Expected draft gone, got %v", err)
	}

	active := testutil.NewInvestment(user.ID).Active(day0).Build(t, db)
	if err := svc.DeleteInvestment(active.ID); !errors.Is(err, apperrors.ErrInvestmentNotDraft) {
		t.Errorf("Expected ErrInvestmentNotDraft, got %v", err)
	}
}

func TestInvestmentService_GetValuation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	inv := testutil.CreateActiveInvestment(t, db, day0)
	svc := testutil.NewTestInvestmentService(t, db, day0.AddDate(0, 6, 0))

	valuation, err := svc.GetValuation(inv.ID)
	if err != nil {
		t.Fatalf("GetValuation failed: %v", err)
	}

	if valuation.MonthsElapsed != 6 {
		t.Errorf("Expected 6 months, got %d", valuation.MonthsElapsed)
	}
	if valuation.CurrentValue.StringFixed(2) != "10406.73" {
		t.Errorf("Expected 10406.73, got %s", valuation.CurrentValue.StringFixed(2))
	}
	if valuation.IsWithdrawable {
		t.Error("Expected not withdrawable during lockup")
	}
	if valuation.NextEventDate == nil || !valuation.NextEventDate.Equal(day0.AddDate(0, 7, 0)) {
		t.Errorf("Expected next event %v, got %v", day0.AddDate(0, 7, 0), valuation.NextEventDate)
	}
}
