package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/testutil"
)

func TestCounterRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCounterRepository(db)

	t.Run("sequential ids with seeded starting values", func(t *testing.T) {
		cases := []struct {
			counter string
			first   string
			second  string
		}{
			{repository.CounterUser, "USR-1001", "USR-1002"},
			{repository.CounterInvestment, "INV-10001", "INV-10002"},
			{repository.CounterTransaction, "TXN-100001", "TXN-100002"},
			{repository.CounterWithdrawal, "WD-10001", "WD-10002"},
		}

		for _, tc := range cases {
			first, err := repo.NextID(tc.counter)
			if err != nil {
				t.Fatalf("NextID(%s) failed: %v", tc.counter, err)
			}
			if first != tc.first {
				t.Errorf("Expected first %s id %s, got %s", tc.counter, tc.first, first)
			}

			second, err := repo.NextID(tc.counter)
			if err != nil {
				t.Fatalf("NextID(%s) failed: %v", tc.counter, err)
			}
			if second != tc.second {
				t.Errorf("Expected second %s id %s, got %s", tc.counter, tc.second, second)
			}
		}
	})

	t.Run("unknown counter", func(t *testing.T) {
		if _, err := repo.NextID("document"); err == nil {
			t.Error("Expected error for unknown counter")
		}
	})
}

func TestInvestmentRepository_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvestmentRepository(db)

	user := testutil.NewUser().Build(t, db)
	confirmed := time.Date(2024, time.March, 31, 12, 30, 0, 0, time.UTC)
	created := testutil.NewInvestment(user.ID).
		WithAmount(250010).
		WithLockupPeriod(model.LockupThreeYear).
		Active(confirmed).
		Build(t, db)

	got, err := repo.GetInvestmentOnID(created.ID)
	if err != nil {
		t.Fatalf("GetInvestmentOnID failed: %v", err)
	}

	if !got.Amount.Equal(decimal.NewFromInt(250010)) {
		t.Errorf("Expected amount 250010, got %s", got.Amount)
	}
	if got.Bonds != 25001 {
		t.Errorf("Expected 25001 bonds, got %d", got.Bonds)
	}
	if got.Status != model.StatusActive {
		t.Errorf("Expected active status, got %s", got.Status)
	}
	if got.ConfirmedAt == nil || !got.ConfirmedAt.Equal(confirmed) {
		t.Errorf("Expected confirmedAt %v, got %v", confirmed, got.ConfirmedAt)
	}
	if got.LockupEndDate == nil || !got.LockupEndDate.Equal(confirmed.AddDate(3, 0, 0)) {
		t.Errorf("Expected lockupEndDate %v, got %v", confirmed.AddDate(3, 0, 0), got.LockupEndDate)
	}
}

func TestInvestmentRepository_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvestmentRepository(db)

	if _, err := repo.GetInvestmentOnID("INV-99999"); !errors.Is(err, apperrors.ErrInvestmentNotFound) {
		t.Errorf("Expected ErrInvestmentNotFound, got %v", err)
	}
	if err := repo.DeleteInvestment("INV-99999"); !errors.Is(err, apperrors.ErrInvestmentNotFound) {
		t.Errorf("Expected ErrInvestmentNotFound on delete, got %v", err)
	}
}

func TestInvestmentRepository_UpdateStatusGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvestmentRepository(db)

	user := testutil.NewUser().Build(t, db)
	inv := testutil.NewInvestment(user.ID).Build(t, db)

	t.Run("write lands when status matches", func(t *testing.T) {
		submittedAt := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
		inv.Status = model.StatusPending
		inv.SubmittedAt = &submittedAt
		inv.UpdatedAt = submittedAt
		if err := repo.UpdateInvestment(inv, model.StatusDraft); err != nil {
			t.Fatalf("UpdateInvestment failed: %v", err)
		}

		got, err := repo.GetInvestmentOnID(inv.ID)
		if err != nil {
			t.Fatalf("GetInvestmentOnID failed: %v", err)
		}
		if got.Status != model.StatusPending {
			t.Errorf("Expected pending, got %s", got.Status)
		}
	})

	t.Run("stale status is a conflict", func(t *testing.T) {
		stale := inv
		stale.Status = model.StatusActive
		if err := repo.UpdateInvestment(stale, model.StatusDraft); !errors.Is(err, apperrors.ErrInvestmentModified) {
			t.Fatalf("Expected ErrInvestmentModified, got %v", err)
		}

		got, err := repo.GetInvestmentOnID(inv.ID)
		if err != nil {
			t.Fatalf("GetInvestmentOnID failed: %v", err)
		}
		if got.Status != model.StatusPending {
			t.Errorf("Expected row untouched at pending, got %s", got.Status)
		}
	})

	t.Run("missing row is not found", func(t *testing.T) {
		missing := inv
		missing.ID = "INV-99999"
		if err := repo.UpdateInvestment(missing, model.StatusPending); !errors.Is(err, apperrors.ErrInvestmentNotFound) {
			t.Errorf("Expected ErrInvestmentNotFound, got %v", err)
		}
	})
}

func TestInvestmentRepository_Filter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvestmentRepository(db)

	alice := testutil.NewUser().Build(t, db)
	bob := testutil.NewUser().Build(t, db)
	confirmed := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	testutil.NewInvestment(alice.ID).Build(t, db)
	testutil.NewInvestment(alice.ID).Active(confirmed).Build(t, db)
	testutil.NewInvestment(bob.ID).Active(confirmed).Build(t, db)

	all, err := repo.GetInvestments(model.InvestmentFilter{})
	if err != nil {
		t.Fatalf("GetInvestments failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 investments, got %d", len(all))
	}

	aliceOnly, err := repo.GetInvestments(model.InvestmentFilter{UserID: alice.ID})
	if err != nil {
		t.Fatalf("GetInvestments failed: %v", err)
	}
	if len(aliceOnly) != 2 {
		t.Errorf("Expected 2 investments for %s, got %d", alice.ID, len(aliceOnly))
	}

	activeOnly, err := repo.GetInvestments(model.InvestmentFilter{Status: model.StatusActive})
	if err != nil {
		t.Fatalf("GetInvestments failed: %v", err)
	}
	if len(activeOnly) != 2 {
		t.Errorf("Expected 2 active investments, got %d", len(activeOnly))
	}

	accruing, err := repo.GetAccruingInvestments()
	if err != nil {
		t.Fatalf("GetAccruingInvestments failed: %v", err)
	}
	if len(accruing) != 2 {
		t.Errorf("Expected 2 accruing investments, got %d", len(accruing))
	}
}

func TestTransactionRepository_MaxMonthIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)

	confirmed := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	inv := testutil.CreateActiveInvestment(t, db, confirmed)

	max, err := repo.MaxMonthIndex(inv.ID, model.TxContribution)
	if err != nil {
		t.Fatalf("MaxMonthIndex failed: %v", err)
	}
	if max != 0 {
		t.Errorf("Expected watermark 0 for empty ledger, got %d", max)
	}

	counterRepo := repository.NewCounterRepository(db)
	for i := 1; i <= 3; i++ {
		id, err := counterRepo.NextID(repository.CounterTransaction)
		if err != nil {
			t.Fatalf("NextID failed: %v", err)
		}
		tx := model.Transaction{
			ID:           id,
			UserID:       inv.UserID,
			InvestmentID: inv.ID,
			Type:         model.TxContribution,
			Amount:       decimal.NewFromFloat(66.67),
			Date:         confirmed.AddDate(0, i, 0),
			MonthIndex:   i,
			Status:       model.TxStatusReceived,
			CreatedAt:    confirmed,
		}
		if err := repo.CreateTransaction(tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	max, err = repo.MaxMonthIndex(inv.ID, model.TxContribution)
	if err != nil {
		t.Fatalf("MaxMonthIndex failed: %v", err)
	}
	if max != 3 {
		t.Errorf("Expected watermark 3, got %d", max)
	}

	// Other types keep their own watermark.
	max, err = repo.MaxMonthIndex(inv.ID, model.TxDistribution)
	if err != nil {
		t.Fatalf("MaxMonthIndex failed: %v", err)
	}
	if max != 0 {
		t.Errorf("Expected distribution watermark 0, got %d", max)
	}
}

func TestTransactionRepository_PendingPayouts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	confirmed := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	user := testutil.NewUser().WithEmail("payout@example.com").Build(t, db)
	inv := testutil.NewInvestment(user.ID).
		WithPaymentFrequency(model.FrequencyMonthly).
		Active(confirmed).
		Build(t, db)

	statuses := []model.TransactionStatus{
		model.TxStatusPending,
		model.TxStatusFailed,
		model.TxStatusReceived,
	}
	for i, status := range statuses {
		id, err := counterRepo.NextID(repository.CounterTransaction)
		if err != nil {
			t.Fatalf("NextID failed: %v", err)
		}
		tx := model.Transaction{
			ID:           id,
			UserID:       user.ID,
			InvestmentID: inv.ID,
			Type:         model.TxDistribution,
			Amount:       decimal.NewFromFloat(66.67),
			Date:         confirmed.AddDate(0, i+1, 0),
			MonthIndex:   i + 1,
			Status:       status,
			CreatedAt:    confirmed,
		}
		if err := repo.CreateTransaction(tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	payouts, err := repo.GetPendingPayouts()
	if err != nil {
		t.Fatalf("GetPendingPayouts failed: %v", err)
	}

	// Pending and failed rows appear; received ones do not.
	if len(payouts) != 2 {
		t.Fatalf("Expected 2 pending payouts, got %d", len(payouts))
	}
	if payouts[0].UserEmail != "payout@example.com" {
		t.Errorf("Expected user email in payout row, got %s", payouts[0].UserEmail)
	}
	if payouts[0].UserName != "Test Investor" {
		t.Errorf("Expected joined user name, got %s", payouts[0].UserName)
	}
	if payouts[0].MonthIndex != 1 || payouts[1].MonthIndex != 2 {
		t.Errorf("Expected oldest-first ordering, got months %d, %d", payouts[0].MonthIndex, payouts[1].MonthIndex)
	}
}

func TestSettingsRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSettingsRepository(db)

	t.Run("defaults", func(t *testing.T) {
		settings, err := repo.Get()
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if settings.OverrideTime != nil {
			t.Errorf("Expected no override, got %v", settings.OverrideTime)
		}
		if settings.AutoApproveDistributions {
			t.Error("Expected auto-approve off by default")
		}
	})

	t.Run("set and clear override", func(t *testing.T) {
		override := time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC)
		if err := repo.SetOverrideTime(&override); err != nil {
			t.Fatalf("SetOverrideTime failed: %v", err)
		}

		got, err := repo.OverrideTime()
		if err != nil {
			t.Fatalf("OverrideTime failed: %v", err)
		}
		if got == nil || !got.Equal(override) {
			t.Errorf("Expected override %v, got %v", override, got)
		}

		if err := repo.SetOverrideTime(nil); err != nil {
			t.Fatalf("SetOverrideTime(nil) failed: %v", err)
		}
		got, err = repo.OverrideTime()
		if err != nil {
			t.Fatalf("OverrideTime failed: %v", err)
		}
		if got != nil {
			t.Errorf("Expected cleared override, got %v", got)
		}
	})

	t.Run("auto approve toggle", func(t *testing.T) {
		if err := repo.SetAutoApproveDistributions(true); err != nil {
			t.Fatalf("SetAutoApproveDistributions failed: %v", err)
		}
		settings, err := repo.Get()
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !settings.AutoApproveDistributions {
			t.Error("Expected auto-approve on")
		}
	})
}

func TestUserRepository_AccountTypeLock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)

	user := testutil.NewUser().Build(t, db)
	if user.AccountType != "" {
		t.Fatalf("Expected unlocked account type, got %s", user.AccountType)
	}

	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	if err := repo.SetAccountType(user.ID, model.AccountJoint, now); err != nil {
		t.Fatalf("SetAccountType failed: %v", err)
	}

	got, err := repo.GetUserOnID(user.ID)
	if err != nil {
		t.Fatalf("GetUserOnID failed: %v", err)
	}
	if got.AccountType != model.AccountJoint {
		t.Errorf("Expected joint lock, got %s", got.AccountType)
	}

	if err := repo.SetAccountType("USR-9999", model.AccountJoint, now); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
