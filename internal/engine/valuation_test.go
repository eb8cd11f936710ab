package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearharbor/bond-platform-backend/internal/model"
)

func activeFacts(amount int64, period model.LockupPeriod, frequency model.PaymentFrequency, confirmed time.Time) Facts {
	years, _ := LockupYears(period)
	return Facts{
		Amount:           decimal.NewFromInt(amount),
		Status:           model.StatusActive,
		PaymentFrequency: frequency,
		LockupPeriod:     period,
		StartDate:        confirmed,
		LockupEndDate:    confirmed.AddDate(years, 0, 0),
	}
}

func TestCurrentValue_Compounding(t *testing.T) {
	confirmed := date(2024, time.January, 15)
	f := activeFacts(10000, model.LockupOneYear, model.FrequencyCompounding, confirmed)

	v, err := CurrentValue(f, date(2024, time.July, 15))
	require.NoError(t, err)

	assert.Equal(t, 6, v.MonthsElapsed)
	assert.Equal(t, "10000.00", v.Principal.StringFixed(2))
	assert.Equal(t, "406.73", v.TotalEarnings.StringFixed(2))
	assert.Equal(t, "10406.73", v.CurrentValue.StringFixed(2))
	assert.False(t, v.IsWithdrawable)
}

func TestCurrentValue_MonthlyPayout(t *testing.T) {
	confirmed := date(2024, time.January, 15)
	f := activeFacts(10000, model.LockupOneYear, model.FrequencyMonthly, confirmed)

	v, err := CurrentValue(f, date(2024, time.July, 15))
	require.NoError(t, err)

	assert.Equal(t, 6, v.MonthsElapsed)
	assert.Equal(t, "400.00", v.TotalEarnings.StringFixed(2))
	// Distributions leave the investment; the value stays at the principal.
	assert.Equal(t, "10000.00", v.CurrentValue.StringFixed(2))
}

func TestCurrentValue_ThreeYearRate(t *testing.T) {
	confirmed := date(2024, time.January, 15)
	f := activeFacts(10000, model.LockupThreeYear, model.FrequencyCompounding, confirmed)

	v, err := CurrentValue(f, date(2024, time.April, 15))
	require.NoError(t, err)

	assert.Equal(t, 3, v.MonthsElapsed)
	assert.Equal(t, "252.09", v.TotalEarnings.StringFixed(2))
	assert.Equal(t, "10252.09", v.CurrentValue.StringFixed(2))
}

func TestCurrentValue_NonAccruingStatuses(t *testing.T) {
	confirmed := date(2024, time.January, 15)
	for _, status := range []model.InvestmentStatus{
		model.StatusDraft,
		model.StatusPending,
		model.StatusRejected,
		model.StatusWithdrawn,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := activeFacts(10000, model.LockupOneYear, model.FrequencyCompounding, confirmed)
			f.Status = status

			v, err := CurrentValue(f, date(2025, time.July, 15))
			require.NoError(t, err)
			assert.True(t, v.TotalEarnings.IsZero())
			assert.Equal(t, "10000.00", v.CurrentValue.StringFixed(2))
			assert.Equal(t, 0, v.MonthsElapsed)
		})
	}
}

func TestCurrentValue_WithdrawalNoticeKeepsAccruing(t *testing.T) {
	confirmed := date(2024, time.January, 15)
	f := activeFacts(10000, model.LockupOneYear, model.FrequencyCompounding, confirmed)
	f.Status = model.StatusWithdrawalNotice

	v, err := CurrentValue(f, date(2024, time.July, 15))
	require.NoError(t, err)
	assert.Equal(t, "406.73", v.TotalEarnings.StringFixed(2))
}

func TestCurrentValue_Deterministic(t *testing.T) {
	confirmed := date(2024, time.March, 31)
	f := activeFacts(250000, model.LockupThreeYear, model.FrequencyCompounding, confirmed)
	now := date(2025, time.February, 28)

	first, err := CurrentValue(f, now)
	require.NoError(t, err)
	second, err := CurrentValue(f, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCurrentValue_Withdrawable(t *testing.T) {
	confirmed := date(2024, time.January, 15)
	f := activeFacts(10000, model.LockupOneYear, model.FrequencyCompounding, confirmed)

	v, err := CurrentValue(f, date(2025, time.January, 14))
	require.NoError(t, err)
	assert.False(t, v.IsWithdrawable)

	v, err = CurrentValue(f, date(2025, time.January, 15))
	require.NoError(t, err)
	assert.True(t, v.IsWithdrawable)
}

func TestFactsOf_DerivesLockupEnd(t *testing.T) {
	confirmed := date(2024, time.February, 1)
	inv := model.Investment{
		Amount:           decimal.NewFromInt(50000),
		Status:           model.StatusActive,
		PaymentFrequency: model.FrequencyCompounding,
		LockupPeriod:     model.LockupThreeYear,
		CreatedAt:        date(2024, time.January, 20),
		ConfirmedAt:      &confirmed,
	}

	f := FactsOf(inv)
	assert.Equal(t, confirmed, f.StartDate)
	assert.Equal(t, date(2027, time.February, 1), f.LockupEndDate)
}

func TestFactsOf_UnconfirmedFallsBackToCreatedAt(t *testing.T) {
	inv := model.Investment{
		Amount:       decimal.NewFromInt(50000),
		Status:       model.StatusDraft,
		LockupPeriod: model.LockupOneYear,
		CreatedAt:    date(2024, time.January, 20),
	}

	f := FactsOf(inv)
	assert.Equal(t, inv.CreatedAt, f.StartDate)
	assert.True(t, f.LockupEndDate.IsZero())
}

func TestMonthlyInterestAmount(t *testing.T) {
	f := activeFacts(10000, model.LockupOneYear, model.FrequencyMonthly, date(2024, time.January, 15))
	amount, err := MonthlyInterestAmount(f)
	require.NoError(t, err)
	assert.Equal(t, "66.67", amount.StringFixed(2))

	f.PaymentFrequency = model.FrequencyCompounding
	amount, err = MonthlyInterestAmount(f)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}
