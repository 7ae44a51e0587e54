package signals

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andychuong/spendsense/internal/model"
)

func testAsOf() time.Time {
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
}

func monthlyCharges(accountID, merchant string, amount float64, months int, asOf time.Time) []model.Transaction {
	txns := make([]model.Transaction, 0, months)
	for i := 0; i < months; i++ {
		txns = append(txns, model.Transaction{
			ID:           fmt.Sprintf("%s-%s-%d", accountID, merchant, i),
			AccountID:    accountID,
			Date:         asOf.AddDate(0, 0, -3-i*30),
			Name:         merchant,
			MerchantName: merchant,
			Amount:       -amount,
		})
	}
	return txns
}

func TestExtractor_RecurringMerchantDetection(t *testing.T) {
	asOf := testAsOf()
	checking := []model.Account{
		{ID: "acc1", UserID: "u1", Type: model.AccountChecking, Balance: 1000, IsActive: true},
	}

	tests := []struct {
		name          string
		transactions  []model.Transaction
		wantCount     int
		wantSpendNil  bool
		wantSpendNear float64
	}{
		{
			name:          "monthly charges across six months qualify",
			transactions:  monthlyCharges("acc1", "StreamFlix", 15.99, 6, asOf),
			wantCount:     1,
			wantSpendNear: 15.99,
		},
		{
			name: "single charge does not qualify",
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "acc1", Date: asOf.AddDate(0, 0, -10), MerchantName: "StreamFlix", Amount: -15.99},
			},
			wantCount:    0,
			wantSpendNil: true,
		},
		{
			name: "two charges a week apart do not qualify",
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "acc1", Date: asOf.AddDate(0, 0, -20), MerchantName: "StreamFlix", Amount: -15.99},
				{ID: "t2", AccountID: "acc1", Date: asOf.AddDate(0, 0, -13), MerchantName: "StreamFlix", Amount: -15.99},
			},
			wantCount:    0,
			wantSpendNil: true,
		},
		{
			name: "same merchant at very different amounts splits into groups",
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "acc1", Date: asOf.AddDate(0, 0, -70), MerchantName: "MegaMart", Amount: -9.99},
				{ID: "t2", AccountID: "acc1", Date: asOf.AddDate(0, 0, -40), MerchantName: "MegaMart", Amount: -9.99},
				{ID: "t3", AccountID: "acc1", Date: asOf.AddDate(0, 0, -35), MerchantName: "MegaMart", Amount: -240.00},
			},
			wantCount:     1,
			wantSpendNear: 9.99,
		},
		{
			name: "amounts inside the tolerance band stay in one group",
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "acc1", Date: asOf.AddDate(0, 0, -65), MerchantName: "PowerCo", Amount: -81.50},
				{ID: "t2", AccountID: "acc1", Date: asOf.AddDate(0, 0, -34), MerchantName: "PowerCo", Amount: -80.00},
			},
			wantCount:     1,
			wantSpendNear: 80.75,
		},
	}

	extractor := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, long := extractor.Extract(checking, tt.transactions, asOf)

			assert.Equal(t, tt.wantCount, long.Subscriptions.RecurringMerchantCount)
			if tt.wantSpendNil {
				assert.Nil(t, long.Subscriptions.MonthlyRecurringSpend)
			} else {
				require.NotNil(t, long.Subscriptions.MonthlyRecurringSpend)
				assert.InDelta(t, tt.wantSpendNear, *long.Subscriptions.MonthlyRecurringSpend, 0.01)
			}
		})
	}
}

func TestExtractor_SubscriptionShare(t *testing.T) {
	asOf := testAsOf()
	accounts := []model.Account{
		{ID: "acc1", UserID: "u1", Type: model.AccountChecking, Balance: 1000, IsActive: true},
	}

	transactions := monthlyCharges("acc1", "StreamFlix", 20.00, 6, asOf)
	transactions = append(transactions, model.Transaction{
		ID: "big", AccountID: "acc1", Date: asOf.AddDate(0, 0, -15), MerchantName: "MegaMart", Amount: -80.00,
	})

	_, long := New().Extract(accounts, transactions, asOf)

	require.NotNil(t, long.Subscriptions.SubscriptionShare)
	// 20 monthly recurring against 200 total outflow in the window.
	assert.InDelta(t, 0.10, *long.Subscriptions.SubscriptionShare, 0.001)
}

func TestExtractor_CreditSignals(t *testing.T) {
	asOf := testAsOf()

	tests := []struct {
		name            string
		account         model.Account
		transactions    []model.Transaction
		wantUtilization *float64
		wantInterest    bool
		wantMinOnly     bool
		wantOverdue     bool
	}{
		{
			name:            "utilization from balance and limit",
			account:         model.Account{ID: "card", Type: model.AccountCredit, Balance: 3400, CreditLimit: 5000},
			wantUtilization: ptr(0.68),
		},
		{
			name:            "zero limit leaves utilization undefined",
			account:         model.Account{ID: "card", Type: model.AccountCredit, Balance: 3400},
			wantUtilization: nil,
		},
		{
			name:    "interest charge in window is detected",
			account: model.Account{ID: "card", Type: model.AccountCredit, Balance: 100, CreditLimit: 1000},
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "card", Date: asOf.AddDate(0, 0, -4), Name: "INTEREST CHARGE", Category: "interest", Amount: -21.40},
			},
			wantUtilization: ptr(0.10),
			wantInterest:    true,
		},
		{
			name:    "payments equal to minimum due flag minimum-only",
			account: model.Account{ID: "card", Type: model.AccountCredit, Balance: 900, CreditLimit: 3000, MinimumDue: 35},
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "card", Date: asOf.AddDate(0, 0, -40), Name: "PAYMENT", Category: "payment", Amount: 35},
				{ID: "t2", AccountID: "card", Date: asOf.AddDate(0, 0, -10), Name: "PAYMENT", Category: "payment", Amount: 35.50},
			},
			wantUtilization: ptr(0.30),
			wantMinOnly:     true,
		},
		{
			name:    "larger payment clears the minimum-only flag",
			account: model.Account{ID: "card", Type: model.AccountCredit, Balance: 900, CreditLimit: 3000, MinimumDue: 35},
			transactions: []model.Transaction{
				{ID: "t1", AccountID: "card", Date: asOf.AddDate(0, 0, -10), Name: "PAYMENT", Category: "payment", Amount: 400},
			},
			wantUtilization: ptr(0.30),
		},
		{
			name:            "overdue passes through from account metadata",
			account:         model.Account{ID: "card", Type: model.AccountCredit, Balance: 100, CreditLimit: 1000, IsOverdue: true},
			wantUtilization: ptr(0.10),
			wantOverdue:     true,
		},
	}

	extractor := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			short, _ := extractor.Extract([]model.Account{tt.account}, tt.transactions, asOf)

			require.Len(t, short.Credit, 1)
			credit := short.Credit[0]
			if tt.wantUtilization == nil {
				assert.Nil(t, credit.UtilizationRate)
			} else {
				require.NotNil(t, credit.UtilizationRate)
				assert.InDelta(t, *tt.wantUtilization, *credit.UtilizationRate, 0.001)
			}
			assert.Equal(t, tt.wantInterest, credit.InterestChargesPresent)
			assert.Equal(t, tt.wantMinOnly, credit.MinimumPaymentOnly)
			assert.Equal(t, tt.wantOverdue, credit.IsOverdue)
		})
	}
}

func TestExtractor_SavingsSignals(t *testing.T) {
	asOf := testAsOf()
	accounts := []model.Account{
		{ID: "check", Type: model.AccountChecking, Balance: 2000},
		{ID: "save", Type: model.AccountSavings, Balance: 5000},
	}
	transactions := []model.Transaction{
		{ID: "t1", AccountID: "save", Date: asOf.AddDate(0, 0, -20), Name: "TRANSFER", Amount: 500},
		{ID: "t2", AccountID: "save", Date: asOf.AddDate(0, 0, -10), Name: "WITHDRAWAL", Amount: -100},
		{ID: "t3", AccountID: "check", Date: asOf.AddDate(0, 0, -15), Name: "RENT", Amount: -1500},
	}

	short, _ := New().Extract(accounts, transactions, asOf)

	require.NotNil(t, short.Savings.NetInflow)
	assert.InDelta(t, 400, *short.Savings.NetInflow, 0.001)

	// Opening balance 4600, so growth is 400/4600.
	require.NotNil(t, short.Savings.GrowthRate)
	assert.InDelta(t, 400.0/4600.0, *short.Savings.GrowthRate, 0.0001)

	// Liquid 7000 against 1600 monthly outflow.
	require.NotNil(t, short.Savings.CashFlowBufferMonths)
	assert.InDelta(t, 7000.0/1600.0, *short.Savings.CashFlowBufferMonths, 0.001)
}

func TestExtractor_SavingsAbsentWithoutSavingsAccount(t *testing.T) {
	asOf := testAsOf()
	accounts := []model.Account{
		{ID: "check", Type: model.AccountChecking, Balance: 2000},
	}
	transactions := []model.Transaction{
		{ID: "t1", AccountID: "check", Date: asOf.AddDate(0, 0, -15), Name: "RENT", Amount: -1500},
	}

	short, _ := New().Extract(accounts, transactions, asOf)

	assert.Nil(t, short.Savings.NetInflow)
	assert.Nil(t, short.Savings.GrowthRate)

	// The buffer is still computable from the checking balance alone.
	require.NotNil(t, short.Savings.CashFlowBufferMonths)
	assert.InDelta(t, 2000.0/1500.0, *short.Savings.CashFlowBufferMonths, 0.001)
}

func TestExtractor_IncomeSignals(t *testing.T) {
	asOf := testAsOf()
	accounts := []model.Account{
		{ID: "check", Type: model.AccountChecking, Balance: 1000},
	}

	t.Run("biweekly payroll is stable", func(t *testing.T) {
		var transactions []model.Transaction
		for i := 0; i < 12; i++ {
			transactions = append(transactions, model.Transaction{
				ID:        fmt.Sprintf("pay-%d", i),
				AccountID: "check",
				Date:      asOf.AddDate(0, 0, -2-i*14),
				Name:      "EMPLOYER PAYROLL",
				Category:  "payroll",
				Amount:    2000,
			})
		}

		_, long := New().Extract(accounts, transactions, asOf)

		require.NotNil(t, long.Income.MedianPayGapDays)
		assert.InDelta(t, 14, *long.Income.MedianPayGapDays, 0.01)
		require.NotNil(t, long.Income.StabilityScore)
		assert.InDelta(t, 1.0, *long.Income.StabilityScore, 0.001)
		assert.False(t, long.Income.VariableIncome)
	})

	t.Run("sparse uneven deposits are variable", func(t *testing.T) {
		transactions := []model.Transaction{
			{ID: "p1", AccountID: "check", Date: asOf.AddDate(0, 0, -160), Name: "CLIENT", Category: "income", Amount: 500},
			{ID: "p2", AccountID: "check", Date: asOf.AddDate(0, 0, -100), Name: "CLIENT", Category: "income", Amount: 2400},
			{ID: "p3", AccountID: "check", Date: asOf.AddDate(0, 0, -30), Name: "CLIENT", Category: "income", Amount: 900},
		}

		_, long := New().Extract(accounts, transactions, asOf)

		require.NotNil(t, long.Income.MedianPayGapDays)
		assert.Greater(t, *long.Income.MedianPayGapDays, 45.0)
		assert.True(t, long.Income.VariableIncome)
	})

	t.Run("fewer than two deposits yields absent metrics", func(t *testing.T) {
		transactions := []model.Transaction{
			{ID: "p1", AccountID: "check", Date: asOf.AddDate(0, 0, -10), Name: "CLIENT", Category: "income", Amount: 500},
		}

		_, long := New().Extract(accounts, transactions, asOf)

		assert.Nil(t, long.Income.MedianPayGapDays)
		assert.Nil(t, long.Income.StabilityScore)
		assert.False(t, long.Income.VariableIncome)
	})

	t.Run("uncategorized recurring deposits are recognized as income", func(t *testing.T) {
		var transactions []model.Transaction
		for i := 0; i < 6; i++ {
			transactions = append(transactions, model.Transaction{
				ID:           fmt.Sprintf("dd-%d", i),
				AccountID:    "check",
				Date:         asOf.AddDate(0, 0, -2-i*14),
				Name:         "DIRECT DEPOSIT ACME",
				MerchantName: "ACME Corp",
				Amount:       1500,
			})
		}

		_, long := New().Extract(accounts, transactions, asOf)

		require.NotNil(t, long.Income.MedianPayGapDays)
		assert.InDelta(t, 14, *long.Income.MedianPayGapDays, 0.01)
	})
}

func TestExtractor_WindowBoundaries(t *testing.T) {
	asOf := testAsOf()
	accounts := []model.Account{
		{ID: "check", Type: model.AccountChecking, Balance: 1000},
	}
	transactions := []model.Transaction{
		// Inside 30d, inside 180d.
		{ID: "t1", AccountID: "check", Date: asOf.AddDate(0, 0, -10), Name: "A", Amount: -100},
		// Outside 30d, inside 180d.
		{ID: "t2", AccountID: "check", Date: asOf.AddDate(0, 0, -60), Name: "B", Amount: -100},
		// Outside both.
		{ID: "t3", AccountID: "check", Date: asOf.AddDate(0, 0, -200), Name: "C", Amount: -100},
		// In the future relative to asOf.
		{ID: "t4", AccountID: "check", Date: asOf.AddDate(0, 0, 5), Name: "D", Amount: -100},
	}

	short, long := New().Extract(accounts, transactions, asOf)

	assert.Equal(t, model.Window30Day, short.Window)
	assert.Equal(t, model.Window180Day, long.Window)
	assert.Equal(t, asOf, short.AsOf)

	// Buffer months is derived from window outflow, so it doubles when only
	// half the spend is in scope: 1000/100 for 30d vs 1000/(200/6) for 180d.
	require.NotNil(t, short.Savings.CashFlowBufferMonths)
	require.NotNil(t, long.Savings.CashFlowBufferMonths)
	assert.InDelta(t, 10.0, *short.Savings.CashFlowBufferMonths, 0.01)
	assert.InDelta(t, 30.0, *long.Savings.CashFlowBufferMonths, 0.01)
}

func TestExtractor_Deterministic(t *testing.T) {
	asOf := testAsOf()
	accounts := []model.Account{
		{ID: "check", Type: model.AccountChecking, Balance: 1000},
		{ID: "card", Type: model.AccountCredit, Balance: 500, CreditLimit: 2000},
	}
	transactions := monthlyCharges("check", "StreamFlix", 15.99, 6, asOf)

	extractor := New()
	short1, long1 := extractor.Extract(accounts, transactions, asOf)
	short2, long2 := extractor.Extract(accounts, transactions, asOf)

	assert.Equal(t, short1, short2)
	assert.Equal(t, long1, long2)
}
