// Package signals computes behavioral signal bundles from transaction history.
package signals

import (
	"math"
	"sort"
	"time"

	"github.com/andychuong/spendsense/internal/model"
)

// Config holds the tunable thresholds for signal extraction.
type Config struct {
	// AmountToleranceAbs and AmountTolerancePct define the band within which
	// two charges from the same merchant count as the same recurring amount.
	// The wider of the two applies.
	AmountToleranceAbs float64
	AmountTolerancePct float64
	// MinCycleDays and MaxCycleDays bound the gap between consecutive
	// charges for a group to count as a monthly billing cycle.
	MinCycleDays int
	MaxCycleDays int
	// VariableGapDays and VariableAmountCV are the thresholds above which
	// income is flagged as variable.
	VariableGapDays  float64
	VariableAmountCV float64
	// PaymentToleranceAbs is the band within which a credit payment counts
	// as equal to the minimum due.
	PaymentToleranceAbs float64
}

// DefaultConfig returns the default extraction thresholds.
func DefaultConfig() Config {
	return Config{
		AmountToleranceAbs:  2.00,
		AmountTolerancePct:  0.10,
		MinCycleDays:        25,
		MaxCycleDays:        35,
		VariableGapDays:     45,
		VariableAmountCV:    0.5,
		PaymentToleranceAbs: 1.00,
	}
}

// Extractor turns a user's transaction ledger into point-in-time signal
// bundles. It is stateless and safe for concurrent use.
type Extractor struct {
	config Config
}

// New creates an extractor with default thresholds.
func New() *Extractor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an extractor with custom thresholds.
func NewWithConfig(config Config) *Extractor {
	return &Extractor{config: config}
}

// Extract computes the 30-day and 180-day signal bundles for one user as of
// the reference time. Transactions outside [asOf-180d, asOf] are ignored.
// Purely computational: deterministic for a fixed input set, no side effects.
func (e *Extractor) Extract(accounts []model.Account, transactions []model.Transaction, asOf time.Time) (*model.SignalBundle, *model.SignalBundle) {
	short := e.extractWindow(accounts, transactions, asOf, model.Window30Day)
	long := e.extractWindow(accounts, transactions, asOf, model.Window180Day)
	return short, long
}

func (e *Extractor) extractWindow(accounts []model.Account, transactions []model.Transaction, asOf time.Time, window model.SignalWindow) *model.SignalBundle {
	start := asOf.AddDate(0, 0, -window.Days())

	var inWindow []model.Transaction
	for _, txn := range transactions {
		if !txn.Date.Before(start) && !txn.Date.After(asOf) {
			inWindow = append(inWindow, txn)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool { return inWindow[i].Date.Before(inWindow[j].Date) })

	bundle := &model.SignalBundle{
		Window: window,
		AsOf:   asOf,
	}
	bundle.Subscriptions = e.subscriptionSignals(inWindow)
	bundle.Savings = e.savingsSignals(accounts, inWindow, window)
	bundle.Credit = e.creditSignals(accounts, inWindow)
	bundle.Income = e.incomeSignals(accounts, inWindow)
	return bundle
}

// recurringGroup is a set of charges from one merchant at roughly one amount.
type recurringGroup struct {
	merchant string
	amounts  []float64
	dates    []time.Time
}

// subscriptionSignals detects recurring merchants and derives the
// subscription-domain metrics.
func (e *Extractor) subscriptionSignals(transactions []model.Transaction) model.SubscriptionSignals {
	groups := e.groupRecurring(transactions)

	var monthlySpend float64
	count := 0
	for _, g := range groups {
		if !e.qualifiesRecurring(g) {
			continue
		}
		count++
		monthlySpend += average(g.amounts)
	}

	signals := model.SubscriptionSignals{RecurringMerchantCount: count}
	if count > 0 {
		signals.MonthlyRecurringSpend = ptr(monthlySpend)
	}

	totalOutflow := 0.0
	for _, txn := range transactions {
		if txn.Amount < 0 {
			totalOutflow += -txn.Amount
		}
	}
	if totalOutflow > 0 && count > 0 {
		signals.SubscriptionShare = ptr(monthlySpend / totalOutflow)
	}
	return signals
}

// groupRecurring buckets outflow transactions by merchant and amount band.
func (e *Extractor) groupRecurring(transactions []model.Transaction) []*recurringGroup {
	var groups []*recurringGroup
	for _, txn := range transactions {
		if txn.Amount >= 0 {
			continue
		}
		amount := -txn.Amount
		merchant := txn.Merchant()

		var found *recurringGroup
		for _, g := range groups {
			if g.merchant != merchant {
				continue
			}
			if e.withinTolerance(average(g.amounts), amount) {
				found = g
				break
			}
		}
		if found == nil {
			found = &recurringGroup{merchant: merchant}
			groups = append(groups, found)
		}
		found.amounts = append(found.amounts, amount)
		found.dates = append(found.dates, txn.Date)
	}
	return groups
}

// qualifiesRecurring reports whether a group has at least two occurrences
// spaced roughly one billing cycle apart.
func (e *Extractor) qualifiesRecurring(g *recurringGroup) bool {
	if len(g.dates) < 2 {
		return false
	}
	for i := 1; i < len(g.dates); i++ {
		gap := g.dates[i].Sub(g.dates[i-1]).Hours() / 24
		if gap >= float64(e.config.MinCycleDays) && gap <= float64(e.config.MaxCycleDays) {
			return true
		}
	}
	return false
}

func (e *Extractor) withinTolerance(base, amount float64) bool {
	tolerance := e.config.AmountToleranceAbs
	if pct := base * e.config.AmountTolerancePct; pct > tolerance {
		tolerance = pct
	}
	return math.Abs(base-amount) <= tolerance
}

// creditSignals computes per-account credit metrics for every credit account.
func (e *Extractor) creditSignals(accounts []model.Account, transactions []model.Transaction) []model.CreditAccountSignals {
	var out []model.CreditAccountSignals
	for _, account := range accounts {
		if account.Type != model.AccountCredit {
			continue
		}
		signals := model.CreditAccountSignals{
			AccountID: account.ID,
			IsOverdue: account.IsOverdue,
		}
		// Utilization is undefined when the limit is unknown.
		if account.CreditLimit > 0 {
			signals.UtilizationRate = ptr(account.Balance / account.CreditLimit)
		}

		var payments []float64
		for _, txn := range transactions {
			if txn.AccountID != account.ID {
				continue
			}
			if txn.IsInterestCharge() {
				signals.InterestChargesPresent = true
			}
			if txn.IsPayment() && txn.Amount > 0 {
				payments = append(payments, txn.Amount)
			}
		}
		if len(payments) > 0 && account.MinimumDue > 0 {
			minOnly := true
			for _, p := range payments {
				if math.Abs(p-account.MinimumDue) > e.config.PaymentToleranceAbs {
					minOnly = false
					break
				}
			}
			signals.MinimumPaymentOnly = minOnly
		}
		out = append(out, signals)
	}
	return out
}

// savingsSignals computes savings flow metrics over the window.
func (e *Extractor) savingsSignals(accounts []model.Account, transactions []model.Transaction, window model.SignalWindow) model.SavingsSignals {
	savingsAccounts := make(map[string]model.Account)
	liquidBalance := 0.0
	savingsBalance := 0.0
	for _, account := range accounts {
		switch account.Type {
		case model.AccountSavings:
			savingsAccounts[account.ID] = account
			savingsBalance += account.Balance
			liquidBalance += account.Balance
		case model.AccountChecking:
			liquidBalance += account.Balance
		}
	}

	var signals model.SavingsSignals

	netInflow := 0.0
	totalOutflow := 0.0
	for _, txn := range transactions {
		if _, ok := savingsAccounts[txn.AccountID]; ok {
			netInflow += txn.Amount
		}
		if txn.Amount < 0 {
			totalOutflow += -txn.Amount
		}
	}

	// The buffer only needs a liquid balance and some outflow; flow metrics
	// need an actual savings account.
	months := float64(window.Days()) / 30.0
	if monthlyOutflow := totalOutflow / months; monthlyOutflow > 0 {
		signals.CashFlowBufferMonths = ptr(liquidBalance / monthlyOutflow)
	}

	if len(savingsAccounts) == 0 {
		return signals
	}
	signals.NetInflow = ptr(netInflow)

	// The opening balance is reconstructed from the current balance less the
	// window's net flow.
	opening := savingsBalance - netInflow
	if opening > 0 {
		signals.GrowthRate = ptr(netInflow / opening)
	}
	return signals
}

// incomeSignals identifies income deposits and derives cadence and
// stability metrics.
func (e *Extractor) incomeSignals(accounts []model.Account, transactions []model.Transaction) model.IncomeSignals {
	checking := make(map[string]bool)
	for _, account := range accounts {
		if account.Type == model.AccountChecking {
			checking[account.ID] = true
		}
	}

	deposits := e.incomeDeposits(transactions, checking)

	var signals model.IncomeSignals
	if len(deposits) < 2 {
		return signals
	}

	gaps := make([]float64, 0, len(deposits)-1)
	for i := 1; i < len(deposits); i++ {
		gaps = append(gaps, deposits[i].Date.Sub(deposits[i-1].Date).Hours()/24)
	}
	medianGap := median(gaps)
	signals.MedianPayGapDays = ptr(medianGap)

	amounts := make([]float64, len(deposits))
	for i, d := range deposits {
		amounts[i] = d.Amount
	}
	cv := coefficientOfVariation(amounts)
	signals.StabilityScore = ptr(1 / (1 + cv))
	signals.VariableIncome = medianGap > e.config.VariableGapDays || cv > e.config.VariableAmountCV

	return signals
}

// incomeDeposits returns inflows recognized as income, sorted by date.
// Recognition is by category label, or by a recurring inflow pattern on a
// checking account for ledgers without category hints.
func (e *Extractor) incomeDeposits(transactions []model.Transaction, checking map[string]bool) []model.Transaction {
	var deposits []model.Transaction
	for _, txn := range transactions {
		if txn.Amount <= 0 {
			continue
		}
		if txn.IsIncomeCategory() {
			deposits = append(deposits, txn)
		}
	}
	if len(deposits) >= 2 {
		sort.Slice(deposits, func(i, j int) bool { return deposits[i].Date.Before(deposits[j].Date) })
		return deposits
	}

	// Fall back to recurring checking-account inflows: same merchant, at
	// least two deposits within tolerance of each other.
	byMerchant := make(map[string][]model.Transaction)
	for _, txn := range transactions {
		if txn.Amount > 0 && checking[txn.AccountID] {
			byMerchant[txn.Merchant()] = append(byMerchant[txn.Merchant()], txn)
		}
	}
	deposits = deposits[:0]
	for _, group := range byMerchant {
		if len(group) < 2 {
			continue
		}
		recurring := true
		base := group[0].Amount
		for _, txn := range group[1:] {
			if !e.withinTolerance(base, txn.Amount) {
				recurring = false
				break
			}
		}
		if recurring {
			deposits = append(deposits, group...)
		}
	}
	sort.Slice(deposits, func(i, j int) bool { return deposits[i].Date.Before(deposits[j].Date) })
	return deposits
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func coefficientOfVariation(values []float64) float64 {
	mean := average(values)
	if mean == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean
}

func ptr(v float64) *float64 {
	return &v
}
