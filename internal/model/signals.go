package model

import "time"

// SignalWindow identifies the lookback window a signal bundle covers.
type SignalWindow string

// Signal window constants.
const (
	Window30Day  SignalWindow = "30d"
	Window180Day SignalWindow = "180d"
)

// Days returns the number of days the window spans.
func (w SignalWindow) Days() int {
	if w == Window180Day {
		return 180
	}
	return 30
}

// SubscriptionSignals describes recurring-spend behavior over the window.
// Nil fields mean the metric could not be computed from the available data,
// which is distinct from a computed zero.
type SubscriptionSignals struct {
	MonthlyRecurringSpend  *float64 `json:"monthly_recurring_spend,omitempty"`
	SubscriptionShare      *float64 `json:"subscription_share,omitempty"`
	RecurringMerchantCount int      `json:"recurring_merchant_count"`
}

// SavingsSignals describes savings-account flow behavior over the window.
type SavingsSignals struct {
	NetInflow            *float64 `json:"net_inflow,omitempty"`
	GrowthRate           *float64 `json:"growth_rate,omitempty"`
	CashFlowBufferMonths *float64 `json:"cash_flow_buffer_months,omitempty"`
}

// CreditAccountSignals describes one credit account's state over the window.
type CreditAccountSignals struct {
	AccountID              string   `json:"account_id"`
	UtilizationRate        *float64 `json:"utilization_rate,omitempty"`
	InterestChargesPresent bool     `json:"interest_charges_present"`
	MinimumPaymentOnly     bool     `json:"minimum_payment_only"`
	IsOverdue              bool     `json:"is_overdue"`
}

// IncomeSignals describes income-deposit cadence and stability.
type IncomeSignals struct {
	MedianPayGapDays *float64 `json:"median_pay_gap_days,omitempty"`
	StabilityScore   *float64 `json:"stability_score,omitempty"`
	VariableIncome   bool     `json:"variable_income"`
}

// SignalBundle is a point-in-time snapshot of behavioral signals for one
// user over one lookback window. Bundles are never mutated after
// construction; a new evaluation produces a new bundle.
type SignalBundle struct {
	Window        SignalWindow           `json:"window"`
	AsOf          time.Time              `json:"as_of"`
	Subscriptions SubscriptionSignals    `json:"subscriptions"`
	Savings       SavingsSignals         `json:"savings"`
	Credit        []CreditAccountSignals `json:"credit"`
	Income        IncomeSignals          `json:"income"`
}

// MaxUtilization returns the highest credit utilization across accounts and
// whether any account had a computable utilization at all.
func (b *SignalBundle) MaxUtilization() (float64, bool) {
	max, found := 0.0, false
	for _, c := range b.Credit {
		if c.UtilizationRate == nil {
			continue
		}
		if !found || *c.UtilizationRate > max {
			max = *c.UtilizationRate
		}
		found = true
	}
	return max, found
}

// AnyCreditDistress reports whether any credit account shows interest
// charges, minimum-payment-only behavior, or an overdue flag.
func (b *SignalBundle) AnyCreditDistress() bool {
	for _, c := range b.Credit {
		if c.InterestChargesPresent || c.MinimumPaymentOnly || c.IsOverdue {
			return true
		}
	}
	return false
}

// AllUtilizationsBelow reports whether every credit account with a
// computable utilization sits below the threshold. Accounts without a
// computable utilization do not count against the caller.
func (b *SignalBundle) AllUtilizationsBelow(threshold float64) bool {
	for _, c := range b.Credit {
		if c.UtilizationRate != nil && *c.UtilizationRate >= threshold {
			return false
		}
	}
	return true
}
