// Package persona assigns behavioral personas from signal bundles using a
// priority-ordered rule chain.
package persona

import (
	"github.com/andychuong/spendsense/internal/model"
)

// ruleInput carries both signal windows into a rule predicate. Which window
// a rule reads is fixed per rule: credit-state rules read the 30-day bundle
// (current state), pattern rules read the 180-day bundle (stability), and
// hybrid rules mix the two. See each rule's predicate.
type ruleInput struct {
	short *model.SignalBundle // 30-day
	long  *model.SignalBundle // 180-day
}

// rule is one entry in the priority chain.
type rule struct {
	id        string
	personaID model.PersonaID
	predicate func(ruleInput) bool
}

// Classification thresholds.
const (
	highUtilizationThreshold   = 0.50
	savingsUtilizationCeiling  = 0.30
	variableGapThreshold       = 45.0
	lowBufferThreshold         = 1.0
	recurringCountThreshold    = 3
	recurringSpendThreshold    = 50.0
	subscriptionShareThreshold = 0.10
	growthRateThreshold        = 0.02
	netInflowThreshold         = 200.0
)

// rules is the ordered chain; evaluation stops at the first match, so
// priority order is the tie-break by construction. The fallback rule always
// matches and must stay last.
var rules = []rule{
	{
		id:        "high_utilization",
		personaID: model.PersonaHighUtilization,
		predicate: func(in ruleInput) bool {
			// Credit state is current state: 30-day window.
			if max, ok := in.short.MaxUtilization(); ok && max >= highUtilizationThreshold {
				return true
			}
			return in.short.AnyCreditDistress()
		},
	},
	{
		id:        "variable_income_budgeter",
		personaID: model.PersonaVariableIncomeBudgeter,
		predicate: func(in ruleInput) bool {
			// Pay cadence needs the long window to be meaningful; the cash
			// buffer reflects the current month.
			gap := in.long.Income.MedianPayGapDays
			buffer := in.short.Savings.CashFlowBufferMonths
			return gap != nil && *gap > variableGapThreshold &&
				buffer != nil && *buffer < lowBufferThreshold
		},
	},
	{
		id:        "subscription_heavy",
		personaID: model.PersonaSubscriptionHeavy,
		predicate: func(in ruleInput) bool {
			// Subscription patterns are judged over the long window.
			subs := in.long.Subscriptions
			if subs.RecurringMerchantCount < recurringCountThreshold {
				return false
			}
			if subs.MonthlyRecurringSpend != nil && *subs.MonthlyRecurringSpend >= recurringSpendThreshold {
				return true
			}
			return subs.SubscriptionShare != nil && *subs.SubscriptionShare >= subscriptionShareThreshold
		},
	},
	{
		id:        "savings_builder",
		personaID: model.PersonaSavingsBuilder,
		predicate: func(in ruleInput) bool {
			// Growth is judged over the long window; the utilization ceiling
			// applies to current credit state.
			savings := in.long.Savings
			growing := savings.GrowthRate != nil && *savings.GrowthRate >= growthRateThreshold
			if !growing {
				growing = savings.NetInflow != nil && *savings.NetInflow >= netInflowThreshold
			}
			return growing && in.short.AllUtilizationsBelow(savingsUtilizationCeiling)
		},
	},
	{
		id:        "default",
		personaID: model.PersonaGeneralUser,
		predicate: func(ruleInput) bool { return true },
	},
}

// Classifier assigns personas from signal bundles. Purely functional: no
// I/O, no state, deterministic for identical inputs.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify evaluates the rule chain in priority order and returns the
// decision for the first matching rule. It never fails: absent signals
// simply fail the predicates they appear in, driving toward the default
// persona.
func (c *Classifier) Classify(short, long *model.SignalBundle) model.PersonaDecision {
	in := ruleInput{short: short, long: long}
	for _, r := range rules {
		if !r.predicate(in) {
			continue
		}
		return model.PersonaDecision{
			PersonaID:     r.personaID,
			PersonaName:   r.personaID.Name(),
			MatchedRuleID: r.id,
			Signals30Day:  short,
			Signals180Day: long,
		}
	}
	// Unreachable: the fallback rule always matches.
	return model.PersonaDecision{
		PersonaID:   model.PersonaGeneralUser,
		PersonaName: model.PersonaGeneralUser.Name(),
	}
}
