package catalog

import "github.com/andychuong/spendsense/internal/model"

// Default returns the built-in catalog used when no catalog file is
// configured. Entries are ordered; selection walks them front to back.
func Default() *Catalog {
	return New([]model.Candidate{
		// Persona 1: High Utilization.
		{ContentID: "edu-utilization-basics", Type: model.CandidateEducation, PersonaID: model.PersonaHighUtilization, Title: "Understanding credit utilization", Content: "How utilization affects your credit score and carrying costs.", Rationale: "Credit utilization at or above 50% on at least one account.", Tone: "supportive"},
		{ContentID: "edu-avalanche-method", Type: model.CandidateEducation, PersonaID: model.PersonaHighUtilization, Title: "Paying down balances with the avalanche method", Content: "Target the highest-rate balance first to cut interest charges.", Rationale: "Interest charges observed in the current cycle.", Tone: "supportive"},
		{ContentID: "edu-min-payment-cost", Type: model.CandidateEducation, PersonaID: model.PersonaHighUtilization, Title: "The real cost of minimum payments", Content: "What paying only the minimum does to your payoff timeline.", Rationale: "Minimum-payment-only pattern on a credit account.", Tone: "supportive"},
		{ContentID: "offer-balance-transfer", Type: model.CandidatePartnerOffer, PersonaID: model.PersonaHighUtilization, Title: "0% intro APR balance transfer", Content: "Partner card with a 15-month 0% balance transfer window.", Rationale: "High utilization with interest charges present.", Tone: "neutral"},

		// Persona 2: Variable Income Budgeter.
		{ContentID: "edu-percent-budget", Type: model.CandidateEducation, PersonaID: model.PersonaVariableIncomeBudgeter, Title: "Percentage-based budgeting for irregular income", Content: "Budget from a baseline month instead of a fixed paycheck.", Rationale: "Median pay gap exceeds 45 days.", Tone: "supportive"},
		{ContentID: "edu-buffer-first", Type: model.CandidateEducation, PersonaID: model.PersonaVariableIncomeBudgeter, Title: "Building a one-month buffer", Content: "Why a single month of expenses changes everything with lumpy income.", Rationale: "Cash flow buffer below one month.", Tone: "supportive"},
		{ContentID: "edu-income-smoothing", Type: model.CandidateEducation, PersonaID: model.PersonaVariableIncomeBudgeter, Title: "Smoothing variable income", Content: "Pay yourself a fixed salary from a holding account.", Rationale: "High variance in deposit amounts.", Tone: "neutral"},
		{ContentID: "offer-flex-savings", Type: model.CandidatePartnerOffer, PersonaID: model.PersonaVariableIncomeBudgeter, Title: "No-penalty flexible savings", Content: "Partner savings account with same-day withdrawals and no minimums.", Rationale: "Irregular income needs liquid reserves.", Tone: "neutral"},

		// Persona 3: Subscription-Heavy.
		{ContentID: "edu-subscription-audit", Type: model.CandidateEducation, PersonaID: model.PersonaSubscriptionHeavy, Title: "Running a subscription audit", Content: "Walk your recurring charges and cancel what you no longer use.", Rationale: "Three or more recurring merchants detected.", Tone: "neutral"},
		{ContentID: "edu-annual-vs-monthly", Type: model.CandidateEducation, PersonaID: model.PersonaSubscriptionHeavy, Title: "Annual vs monthly billing", Content: "When switching billing cadence actually saves money.", Rationale: "Meaningful monthly recurring spend.", Tone: "neutral"},
		{ContentID: "edu-trial-tracking", Type: model.CandidateEducation, PersonaID: model.PersonaSubscriptionHeavy, Title: "Tracking free trials", Content: "Stop paying for trials you forgot to cancel.", Rationale: "Recurring charges cluster around trial-length cycles.", Tone: "celebratory"},
		{ContentID: "offer-sub-manager", Type: model.CandidatePartnerOffer, PersonaID: model.PersonaSubscriptionHeavy, Title: "Subscription manager app", Content: "Partner tool that cancels unused subscriptions for you.", Rationale: "Subscription share above 10% of outflow.", Tone: "neutral"},

		// Persona 4: Savings Builder.
		{ContentID: "edu-emergency-fund", Type: model.CandidateEducation, PersonaID: model.PersonaSavingsBuilder, Title: "Sizing your emergency fund", Content: "Three to six months of expenses, and where to keep it.", Rationale: "Consistent positive net inflow to savings.", Tone: "celebratory"},
		{ContentID: "edu-ladder-cds", Type: model.CandidateEducation, PersonaID: model.PersonaSavingsBuilder, Title: "Laddering certificates of deposit", Content: "Stagger maturities to keep yield without losing liquidity.", Rationale: "Growing balance beyond the emergency-fund target.", Tone: "neutral"},
		{ContentID: "edu-auto-escalation", Type: model.CandidateEducation, PersonaID: model.PersonaSavingsBuilder, Title: "Automatic savings escalation", Content: "Raise your transfer rate with every raise.", Rationale: "Savings growth rate at or above 2% per window.", Tone: "celebratory"},
		{ContentID: "offer-hysa", Type: model.CandidatePartnerOffer, PersonaID: model.PersonaSavingsBuilder, Title: "High-yield savings account", Content: "Partner account with a top-decile APY.", Rationale: "Idle balance earning below-market yield.", Tone: "neutral"},
		{ContentID: "offer-robo-invest", Type: model.CandidatePartnerOffer, PersonaID: model.PersonaSavingsBuilder, Title: "Automated index investing", Content: "Partner robo-advisor for balances past the buffer target.", Rationale: "Buffer target met; surplus can compound.", Tone: "neutral"},

		// Persona 5: General User.
		{ContentID: "edu-fifty-thirty-twenty", Type: model.CandidateEducation, PersonaID: model.PersonaGeneralUser, Title: "The 50/30/20 starting budget", Content: "A simple default split for needs, wants, and savings.", Rationale: "No dominant behavioral pattern detected.", Tone: "neutral"},
		{ContentID: "edu-credit-score-basics", Type: model.CandidateEducation, PersonaID: model.PersonaGeneralUser, Title: "Credit score fundamentals", Content: "The five inputs to your score and which ones you control.", Rationale: "Broadly applicable foundational content.", Tone: "neutral"},
		{ContentID: "offer-cashback-card", Type: model.CandidatePartnerOffer, PersonaID: model.PersonaGeneralUser, Title: "Flat-rate cashback card", Content: "Partner card with 2% back on everything, no categories.", Rationale: "General-purpose value without behavior change.", Tone: "neutral"},
	})
}
