package model

// GuardrailCheck is the recorded outcome of one named guardrail check.
type GuardrailCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}

// PersonaSummary is the trace's compact view of the persona decision.
type PersonaSummary struct {
	PersonaID     PersonaID `json:"persona_id"`
	PersonaName   string    `json:"persona_name"`
	MatchedRuleID string    `json:"matched_rule_id"`
}

// DecisionTrace is the immutable audit record for one recommendation
// generation cycle: the signals detected, the persona decision, every
// guardrail outcome, and the content that was selected. Once attached to a
// recommendation it is never edited; a correction requires a new cycle.
type DecisionTrace struct {
	DetectedSignals struct {
		Window30Day  *SignalBundle `json:"signals_30d"`
		Window180Day *SignalBundle `json:"signals_180d"`
	} `json:"detected_signals"`
	PersonaAssignment   PersonaSummary   `json:"persona_assignment"`
	GuardrailChecks     []GuardrailCheck `json:"guardrail_checks"`
	RecommendationLogic struct {
		SelectedContentIDs []string `json:"selected_content_ids"`
	} `json:"recommendation_logic"`
}

// GuardrailsPassed reports whether every recorded check passed.
func (t *DecisionTrace) GuardrailsPassed() bool {
	for _, c := range t.GuardrailChecks {
		if !c.Passed {
			return false
		}
	}
	return true
}
