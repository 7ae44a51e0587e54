package recommend

import (
	"github.com/andychuong/spendsense/internal/model"
)

// TraceBuilder assembles the immutable decision trace for one
// recommendation-generation cycle. The built trace is never edited; a later
// correction requires a new cycle producing a new trace.
type TraceBuilder struct{}

// NewTraceBuilder creates a trace builder.
func NewTraceBuilder() *TraceBuilder {
	return &TraceBuilder{}
}

// Build aggregates the signal bundles, persona decision, full guardrail map
// (including failures), and the selected candidate IDs. selected is empty
// when guardrails blocked generation; the trace still records why.
func (b *TraceBuilder) Build(decision model.PersonaDecision, checks []model.GuardrailCheck, selected []model.Candidate) *model.DecisionTrace {
	trace := &model.DecisionTrace{
		PersonaAssignment: model.PersonaSummary{
			PersonaID:     decision.PersonaID,
			PersonaName:   decision.PersonaName,
			MatchedRuleID: decision.MatchedRuleID,
		},
		GuardrailChecks: append([]model.GuardrailCheck(nil), checks...),
	}
	trace.DetectedSignals.Window30Day = decision.Signals30Day
	trace.DetectedSignals.Window180Day = decision.Signals180Day

	ids := make([]string, 0, len(selected))
	for _, candidate := range selected {
		ids = append(ids, candidate.ContentID)
	}
	trace.RecommendationLogic.SelectedContentIDs = ids
	return trace
}
