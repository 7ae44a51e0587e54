package model

import "time"

// PersonaID identifies one of the five behavioral personas. Lower IDs carry
// higher classification priority.
type PersonaID int

// Persona constants, in priority order.
const (
	PersonaHighUtilization        PersonaID = 1
	PersonaVariableIncomeBudgeter PersonaID = 2
	PersonaSubscriptionHeavy      PersonaID = 3
	PersonaSavingsBuilder         PersonaID = 4
	PersonaGeneralUser            PersonaID = 5
)

// personaNames maps persona IDs to their display names.
var personaNames = map[PersonaID]string{
	PersonaHighUtilization:        "High Utilization",
	PersonaVariableIncomeBudgeter: "Variable Income Budgeter",
	PersonaSubscriptionHeavy:      "Subscription-Heavy",
	PersonaSavingsBuilder:         "Savings Builder",
	PersonaGeneralUser:            "General User",
}

// Name returns the display name for the persona.
func (p PersonaID) Name() string {
	return personaNames[p]
}

// Valid reports whether the persona ID is one of the five known personas.
func (p PersonaID) Valid() bool {
	_, ok := personaNames[p]
	return ok
}

// PersonaDecision is the output of one classification call: the assigned
// persona, the rule that matched, and the signal snapshots it was computed
// from. Produced fresh on every call, never mutated.
type PersonaDecision struct {
	PersonaID     PersonaID     `json:"persona_id"`
	PersonaName   string        `json:"persona_name"`
	MatchedRuleID string        `json:"matched_rule_id"`
	Signals30Day  *SignalBundle `json:"signals_30d"`
	Signals180Day *SignalBundle `json:"signals_180d"`
}

// PersonaAssignment is the currently stored persona for a user. Owned by the
// persistence layer; the core reads it to detect change and returns the new
// value, never writing storage directly.
type PersonaAssignment struct {
	UserID      string    `json:"user_id"`
	PersonaID   PersonaID `json:"persona_id"`
	PersonaName string    `json:"persona_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PersonaHistoryEntry is an append-only record of a persona change.
type PersonaHistoryEntry struct {
	UserID        string        `json:"user_id"`
	PersonaID     PersonaID     `json:"persona_id"`
	PersonaName   string        `json:"persona_name"`
	AssignedAt    time.Time     `json:"assigned_at"`
	Signals30Day  *SignalBundle `json:"signals_30d"`
	Signals180Day *SignalBundle `json:"signals_180d"`
}
