// Package guardrail evaluates the pre-conditions that must hold before any
// recommendation may be produced.
package guardrail

import (
	"fmt"

	"github.com/andychuong/spendsense/internal/model"
)

// Check name constants, in evaluation order.
const (
	CheckConsent        = "consent"
	CheckEligibility    = "eligibility"
	CheckToneValidation = "tone_validation"
)

// Context carries the user-level facts the checks evaluate. All fields are
// supplied by the caller; the engine performs no I/O.
type Context struct {
	ConsentGranted      bool
	AccountActive       bool
	IsMinor             bool
	JurisdictionBlocked bool
}

// tonePolicy maps personas to content tones that are off limits for them.
// Personas in active credit or cash-flow distress must not receive
// celebratory or urgency-framed content.
var tonePolicy = map[model.PersonaID][]string{
	model.PersonaHighUtilization:        {"celebratory", "urgency"},
	model.PersonaVariableIncomeBudgeter: {"celebratory", "urgency"},
}

// Engine runs the ordered guardrail checks. Stateless and safe for
// concurrent use.
type Engine struct{}

// New creates a guardrail engine.
func New() *Engine {
	return &Engine{}
}

// Evaluate runs every check in the documented order and returns all
// outcomes, pass or fail. Generation may proceed only when every check
// passed; any single failure blocks it entirely. Failures are still
// recorded so the decision trace captures the reason.
func (e *Engine) Evaluate(gc Context, decision model.PersonaDecision, candidates []model.Candidate) []model.GuardrailCheck {
	checks := make([]model.GuardrailCheck, 0, 3)
	checks = append(checks, e.checkConsent(gc))
	checks = append(checks, e.checkEligibility(gc))
	checks = append(checks, e.checkTone(decision.PersonaID, candidates))
	return checks
}

// Passed reports whether every check in the result passed.
func Passed(checks []model.GuardrailCheck) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

func (e *Engine) checkConsent(gc Context) model.GuardrailCheck {
	if !gc.ConsentGranted {
		return model.GuardrailCheck{
			Name:   CheckConsent,
			Passed: false,
			Reason: "user has revoked data-use consent",
		}
	}
	return model.GuardrailCheck{Name: CheckConsent, Passed: true, Reason: "data-use consent on file"}
}

func (e *Engine) checkEligibility(gc Context) model.GuardrailCheck {
	switch {
	case !gc.AccountActive:
		return model.GuardrailCheck{Name: CheckEligibility, Passed: false, Reason: "account is inactive"}
	case gc.IsMinor:
		return model.GuardrailCheck{Name: CheckEligibility, Passed: false, Reason: "user is under the minimum age"}
	case gc.JurisdictionBlocked:
		return model.GuardrailCheck{Name: CheckEligibility, Passed: false, Reason: "jurisdiction is restricted"}
	}
	return model.GuardrailCheck{Name: CheckEligibility, Passed: true, Reason: "user and account eligible"}
}

// checkTone is a static policy lookup: it verifies no candidate carries a
// tone forbidden for the persona.
func (e *Engine) checkTone(personaID model.PersonaID, candidates []model.Candidate) model.GuardrailCheck {
	forbidden := tonePolicy[personaID]
	for _, candidate := range candidates {
		for _, tone := range forbidden {
			if candidate.Tone == tone {
				return model.GuardrailCheck{
					Name:   CheckToneValidation,
					Passed: false,
					Reason: fmt.Sprintf("content %s uses %q tone, not permitted for persona %d", candidate.ContentID, tone, personaID),
				}
			}
		}
	}
	return model.GuardrailCheck{Name: CheckToneValidation, Passed: true, Reason: "all content tones permitted for persona"}
}
