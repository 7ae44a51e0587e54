package persona

import (
	"time"

	"github.com/andychuong/spendsense/internal/model"
)

// HistoryRecorder decides whether a persona change warrants a new history
// entry. It never writes storage itself; the caller appends the returned
// entry through the persistence layer.
type HistoryRecorder struct{}

// NewHistoryRecorder creates a history recorder.
func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{}
}

// Record returns a history entry when the new decision differs from the
// stored assignment, or when no assignment exists yet. Re-running
// classification with an unchanged persona returns nil, keeping history
// idempotent under repeated identical inputs.
func (r *HistoryRecorder) Record(userID string, previous *model.PersonaAssignment, decision model.PersonaDecision, now time.Time) *model.PersonaHistoryEntry {
	if previous != nil && previous.PersonaID == decision.PersonaID {
		return nil
	}
	return &model.PersonaHistoryEntry{
		UserID:        userID,
		PersonaID:     decision.PersonaID,
		PersonaName:   decision.PersonaName,
		AssignedAt:    now,
		Signals30Day:  decision.Signals30Day,
		Signals180Day: decision.Signals180Day,
	}
}
