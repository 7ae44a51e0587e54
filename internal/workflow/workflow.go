// Package workflow defines the legal lifecycle transitions for a
// recommendation: pending is the only non-terminal state, and approval or
// rejection each happen at most once.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/andychuong/spendsense/internal/common"
	"github.com/andychuong/spendsense/internal/model"
)

// Workflow applies guarded state transitions to recommendations. The
// transition functions mutate the passed recommendation only on success;
// a failed transition leaves it untouched.
type Workflow struct{}

// New creates a workflow.
func New() *Workflow {
	return &Workflow{}
}

// Approve moves a pending recommendation to approved, recording the
// operator identity and timestamp. Transitioning a recommendation already
// in a terminal state fails without side effects.
func (w *Workflow) Approve(rec *model.Recommendation, approver string, now time.Time) error {
	if err := w.checkTransition(rec); err != nil {
		return err
	}
	if strings.TrimSpace(approver) == "" {
		return fmt.Errorf("%w: approver", common.ErrEmptyActor)
	}
	rec.Status = model.StatusApproved
	rec.DecidedBy = approver
	rec.DecidedAt = &now
	return nil
}

// Reject moves a pending recommendation to rejected. A non-empty rejection
// reason is required; without one the transition is rejected as invalid
// input and the recommendation is left untouched.
func (w *Workflow) Reject(rec *model.Recommendation, rejector, reason string, now time.Time) error {
	if err := w.checkTransition(rec); err != nil {
		return err
	}
	if strings.TrimSpace(rejector) == "" {
		return fmt.Errorf("%w: rejector", common.ErrEmptyActor)
	}
	if strings.TrimSpace(reason) == "" {
		return common.ErrEmptyReason
	}
	rec.Status = model.StatusRejected
	rec.DecidedBy = rejector
	rec.DecidedAt = &now
	rec.RejectionReason = reason
	return nil
}

func (w *Workflow) checkTransition(rec *model.Recommendation) error {
	if rec == nil {
		return fmt.Errorf("%w: recommendation", common.ErrNilParameter)
	}
	if rec.Status.Terminal() {
		return fmt.Errorf("%w: recommendation %s is already %s", common.ErrAlreadyDecided, rec.ID, rec.Status)
	}
	if rec.Status != model.StatusPending {
		return fmt.Errorf("%w: unknown status %q", common.ErrInvalidStatus, rec.Status)
	}
	return nil
}
