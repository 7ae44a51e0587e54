// Package engine orchestrates one evaluation cycle per user: signal
// extraction, persona classification, guardrails, recommendation selection,
// and trace assembly, with all persistence delegated to the injected
// storage.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andychuong/spendsense/internal/catalog"
	"github.com/andychuong/spendsense/internal/guardrail"
	"github.com/andychuong/spendsense/internal/model"
	"github.com/andychuong/spendsense/internal/persona"
	"github.com/andychuong/spendsense/internal/recommend"
	"github.com/andychuong/spendsense/internal/service"
	"github.com/andychuong/spendsense/internal/signals"
)

// Config holds configuration options for the evaluation engine.
type Config struct {
	// CooldownDays is how long delivered content stays excluded from
	// re-selection.
	CooldownDays int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CooldownDays: 30,
	}
}

// EvaluationEngine runs evaluation cycles against the injected storage. The
// decision components are pure; the engine owns the only cross-call state,
// a per-user lock that serializes evaluation so the at-most-one-history-
// entry-per-change invariant holds under concurrent callers.
type EvaluationEngine struct {
	storage      service.Storage
	catalog      *catalog.Catalog
	extractor    *signals.Extractor
	classifier   *persona.Classifier
	recorder     *persona.HistoryRecorder
	guardrails   *guardrail.Engine
	selector     *recommend.Selector
	traceBuilder *recommend.TraceBuilder
	config       Config

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New creates an evaluation engine with the default configuration.
func New(storage service.Storage, cat *catalog.Catalog) *EvaluationEngine {
	return NewWithConfig(storage, cat, DefaultConfig())
}

// NewWithConfig creates an evaluation engine with custom configuration.
func NewWithConfig(storage service.Storage, cat *catalog.Catalog, config Config) *EvaluationEngine {
	return &EvaluationEngine{
		storage:      storage,
		catalog:      cat,
		extractor:    signals.New(),
		classifier:   persona.NewClassifier(),
		recorder:     persona.NewHistoryRecorder(),
		guardrails:   guardrail.New(),
		selector:     recommend.NewSelector(),
		traceBuilder: recommend.NewTraceBuilder(),
		config:       config,
		userLocks:    make(map[string]*sync.Mutex),
	}
}

// EvaluateUser runs one full evaluation cycle for a user as of the given
// time. Guardrail failures are a typed Blocked result, not an error; the
// trace records the failing check either way.
func (e *EvaluationEngine) EvaluateUser(ctx context.Context, userID string, asOf time.Time) (*service.EvaluationResult, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	slog.Info("Starting evaluation", "user_id", userID, "as_of", asOf.Format("2006-01-02"))

	profile, err := e.storage.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	accounts, err := e.storage.GetAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	transactions, err := e.storage.GetTransactions(ctx, userID, asOf.AddDate(0, 0, -180), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	short, long := e.extractor.Extract(accounts, transactions, asOf)
	decision := e.classifier.Classify(short, long)

	slog.Info("Classified persona",
		"user_id", userID,
		"persona_id", int(decision.PersonaID),
		"persona_name", decision.PersonaName,
		"matched_rule", decision.MatchedRuleID)

	result := &service.EvaluationResult{
		UserID:   userID,
		Decision: decision,
	}

	previous, err := e.storage.GetPersonaAssignment(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona assignment: %w", err)
	}
	if entry := e.recorder.Record(userID, previous, decision, asOf); entry != nil {
		if err := e.storage.AppendPersonaHistory(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to append persona history: %w", err)
		}
		result.PersonaChanged = previous != nil
		result.HistoryAppended = true
	}
	assignment := &model.PersonaAssignment{
		UserID:      userID,
		PersonaID:   decision.PersonaID,
		PersonaName: decision.PersonaName,
		UpdatedAt:   asOf,
	}
	if err := e.storage.SavePersonaAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to save persona assignment: %w", err)
	}

	candidates := e.catalog.CandidatesFor(decision.PersonaID)
	checks := e.guardrails.Evaluate(guardrail.Context{
		ConsentGranted:      profile.ConsentGranted,
		AccountActive:       profile.AccountActive,
		IsMinor:             profile.IsMinor,
		JurisdictionBlocked: profile.JurisdictionBlocked,
	}, decision, candidates)
	result.GuardrailChecks = checks

	if !guardrail.Passed(checks) {
		// Fail closed: no content, but the trace still records why.
		result.Blocked = true
		result.Trace = e.traceBuilder.Build(decision, checks, nil)
		slog.Info("Evaluation blocked by guardrails", "user_id", userID, "failed_check", firstFailure(checks))
		return result, nil
	}

	cooldownStart := asOf.AddDate(0, 0, -e.config.CooldownDays)
	delivered, err := e.storage.GetRecentDeliveries(ctx, userID, cooldownStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery history: %w", err)
	}

	selected := e.selector.Select(decision.PersonaID, candidates, delivered)
	trace := e.traceBuilder.Build(decision, checks, selected)
	result.Trace = trace

	if len(selected) == 0 {
		slog.Info("No eligible candidates for persona", "user_id", userID, "persona_id", int(decision.PersonaID))
		return result, nil
	}

	recommendations := make([]model.Recommendation, 0, len(selected))
	contentIDs := make([]string, 0, len(selected))
	for _, candidate := range selected {
		recommendations = append(recommendations, model.Recommendation{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      candidate.Type,
			ContentID: candidate.ContentID,
			Title:     candidate.Title,
			Content:   candidate.Content,
			Rationale: candidate.Rationale,
			Status:    model.StatusPending,
			Trace:     trace,
			CreatedAt: asOf,
		})
		contentIDs = append(contentIDs, candidate.ContentID)
	}
	if err := e.storage.SaveRecommendations(ctx, recommendations); err != nil {
		return nil, fmt.Errorf("failed to save recommendations: %w", err)
	}
	if err := e.storage.RecordDeliveries(ctx, userID, contentIDs, asOf); err != nil {
		return nil, fmt.Errorf("failed to record deliveries: %w", err)
	}

	for _, rec := range recommendations {
		result.RecommendationIDs = append(result.RecommendationIDs, rec.ID)
	}
	slog.Info("Evaluation complete",
		"user_id", userID,
		"recommendations", len(recommendations))
	return result, nil
}

// EvaluateAll runs an evaluation cycle for every known user, continuing past
// per-user failures.
func (e *EvaluationEngine) EvaluateAll(ctx context.Context, asOf time.Time) ([]*service.EvaluationResult, error) {
	userIDs, err := e.storage.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	results := make([]*service.EvaluationResult, 0, len(userIDs))
	for _, userID := range userIDs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		result, err := e.EvaluateUser(ctx, userID, asOf)
		if err != nil {
			slog.Error("Evaluation failed", "user_id", userID, "error", err)
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *EvaluationEngine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

func firstFailure(checks []model.GuardrailCheck) string {
	for _, c := range checks {
		if !c.Passed {
			return c.Name
		}
	}
	return ""
}
