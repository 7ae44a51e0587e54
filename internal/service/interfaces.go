// Package service defines the interfaces between the decision core and the
// surrounding persistence layer. The core components never touch storage
// directly; they accept already-fetched inputs and return values, with all
// persistence delegated to these contracts at the orchestration boundary.
package service

import (
	"context"
	"time"

	"github.com/andychuong/spendsense/internal/model"
)

// UserProfile carries the consent and eligibility facts owned by the user
// subsystem. Read-only to the core.
type UserProfile struct {
	UserID              string
	ConsentGranted      bool
	AccountActive       bool
	IsMinor             bool
	JurisdictionBlocked bool
}

// EvaluationResult is the typed outcome of one evaluation cycle. Blocked is
// an expected, non-exceptional outcome: guardrail failures skip generation
// but still produce a trace.
type EvaluationResult struct {
	UserID            string
	Decision          model.PersonaDecision
	PersonaChanged    bool
	HistoryAppended   bool
	GuardrailChecks   []model.GuardrailCheck
	Blocked           bool
	Trace             *model.DecisionTrace
	RecommendationIDs []string
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// User and account operations
	GetUserProfile(ctx context.Context, userID string) (*UserProfile, error)
	SaveUserProfile(ctx context.Context, profile *UserProfile) error
	ListUserIDs(ctx context.Context) ([]string, error)
	GetAccounts(ctx context.Context, userID string) ([]model.Account, error)
	SaveAccounts(ctx context.Context, accounts []model.Account) error

	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error)

	// Persona operations
	GetPersonaAssignment(ctx context.Context, userID string) (*model.PersonaAssignment, error)
	SavePersonaAssignment(ctx context.Context, assignment *model.PersonaAssignment) error
	AppendPersonaHistory(ctx context.Context, entry *model.PersonaHistoryEntry) error
	GetPersonaHistory(ctx context.Context, userID string) ([]model.PersonaHistoryEntry, error)

	// Recommendation operations
	SaveRecommendations(ctx context.Context, recommendations []model.Recommendation) error
	GetRecommendation(ctx context.Context, id string) (*model.Recommendation, error)
	GetRecommendationsByStatus(ctx context.Context, status model.RecommendationStatus) ([]model.Recommendation, error)
	UpdateRecommendation(ctx context.Context, rec *model.Recommendation) error

	// Delivery history for cooldown filtering
	RecordDeliveries(ctx context.Context, userID string, contentIDs []string, deliveredAt time.Time) error
	GetRecentDeliveries(ctx context.Context, userID string, since time.Time) (map[string]bool, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
