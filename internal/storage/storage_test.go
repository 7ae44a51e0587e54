package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andychuong/spendsense/internal/common"
	"github.com/andychuong/spendsense/internal/model"
	"github.com/andychuong/spendsense/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStorage, userID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveUserProfile(ctx, &service.UserProfile{
		UserID:         userID,
		ConsentGranted: true,
		AccountActive:  true,
	}))
	require.NoError(t, store.SaveAccounts(ctx, []model.Account{
		{ID: userID + "-check", UserID: userID, Name: "Checking", Type: model.AccountChecking, Balance: 1000, IsActive: true},
	}))
}

func TestUserProfileRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	profile := &service.UserProfile{
		UserID:              "u1",
		ConsentGranted:      true,
		AccountActive:       true,
		JurisdictionBlocked: true,
	}
	require.NoError(t, store.SaveUserProfile(ctx, profile))

	got, err := store.GetUserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, profile, got)

	// Upsert replaces fields.
	profile.ConsentGranted = false
	require.NoError(t, store.SaveUserProfile(ctx, profile))
	got, err = store.GetUserProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.ConsentGranted)

	_, err = store.GetUserProfile(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListUserIDs(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	ids, err := store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	seedUser(t, store, "u2")
	seedUser(t, store, "u1")

	ids, err = store.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
}

func TestTransactionsWindowQuery(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []model.Transaction{
		{ID: "t1", AccountID: "u1-check", Date: asOf.AddDate(0, 0, -5), Name: "RECENT", MerchantName: "A", Category: "dining", Amount: -10},
		{ID: "t2", AccountID: "u1-check", Date: asOf.AddDate(0, 0, -100), Name: "OLDER", Amount: -20},
		{ID: "t3", AccountID: "u1-check", Date: asOf.AddDate(0, 0, -300), Name: "ANCIENT", Amount: -30},
	}
	for i := range transactions {
		transactions[i].Hash = transactions[i].GenerateHash()
	}
	require.NoError(t, store.SaveTransactions(ctx, transactions))

	// Duplicate hashes are ignored on re-import.
	require.NoError(t, store.SaveTransactions(ctx, transactions))

	got, err := store.GetTransactions(ctx, "u1", asOf.AddDate(0, 0, -180), asOf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Oldest first.
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "t1", got[1].ID)
	assert.Equal(t, "A", got[1].MerchantName)
	assert.Equal(t, "dining", got[1].Category)

	_, err = store.GetTransactions(ctx, "u1", asOf, asOf.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestPersonaAssignmentUpsert(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	got, err := store.GetPersonaAssignment(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	first := &model.PersonaAssignment{
		UserID:      "u1",
		PersonaID:   model.PersonaGeneralUser,
		PersonaName: model.PersonaGeneralUser.Name(),
		UpdatedAt:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SavePersonaAssignment(ctx, first))

	second := &model.PersonaAssignment{
		UserID:      "u1",
		PersonaID:   model.PersonaSubscriptionHeavy,
		PersonaName: model.PersonaSubscriptionHeavy.Name(),
		UpdatedAt:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SavePersonaAssignment(ctx, second))

	got, err = store.GetPersonaAssignment(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.PersonaSubscriptionHeavy, got.PersonaID)

	// Unknown personas are rejected before touching the database.
	err = store.SavePersonaAssignment(ctx, &model.PersonaAssignment{UserID: "u1", PersonaID: 9})
	require.ErrorIs(t, err, ErrInvalidPersona)
}

func TestPersonaHistoryAppendAndRead(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	bundle := &model.SignalBundle{
		Window: model.Window30Day,
		AsOf:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Subscriptions: model.SubscriptionSignals{
			RecurringMerchantCount: 4,
		},
	}
	spend := 125.0
	bundle.Subscriptions.MonthlyRecurringSpend = &spend

	entries := []model.PersonaHistoryEntry{
		{UserID: "u1", PersonaID: model.PersonaGeneralUser, PersonaName: model.PersonaGeneralUser.Name(), AssignedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: "u1", PersonaID: model.PersonaSubscriptionHeavy, PersonaName: model.PersonaSubscriptionHeavy.Name(), AssignedAt: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), Signals30Day: bundle},
	}
	for i := range entries {
		require.NoError(t, store.AppendPersonaHistory(ctx, &entries[i]))
	}

	got, err := store.GetPersonaHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first, signal snapshot survives the JSON round trip.
	assert.Equal(t, model.PersonaSubscriptionHeavy, got[0].PersonaID)
	require.NotNil(t, got[0].Signals30Day)
	assert.Equal(t, 4, got[0].Signals30Day.Subscriptions.RecurringMerchantCount)
	require.NotNil(t, got[0].Signals30Day.Subscriptions.MonthlyRecurringSpend)
	assert.InDelta(t, 125.0, *got[0].Signals30Day.Subscriptions.MonthlyRecurringSpend, 0.001)
	assert.Nil(t, got[1].Signals30Day)
}

func TestRecommendationRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	trace := &model.DecisionTrace{
		PersonaAssignment: model.PersonaSummary{
			PersonaID:     model.PersonaHighUtilization,
			PersonaName:   model.PersonaHighUtilization.Name(),
			MatchedRuleID: "high_utilization",
		},
		GuardrailChecks: []model.GuardrailCheck{
			{Name: "consent", Passed: true, Reason: "data-use consent on file"},
		},
	}
	trace.RecommendationLogic.SelectedContentIDs = []string{"edu-utilization-basics"}

	created := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	rec := model.Recommendation{
		ID:        "rec-1",
		UserID:    "u1",
		Type:      model.CandidateEducation,
		ContentID: "edu-utilization-basics",
		Title:     "Understanding credit utilization",
		Content:   "Body",
		Rationale: "High utilization",
		Status:    model.StatusPending,
		Trace:     trace,
		CreatedAt: created,
	}
	require.NoError(t, store.SaveRecommendations(ctx, []model.Recommendation{rec}))

	got, err := store.GetRecommendation(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	require.NotNil(t, got.Trace)
	assert.Equal(t, "high_utilization", got.Trace.PersonaAssignment.MatchedRuleID)
	assert.Equal(t, []string{"edu-utilization-basics"}, got.Trace.RecommendationLogic.SelectedContentIDs)

	pending, err := store.GetRecommendationsByStatus(ctx, model.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Persist a workflow decision.
	decidedAt := created.Add(24 * time.Hour)
	got.Status = model.StatusApproved
	got.DecidedBy = "operator-a"
	got.DecidedAt = &decidedAt
	require.NoError(t, store.UpdateRecommendation(ctx, got))

	approved, err := store.GetRecommendationsByStatus(ctx, model.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "operator-a", approved[0].DecidedBy)
	require.NotNil(t, approved[0].DecidedAt)

	// The decision trace is append-once: the update path never touches it.
	assert.Equal(t, "high_utilization", approved[0].Trace.PersonaAssignment.MatchedRuleID)

	err = store.UpdateRecommendation(ctx, &model.Recommendation{ID: "missing"})
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetRecommendation(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeliveriesCooldownSet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	seedUser(t, store, "u1")

	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordDeliveries(ctx, "u1", []string{"edu-1", "offer-1"}, now.AddDate(0, 0, -10)))
	require.NoError(t, store.RecordDeliveries(ctx, "u1", []string{"edu-2"}, now.AddDate(0, 0, -45)))

	// Only deliveries inside the cooldown window count.
	recent, err := store.GetRecentDeliveries(ctx, "u1", now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"edu-1": true, "offer-1": true}, recent)

	// Empty delivery batches are a no-op.
	require.NoError(t, store.RecordDeliveries(ctx, "u1", nil, now))
}
