package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andychuong/spendsense/internal/common"
	"github.com/andychuong/spendsense/internal/model"
)

// SaveRecommendations inserts a batch of newly generated recommendations.
func (s *SQLiteStorage) SaveRecommendations(ctx context.Context, recommendations []model.Recommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(recommendations) == 0 {
		return fmt.Errorf("%w: recommendations", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range recommendations {
		trace, err := json.Marshal(rec.Trace)
		if err != nil {
			return fmt.Errorf("failed to encode decision trace: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recommendations (id, user_id, type, content_id, title, content, rationale, status, decision_trace, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.UserID, rec.Type, rec.ContentID, rec.Title, rec.Content, rec.Rationale, rec.Status, string(trace), rec.CreatedAt); err != nil {
			return fmt.Errorf("failed to save recommendation %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}

// GetRecommendation returns one recommendation by ID.
func (s *SQLiteStorage) GetRecommendation(ctx context.Context, id string) (*model.Recommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, content_id, title, content, rationale, status, decision_trace, created_at, decided_at, decided_by, rejection_reason
		FROM recommendations WHERE id = ?`, id)

	rec, err := scanRecommendation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: recommendation %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return rec, nil
}

// GetRecommendationsByStatus returns all recommendations in a status,
// newest first.
func (s *SQLiteStorage) GetRecommendationsByStatus(ctx context.Context, status model.RecommendationStatus) ([]model.Recommendation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, content_id, title, content, rationale, status, decision_trace, created_at, decided_at, decided_by, rejection_reason
		FROM recommendations WHERE status = ?
		ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recommendations []model.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recommendations = append(recommendations, *rec)
	}
	return recommendations, rows.Err()
}

// UpdateRecommendation persists a workflow transition. The decision trace is
// append-once and deliberately not part of the update.
func (s *SQLiteStorage) UpdateRecommendation(ctx context.Context, rec *model.Recommendation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: rec", ErrNilParameter)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recommendations
		SET status = ?, decided_at = ?, decided_by = ?, rejection_reason = ?
		WHERE id = ?`,
		rec.Status, rec.DecidedAt, rec.DecidedBy, rec.RejectionReason, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: recommendation %s", common.ErrNotFound, rec.ID)
	}
	return nil
}

// RecordDeliveries logs delivered content IDs for cooldown filtering.
func (s *SQLiteStorage) RecordDeliveries(ctx context.Context, userID string, contentIDs []string, deliveredAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if len(contentIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, contentID := range contentIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deliveries (user_id, content_id, delivered_at)
			VALUES (?, ?, ?)`, userID, contentID, deliveredAt); err != nil {
			return fmt.Errorf("failed to record delivery of %s: %w", contentID, err)
		}
	}
	return tx.Commit()
}

// GetRecentDeliveries returns the set of content IDs delivered to the user
// since the given time.
func (s *SQLiteStorage) GetRecentDeliveries(ctx context.Context, userID string, since time.Time) (map[string]bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT content_id FROM deliveries
		WHERE user_id = ? AND delivered_at >= ?`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent deliveries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	delivered := make(map[string]bool)
	for rows.Next() {
		var contentID string
		if err := rows.Scan(&contentID); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		delivered[contentID] = true
	}
	return delivered, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row scanner) (*model.Recommendation, error) {
	var rec model.Recommendation
	var trace string
	var decidedAt sql.NullTime
	var decidedBy, rejectionReason sql.NullString

	err := row.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.ContentID, &rec.Title, &rec.Content, &rec.Rationale,
		&rec.Status, &trace, &rec.CreatedAt, &decidedAt, &decidedBy, &rejectionReason)
	if err != nil {
		return nil, err
	}

	if trace != "" && trace != "null" {
		if err := json.Unmarshal([]byte(trace), &rec.Trace); err != nil {
			return nil, fmt.Errorf("failed to decode decision trace: %w", err)
		}
	}
	if decidedAt.Valid {
		rec.DecidedAt = &decidedAt.Time
	}
	rec.DecidedBy = decidedBy.String
	rec.RejectionReason = rejectionReason.String
	return &rec, nil
}
