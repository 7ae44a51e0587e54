package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/andychuong/spendsense/internal/model"
)

// GetPersonaAssignment returns the stored persona for a user, or nil when
// the user has never been classified.
func (s *SQLiteStorage) GetPersonaAssignment(ctx context.Context, userID string) (*model.PersonaAssignment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	assignment := &model.PersonaAssignment{UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT persona_id, persona_name, updated_at
		FROM persona_assignments WHERE user_id = ?`, userID).
		Scan(&assignment.PersonaID, &assignment.PersonaName, &assignment.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persona assignment: %w", err)
	}
	return assignment, nil
}

// SavePersonaAssignment stores or replaces the current persona for a user.
func (s *SQLiteStorage) SavePersonaAssignment(ctx context.Context, assignment *model.PersonaAssignment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if assignment == nil {
		return fmt.Errorf("%w: assignment", ErrNilParameter)
	}
	if err := validateString(assignment.UserID, "assignment.UserID"); err != nil {
		return err
	}
	if err := validatePersonaID(assignment.PersonaID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO persona_assignments (user_id, persona_id, persona_name, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			persona_id = excluded.persona_id,
			persona_name = excluded.persona_name,
			updated_at = excluded.updated_at`,
		assignment.UserID, assignment.PersonaID, assignment.PersonaName, assignment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save persona assignment: %w", err)
	}
	return nil
}

// AppendPersonaHistory inserts an append-only history row. History rows are
// never updated or deleted.
func (s *SQLiteStorage) AppendPersonaHistory(ctx context.Context, entry *model.PersonaHistoryEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if err := validateString(entry.UserID, "entry.UserID"); err != nil {
		return err
	}
	if err := validatePersonaID(entry.PersonaID); err != nil {
		return err
	}

	signals30, err := json.Marshal(entry.Signals30Day)
	if err != nil {
		return fmt.Errorf("failed to encode 30d signals: %w", err)
	}
	signals180, err := json.Marshal(entry.Signals180Day)
	if err != nil {
		return fmt.Errorf("failed to encode 180d signals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO persona_history (user_id, persona_id, persona_name, assigned_at, signals_30d, signals_180d)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.PersonaID, entry.PersonaName, entry.AssignedAt, string(signals30), string(signals180))
	if err != nil {
		return fmt.Errorf("failed to append persona history: %w", err)
	}
	return nil
}

// GetPersonaHistory returns a user's persona history, newest first.
func (s *SQLiteStorage) GetPersonaHistory(ctx context.Context, userID string) ([]model.PersonaHistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, persona_id, persona_name, assigned_at, signals_30d, signals_180d
		FROM persona_history WHERE user_id = ?
		ORDER BY assigned_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get persona history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.PersonaHistoryEntry
	for rows.Next() {
		var entry model.PersonaHistoryEntry
		var signals30, signals180 sql.NullString
		if err := rows.Scan(&entry.UserID, &entry.PersonaID, &entry.PersonaName, &entry.AssignedAt, &signals30, &signals180); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if signals30.Valid && signals30.String != "null" {
			if err := json.Unmarshal([]byte(signals30.String), &entry.Signals30Day); err != nil {
				return nil, fmt.Errorf("failed to decode 30d signals: %w", err)
			}
		}
		if signals180.Valid && signals180.String != "null" {
			if err := json.Unmarshal([]byte(signals180.String), &entry.Signals180Day); err != nil {
				return nil, fmt.Errorf("failed to decode 180d signals: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
