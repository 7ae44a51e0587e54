package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andychuong/spendsense/internal/common"
	"github.com/andychuong/spendsense/internal/model"
	"github.com/andychuong/spendsense/internal/service"
)

// GetUserProfile returns the consent and eligibility facts for a user.
func (s *SQLiteStorage) GetUserProfile(ctx context.Context, userID string) (*service.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	profile := &service.UserProfile{UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT consent_granted, account_active, is_minor, jurisdiction_blocked
		FROM users WHERE id = ?`, userID).
		Scan(&profile.ConsentGranted, &profile.AccountActive, &profile.IsMinor, &profile.JurisdictionBlocked)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", common.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile, nil
}

// SaveUserProfile inserts or replaces a user profile.
func (s *SQLiteStorage) SaveUserProfile(ctx context.Context, profile *service.UserProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if err := validateString(profile.UserID, "profile.UserID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, consent_granted, account_active, is_minor, jurisdiction_blocked)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			consent_granted = excluded.consent_granted,
			account_active = excluded.account_active,
			is_minor = excluded.is_minor,
			jurisdiction_blocked = excluded.jurisdiction_blocked`,
		profile.UserID, profile.ConsentGranted, profile.AccountActive, profile.IsMinor, profile.JurisdictionBlocked)
	if err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// ListUserIDs returns every known user ID in stable order.
func (s *SQLiteStorage) ListUserIDs(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetAccounts returns all accounts for a user.
func (s *SQLiteStorage) GetAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, balance, credit_limit, minimum_due, is_overdue, is_active
		FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.CreditLimit, &a.MinimumDue, &a.IsOverdue, &a.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// SaveAccounts inserts or replaces a batch of accounts.
func (s *SQLiteStorage) SaveAccounts(ctx context.Context, accounts []model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(accounts) == 0 {
		return fmt.Errorf("%w: accounts", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range accounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO accounts (id, user_id, name, type, balance, credit_limit, minimum_due, is_overdue, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.UserID, a.Name, a.Type, a.Balance, a.CreditLimit, a.MinimumDue, a.IsOverdue, a.IsActive); err != nil {
			return fmt.Errorf("failed to save account %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// SaveTransactions inserts a batch of transactions, skipping duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, txn := range transactions {
		hash := txn.Hash
		if hash == "" {
			hash = txn.GenerateHash()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO transactions (id, hash, date, name, merchant_name, category, amount, account_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			txn.ID, hash, txn.Date, txn.Name, txn.MerchantName, txn.Category, txn.Amount, txn.AccountID); err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
	}
	return tx.Commit()
}

// GetTransactions returns all of a user's transactions dated within
// [start, end], oldest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID string, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v is before start %v", ErrInvalidDateRange, end, start)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.hash, t.date, t.name, t.merchant_name, t.category, t.amount, t.account_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = ? AND t.date >= ? AND t.date <= ?
		ORDER BY t.date ASC`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var merchant, category sql.NullString
		if err := rows.Scan(&txn.ID, &txn.Hash, &txn.Date, &txn.Name, &merchant, &category, &txn.Amount, &txn.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.MerchantName = merchant.String
		txn.Category = category.String
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}
