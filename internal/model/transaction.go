// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// AccountType identifies the kind of account a transaction belongs to.
type AccountType string

// Account type constants.
const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
	AccountCredit   AccountType = "credit"
)

// Account holds the per-account metadata the signal extractor needs.
// For credit accounts, Balance is the outstanding balance and CreditLimit
// the total line; both are zero-valued and ignored for other account types.
type Account struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	Balance     float64     `json:"balance"`
	CreditLimit float64     `json:"credit_limit,omitempty"`
	MinimumDue  float64     `json:"minimum_due,omitempty"`
	IsOverdue   bool        `json:"is_overdue,omitempty"`
	IsActive    bool        `json:"is_active"`
}

// Transaction represents a single financial transaction from the upstream
// ledger. Amounts are signed: negative for outflows, positive for inflows.
// Transactions are immutable once ingested; the core only reads them.
type Transaction struct {
	Date         time.Time `json:"date"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MerchantName string    `json:"merchant_name"`
	Category     string    `json:"category"`
	AccountID    string    `json:"account_id"`
	Hash         string    `json:"hash"`
	Amount       float64   `json:"amount"`
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// IsInflow reports whether the transaction deposits money into the account.
func (t *Transaction) IsInflow() bool {
	return t.Amount > 0
}

// Merchant returns the best available merchant identity for grouping:
// the cleaned merchant name when present, otherwise the raw description.
func (t *Transaction) Merchant() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Name
}

// incomeCategories are category labels treated as income deposits.
var incomeCategories = map[string]bool{
	"income":      true,
	"payroll":     true,
	"salary":      true,
	"deposit":     true,
	"transfer_in": true,
}

// IsIncomeCategory reports whether the transaction's category label marks it
// as an income deposit.
func (t *Transaction) IsIncomeCategory() bool {
	return incomeCategories[strings.ToLower(t.Category)]
}

// IsInterestCharge reports whether the transaction is a credit interest charge.
func (t *Transaction) IsInterestCharge() bool {
	return strings.EqualFold(t.Category, "interest")
}

// IsPayment reports whether the transaction is a payment toward a credit
// account balance.
func (t *Transaction) IsPayment() bool {
	return strings.EqualFold(t.Category, "payment")
}
