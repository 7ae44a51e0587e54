package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andychuong/spendsense/internal/cli"
	"github.com/andychuong/spendsense/internal/model"
	"github.com/andychuong/spendsense/internal/service"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load synthetic demo data",
		Long: `Create a handful of synthetic users whose transaction histories land in
different personas, for local evaluation runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			now := time.Now()
			for _, user := range demoUsers(now) {
				if err := store.SaveUserProfile(ctx, &user.profile); err != nil {
					return fmt.Errorf("failed to seed user %s: %w", user.profile.UserID, err)
				}
				if err := store.SaveAccounts(ctx, user.accounts); err != nil {
					return fmt.Errorf("failed to seed accounts for %s: %w", user.profile.UserID, err)
				}
				if len(user.transactions) > 0 {
					if err := store.SaveTransactions(ctx, user.transactions); err != nil {
						return fmt.Errorf("failed to seed transactions for %s: %w", user.profile.UserID, err)
					}
				}
				fmt.Println(cli.InfoStyle.Render("Seeded " + user.profile.UserID))
			}

			fmt.Println(cli.SuccessStyle.Render("Demo data loaded. Try: spendsense evaluate --all"))
			return nil
		},
	}
}

type demoUser struct {
	profile      service.UserProfile
	accounts     []model.Account
	transactions []model.Transaction
}

// demoUsers builds one synthetic user per persona, plus one without consent.
func demoUsers(now time.Time) []demoUser {
	users := []demoUser{
		highUtilizationUser(now),
		variableIncomeUser(now),
		subscriptionHeavyUser(now),
		savingsBuilderUser(now),
		generalUser(now),
		noConsentUser(now),
	}
	for i := range users {
		for j := range users[i].transactions {
			txn := &users[i].transactions[j]
			txn.Hash = txn.GenerateHash()
		}
	}
	return users
}

func highUtilizationUser(now time.Time) demoUser {
	accounts := []model.Account{
		{ID: "hu-check", UserID: "demo-high-util", Name: "Checking", Type: model.AccountChecking, Balance: 800, IsActive: true},
		{ID: "hu-card", UserID: "demo-high-util", Name: "Rewards Card", Type: model.AccountCredit, Balance: 3400, CreditLimit: 5000, MinimumDue: 85, IsActive: true},
	}
	transactions := []model.Transaction{
		{ID: "hu-1", AccountID: "hu-card", Date: now.AddDate(0, 0, -12), Name: "INTEREST CHARGE", Category: "interest", Amount: -42.17},
		{ID: "hu-2", AccountID: "hu-card", Date: now.AddDate(0, 0, -10), Name: "PAYMENT RECEIVED", Category: "payment", Amount: 85},
		{ID: "hu-3", AccountID: "hu-check", Date: now.AddDate(0, 0, -5), Name: "GROCERY OUTLET", MerchantName: "Grocery Outlet", Category: "groceries", Amount: -96.40},
	}
	return demoUser{
		profile:      service.UserProfile{UserID: "demo-high-util", ConsentGranted: true, AccountActive: true},
		accounts:     accounts,
		transactions: transactions,
	}
}

func variableIncomeUser(now time.Time) demoUser {
	accounts := []model.Account{
		{ID: "vi-check", UserID: "demo-variable", Name: "Checking", Type: model.AccountChecking, Balance: 420, IsActive: true},
		{ID: "vi-save", UserID: "demo-variable", Name: "Savings", Type: model.AccountSavings, Balance: 150, IsActive: true},
	}
	var transactions []model.Transaction
	// Freelance deposits roughly every seven weeks, uneven amounts.
	for i, gap := range []int{170, 119, 63, 10} {
		transactions = append(transactions, model.Transaction{
			ID:        fmt.Sprintf("vi-pay-%d", i),
			AccountID: "vi-check",
			Date:      now.AddDate(0, 0, -gap),
			Name:      "CLIENT PAYMENT",
			Category:  "income",
			Amount:    900 + float64(i*350),
		})
	}
	for i := 0; i < 6; i++ {
		transactions = append(transactions, model.Transaction{
			ID:           fmt.Sprintf("vi-rent-%d", i),
			AccountID:    "vi-check",
			Date:         now.AddDate(0, 0, -5-i*30),
			Name:         "RENT",
			MerchantName: "Oak Street Apartments",
			Category:     "housing",
			Amount:       -650,
		})
	}
	return demoUser{
		profile:      service.UserProfile{UserID: "demo-variable", ConsentGranted: true, AccountActive: true},
		accounts:     accounts,
		transactions: transactions,
	}
}

func subscriptionHeavyUser(now time.Time) demoUser {
	accounts := []model.Account{
		{ID: "sh-check", UserID: "demo-subs", Name: "Checking", Type: model.AccountChecking, Balance: 2100, IsActive: true},
	}
	var transactions []model.Transaction
	merchants := []struct {
		name   string
		amount float64
	}{
		{"StreamFlix", 15.99},
		{"TuneBox", 10.99},
		{"CloudVault", 9.99},
		{"NewsDaily", 12.50},
		{"FitTrack", 29.99},
	}
	for m, merchant := range merchants {
		for i := 0; i < 5; i++ {
			transactions = append(transactions, model.Transaction{
				ID:           fmt.Sprintf("sh-%d-%d", m, i),
				AccountID:    "sh-check",
				Date:         now.AddDate(0, 0, -3-i*30),
				Name:         merchant.name,
				MerchantName: merchant.name,
				Category:     "subscription",
				Amount:       -merchant.amount,
			})
		}
	}
	for i := 0; i < 6; i++ {
		transactions = append(transactions, model.Transaction{
			ID:        fmt.Sprintf("sh-pay-%d", i),
			AccountID: "sh-check",
			Date:      now.AddDate(0, 0, -1-i*30),
			Name:      "EMPLOYER PAYROLL",
			Category:  "payroll",
			Amount:    2600,
		})
	}
	return demoUser{
		profile:      service.UserProfile{UserID: "demo-subs", ConsentGranted: true, AccountActive: true},
		accounts:     accounts,
		transactions: transactions,
	}
}

func savingsBuilderUser(now time.Time) demoUser {
	accounts := []model.Account{
		{ID: "sb-check", UserID: "demo-saver", Name: "Checking", Type: model.AccountChecking, Balance: 3200, IsActive: true},
		{ID: "sb-save", UserID: "demo-saver", Name: "Savings", Type: model.AccountSavings, Balance: 9800, IsActive: true},
		{ID: "sb-card", UserID: "demo-saver", Name: "Card", Type: model.AccountCredit, Balance: 300, CreditLimit: 6000, IsActive: true},
	}
	var transactions []model.Transaction
	for i := 0; i < 6; i++ {
		transactions = append(transactions, model.Transaction{
			ID:        fmt.Sprintf("sb-xfer-%d", i),
			AccountID: "sb-save",
			Date:      now.AddDate(0, 0, -2-i*30),
			Name:      "AUTO TRANSFER",
			Category:  "transfer_in",
			Amount:    400,
		})
		transactions = append(transactions, model.Transaction{
			ID:        fmt.Sprintf("sb-pay-%d", i),
			AccountID: "sb-check",
			Date:      now.AddDate(0, 0, -1-i*30),
			Name:      "EMPLOYER PAYROLL",
			Category:  "payroll",
			Amount:    4100,
		})
	}
	return demoUser{
		profile:      service.UserProfile{UserID: "demo-saver", ConsentGranted: true, AccountActive: true},
		accounts:     accounts,
		transactions: transactions,
	}
}

func generalUser(now time.Time) demoUser {
	accounts := []model.Account{
		{ID: "gu-check", UserID: "demo-general", Name: "Checking", Type: model.AccountChecking, Balance: 1500, IsActive: true},
	}
	transactions := []model.Transaction{
		{ID: "gu-1", AccountID: "gu-check", Date: now.AddDate(0, 0, -8), Name: "COFFEE SHOP", MerchantName: "Beanery", Category: "dining", Amount: -6.25},
		{ID: "gu-2", AccountID: "gu-check", Date: now.AddDate(0, 0, -20), Name: "HARDWARE STORE", MerchantName: "Toolhouse", Category: "shopping", Amount: -54.80},
	}
	return demoUser{
		profile:      service.UserProfile{UserID: "demo-general", ConsentGranted: true, AccountActive: true},
		accounts:     accounts,
		transactions: transactions,
	}
}

func noConsentUser(now time.Time) demoUser {
	accounts := []model.Account{
		{ID: "nc-check", UserID: "demo-no-consent", Name: "Checking", Type: model.AccountChecking, Balance: 900, IsActive: true},
	}
	transactions := []model.Transaction{
		{ID: "nc-1", AccountID: "nc-check", Date: now.AddDate(0, 0, -3), Name: "GAS STATION", MerchantName: "Fuelco", Category: "auto", Amount: -38.10},
	}
	return demoUser{
		profile:      service.UserProfile{UserID: "demo-no-consent", ConsentGranted: false, AccountActive: true},
		accounts:     accounts,
		transactions: transactions,
	}
}
