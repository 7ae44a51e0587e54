package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andychuong/spendsense/internal/cli"
	"github.com/andychuong/spendsense/internal/service"
)

func evaluateCmd() *cobra.Command {
	var (
		userID  string
		asOfStr string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run an evaluation cycle",
		Long: `Extract behavioral signals, classify the persona, run guardrails, and
generate pending recommendations for one user or for all users.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !all && userID == "" {
				return fmt.Errorf("either --user or --all is required")
			}

			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			eng, err := initEngine(store)
			if err != nil {
				return err
			}

			if all {
				results, err := eng.EvaluateAll(ctx, asOf)
				if err != nil {
					return fmt.Errorf("evaluation failed: %w", err)
				}
				fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Evaluated %d users", len(results))))
				for _, result := range results {
					printEvaluation(result)
				}
				return nil
			}

			result, err := eng.EvaluateUser(ctx, userID, asOf)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}
			printEvaluation(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user to evaluate")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "reference date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&all, "all", false, "evaluate every known user")
	return cmd
}

func printEvaluation(result *service.EvaluationResult) {
	persona := fmt.Sprintf("%s → persona %d (%s), rule %s",
		result.UserID,
		int(result.Decision.PersonaID),
		result.Decision.PersonaName,
		result.Decision.MatchedRuleID)
	fmt.Println(cli.BoldStyle.Render(persona))

	if result.HistoryAppended {
		fmt.Println(cli.InfoStyle.Render("  persona history entry appended"))
	}

	if result.Blocked {
		var failures []string
		for _, check := range result.GuardrailChecks {
			if !check.Passed {
				failures = append(failures, fmt.Sprintf("%s (%s)", check.Name, check.Reason))
			}
		}
		fmt.Println(cli.WarningStyle.Render("  blocked by guardrails: " + strings.Join(failures, "; ")))
		return
	}

	if len(result.RecommendationIDs) == 0 {
		fmt.Println(cli.SubtleStyle.Render("  no eligible content to recommend"))
		return
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("  %d pending recommendations created", len(result.RecommendationIDs))))
}
