package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andychuong/spendsense/internal/cli"
	"github.com/andychuong/spendsense/internal/model"
	"github.com/andychuong/spendsense/internal/workflow"
)

func recommendationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recommendations",
		Aliases: []string{"recs"},
		Short:   "Review and decide pending recommendations",
	}

	cmd.AddCommand(listRecommendationsCmd())
	cmd.AddCommand(approveRecommendationCmd())
	cmd.AddCommand(rejectRecommendationCmd())

	return cmd
}

func listRecommendationsCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recommendations by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recommendations, err := store.GetRecommendationsByStatus(ctx, model.RecommendationStatus(status))
			if err != nil {
				return fmt.Errorf("failed to list recommendations: %w", err)
			}

			if len(recommendations) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No %s recommendations.", status)))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("User"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Title"),
				cli.TableHeaderStyle.Render("Created"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36),
				strings.Repeat("-", 8),
				strings.Repeat("-", 13),
				strings.Repeat("-", 30),
				strings.Repeat("-", 10))
			for _, rec := range recommendations {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID,
					rec.UserID,
					rec.Type,
					rec.Title,
					rec.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(model.StatusPending), "status to filter by (pending, approved, rejected)")
	return cmd
}

func approveRecommendationCmd() *cobra.Command {
	var approver string

	cmd := &cobra.Command{
		Use:   "approve <recommendation-id>",
		Short: "Approve a pending recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.GetRecommendation(ctx, args[0])
			if err != nil {
				return err
			}

			if err := workflow.New().Approve(rec, approver, time.Now()); err != nil {
				return err
			}
			if err := store.UpdateRecommendation(ctx, rec); err != nil {
				return fmt.Errorf("failed to persist approval: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Approved %s (%s) by %s", rec.ID, rec.Title, approver)))
			return nil
		},
	}

	cmd.Flags().StringVar(&approver, "by", "", "operator approving the recommendation")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func rejectRecommendationCmd() *cobra.Command {
	var (
		rejector string
		reason   string
	)

	cmd := &cobra.Command{
		Use:   "reject <recommendation-id>",
		Short: "Reject a pending recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.GetRecommendation(ctx, args[0])
			if err != nil {
				return err
			}

			if err := workflow.New().Reject(rec, rejector, reason, time.Now()); err != nil {
				return err
			}
			if err := store.UpdateRecommendation(ctx, rec); err != nil {
				return fmt.Errorf("failed to persist rejection: %w", err)
			}

			fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("Rejected %s (%s): %s", rec.ID, rec.Title, reason)))
			return nil
		},
	}

	cmd.Flags().StringVar(&rejector, "by", "", "operator rejecting the recommendation")
	cmd.Flags().StringVar(&reason, "reason", "", "why the recommendation is rejected")
	_ = cmd.MarkFlagRequired("by")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}
