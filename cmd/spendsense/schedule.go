package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func scheduleCmd() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-evaluate all users on a cron schedule",
		Long: `Run the evaluation cycle for every known user on the given cron
schedule until interrupted. Personas drift as new transactions land, so a
nightly re-evaluation keeps assignments current.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if cronSpec == "" {
				cronSpec = viper.GetString("schedule.cron")
			}
			if cronSpec == "" {
				cronSpec = "0 2 * * *" // nightly at 02:00
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

			c := cron.New()
			_, err = c.AddFunc(cronSpec, func() {
				results, err := eng.EvaluateAll(ctx, time.Now())
				if err != nil {
					slog.Error("Scheduled evaluation failed", "error", err)
					return
				}
				slog.Info("Scheduled evaluation complete", "users", len(results))
			})
			if err != nil {
				return fmt.Errorf("invalid cron spec %q: %w", cronSpec, err)
			}

			slog.Info("Scheduler started", "cron", cronSpec)
			c.Start()
			<-ctx.Done()
			slog.Info("Scheduler stopping")

			stopCtx := c.Stop()
			<-stopCtx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "cron spec (default nightly at 02:00)")
	return cmd
}
