package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andychuong/spendsense/internal/cli"
)

func historyCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a user's persona history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetPersonaHistory(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to load persona history: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println(cli.InfoStyle.Render("No persona history for " + userID))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Persona history for " + userID))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Assigned"),
				cli.TableHeaderStyle.Render("Persona"),
				cli.TableHeaderStyle.Render("Name"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 16),
				strings.Repeat("-", 7),
				strings.Repeat("-", 24))
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\n",
					entry.AssignedAt.Format("2006-01-02 15:04"),
					int(entry.PersonaID),
					entry.PersonaName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose history to show")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
